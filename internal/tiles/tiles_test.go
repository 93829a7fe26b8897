package tiles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/tj/assert"
)

const testToken = "sk.secret-token"

func TestFetch(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/tiles/3/2/1", r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	p := NewProxy(srv.URL+"/tiles/{z}/{x}/{y}?access_token={token}", testToken, time.Minute, metrics.New())
	defer p.Close()

	for i := 0; i < 2; i++ {
		tile, err := p.Fetch(context.Background(), 3, 2, 1)
		assert.Nil(t, err)
		assert.Equal(t, "image/png", tile.ContentType)
		assert.Equal(t, []byte("png-bytes"), tile.Body)
	}
	assert.Equal(t, 1, calls)
}

func TestFetchInvalidTile(t *testing.T) {
	p := NewProxy("http://127.0.0.1:1/{z}/{x}/{y}", testToken, time.Minute, metrics.New())
	defer p.Close()

	cases := [][3]int{{-1, 0, 0}, {23, 0, 0}, {2, 4, 0}, {2, 0, -1}}
	for _, c := range cases {
		_, err := p.Fetch(context.Background(), c[0], c[1], c[2])
		assert.True(t, errors.Is(err, ErrInvalidTile))
	}
}

func TestFetchErrorsHideToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewProxy(srv.URL+"/{z}/{x}/{y}?access_token={token}", testToken, time.Minute, metrics.New())
	defer p.Close()

	_, err := p.Fetch(context.Background(), 1, 1, 1)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.False(t, strings.Contains(err.Error(), testToken))

	url := srv.URL
	srv.Close()
	p = NewProxy(url+"/{z}/{x}/{y}?access_token={token}", testToken, time.Minute, metrics.New())
	defer p.Close()

	_, err = p.Fetch(context.Background(), 1, 0, 0)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.False(t, strings.Contains(err.Error(), testToken))
}
