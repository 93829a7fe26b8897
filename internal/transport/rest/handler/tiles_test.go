package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/katiamach/terraguard/internal/tiles"
	"github.com/tj/assert"

	mock "github.com/katiamach/terraguard/internal/transport/rest/handler/mock"
)

func TestTileHandler(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	cases := []struct {
		name           string
		vars           map[string]string
		fetchErr       error
		isMockCalled   bool
		expectedStatus int
	}{
		{
			name:           "not a number",
			vars:           map[string]string{"z": "a", "x": "0", "y": "0"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "out of range",
			vars:           map[string]string{"z": "1", "x": "5", "y": "0"},
			fetchErr:       fmt.Errorf("%w: x 5", tiles.ErrInvalidTile),
			isMockCalled:   true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "upstream failure",
			vars:           map[string]string{"z": "1", "x": "1", "y": "0"},
			fetchErr:       fmt.Errorf("%w: status 401", tiles.ErrUpstream),
			isMockCalled:   true,
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "ok",
			vars:           map[string]string{"z": "1", "x": "1", "y": "0"},
			isMockCalled:   true,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockTiles := mock.NewMockTileSource(ctrl)
			s := NewRiskServer(nil, mockTiles, nil)

			if tc.isMockCalled {
				tile := tiles.Tile{}
				if tc.fetchErr == nil {
					tile = tiles.Tile{Body: png, ContentType: "image/png"}
				}
				mockTiles.EXPECT().
					Fetch(gomock.Any(), 1, gomock.Any(), 0).
					Return(tile, tc.fetchErr)
			}

			w := httptest.NewRecorder()
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/tiles", nil), tc.vars)

			s.TileHandler(w, r)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
				assert.Equal(t, png, w.Body.Bytes())
			}
		})
	}
}
