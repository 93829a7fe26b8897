// Package tiles proxies map tiles from a token protected provider so the
// token never reaches the browser.
package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/katiamach/terraguard/internal/cache"
	"github.com/katiamach/terraguard/internal/metrics"
)

// DefaultURLTemplate is the Mapbox satellite style.
const DefaultURLTemplate = "https://api.mapbox.com/styles/v1/mapbox/satellite-v9/tiles/{z}/{x}/{y}?access_token={token}"

const (
	maxZoom     = 22
	maxTileSize = 4 << 20
)

var (
	ErrInvalidTile = errors.New("invalid tile coordinates")
	ErrUpstream    = errors.New("tile provider request failed")
)

// Tile is a fetched tile image.
type Tile struct {
	Body        []byte
	ContentType string
}

// Proxy fetches and caches tiles.
type Proxy struct {
	template string
	token    string
	ttl      time.Duration
	client   *http.Client
	cache    *cache.Cache[Tile]
	metrics  *metrics.Metrics
}

// NewProxy creates new Proxy. template uses {z}, {x}, {y} and {token}.
func NewProxy(template, token string, ttl time.Duration, m *metrics.Metrics) *Proxy {
	if template == "" {
		template = DefaultURLTemplate
	}

	return &Proxy{
		template: template,
		token:    token,
		ttl:      ttl,
		client:   &http.Client{Timeout: 15 * time.Second},
		cache:    cache.New[Tile](5 * time.Minute),
		metrics:  m,
	}
}

// Close stops the cache sweeper.
func (p *Proxy) Close() {
	p.cache.Close()
}

// Fetch returns the tile z/x/y, from cache when possible.
func (p *Proxy) Fetch(ctx context.Context, z, x, y int) (Tile, error) {
	if err := validate(z, x, y); err != nil {
		return Tile{}, err
	}

	key := fmt.Sprintf("%d/%d/%d", z, x, y)
	if t, ok := p.cache.Get(key); ok {
		p.metrics.TileRequests.WithLabelValues("cache").Inc()
		return t, nil
	}

	t, err := p.fetch(ctx, z, x, y)
	if err != nil {
		p.metrics.TileRequests.WithLabelValues("error").Inc()
		return Tile{}, err
	}
	p.metrics.TileRequests.WithLabelValues("upstream").Inc()

	p.cache.Set(key, t, p.ttl)
	return t, nil
}

func (p *Proxy) fetch(ctx context.Context, z, x, y int) (Tile, error) {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{token}", url.QueryEscape(p.token),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Replace(p.template), nil)
	if err != nil {
		return Tile{}, fmt.Errorf("%w: failed to create request", ErrUpstream)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// url.Error carries the full URL, token included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return Tile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Tile{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTileSize))
	if err != nil {
		return Tile{}, fmt.Errorf("%w: failed to read tile: %v", ErrUpstream, err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(body)
	}

	return Tile{Body: body, ContentType: ct}, nil
}

func validate(z, x, y int) error {
	if z < 0 || z > maxZoom {
		return fmt.Errorf("%w: zoom %d", ErrInvalidTile, z)
	}

	n := 1 << uint(z)
	if x < 0 || x >= n || y < 0 || y >= n {
		return fmt.Errorf("%w: %d/%d/%d", ErrInvalidTile, z, x, y)
	}

	return nil
}
