package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katiamach/terraguard/internal/presenter"
	"github.com/katiamach/terraguard/internal/tiles"
	"github.com/tj/assert"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	assert.Nil(t, err)

	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10000, c.Server.MaxSessions)
	assert.Equal(t, presenter.LayoutSingle, c.Map.Layout)
	assert.Equal(t, presenter.DefaultFocusZoom, c.Map.FocusZoom)
	assert.Equal(t, 100*time.Millisecond, c.Map.RedrawDelay)
	assert.Equal(t, time.Duration(0), c.Scoring.Timeout)
	assert.Equal(t, tiles.DefaultURLTemplate, c.Tiles.URLTemplate)
	assert.Equal(t, -1, *c.Tiles.ZoomOffset)
	assert.Equal(t, "", c.Tiles.Token)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`
log_level: debug
server:
  port: "9000"
  session_ttl: 5m
  max_sessions: 50
scoring:
  url: http://scoring.internal/api/analyze
  cache_ttl: 1m
tiles:
  token: file-token
  zoom_offset: 0
map:
  layout: tabs
`)
	assert.Nil(t, os.WriteFile(path, data, 0o600))

	t.Setenv("PORT", "9100")
	t.Setenv("TILE_TOKEN", "env-token")
	t.Setenv("SCORING_TIMEOUT", "30s")

	c, err := Load(path)
	assert.Nil(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "9100", c.Server.Port)
	assert.Equal(t, 5*time.Minute, c.Server.SessionTTL)
	assert.Equal(t, 50, c.Server.MaxSessions)
	assert.Equal(t, "http://scoring.internal/api/analyze", c.Scoring.URL)
	assert.Equal(t, time.Minute, c.Scoring.CacheTTL)
	assert.Equal(t, 30*time.Second, c.Scoring.Timeout)
	assert.Equal(t, "env-token", c.Tiles.Token)
	assert.Equal(t, 0, *c.Tiles.ZoomOffset)
	assert.Equal(t, presenter.LayoutTabs, c.Map.Layout)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.NotNil(t, err)

	t.Setenv("LAYOUT", "grid")
	_, err = Load("")
	assert.NotNil(t, err)

	t.Setenv("LAYOUT", "")
	t.Setenv("SCORING_TIMEOUT", "soon")
	_, err = Load("")
	assert.NotNil(t, err)

	t.Setenv("SCORING_TIMEOUT", "")
	t.Setenv("SCORING_URL", "not a url")
	_, err = Load("")
	assert.NotNil(t, err)
}
