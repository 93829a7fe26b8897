// Package config loads service settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/katiamach/terraguard/internal/presenter"
	"github.com/katiamach/terraguard/internal/tiles"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port        string        `yaml:"port"`
	Origin      string        `yaml:"origin"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	MaxSessions int           `yaml:"max_sessions"`
}

type Scoring struct {
	URL           string        `yaml:"url"`
	Timeout       time.Duration `yaml:"timeout"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	CacheRadiusKm float64       `yaml:"cache_radius_km"`
}

type Tiles struct {
	URLTemplate string        `yaml:"url_template"`
	Token       string        `yaml:"token"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	Attribution string        `yaml:"attribution"`
	TileSize    int           `yaml:"tile_size"`
	ZoomOffset  *int          `yaml:"zoom_offset"`
}

type Map struct {
	Layout      presenter.Layout `yaml:"layout"`
	FocusZoom   int              `yaml:"focus_zoom"`
	RedrawDelay time.Duration    `yaml:"redraw_delay"`
}

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Server   Server  `yaml:"server"`
	Scoring  Scoring `yaml:"scoring"`
	Tiles    Tiles   `yaml:"tiles"`
	Map      Map     `yaml:"map"`
}

// Load reads path when it is not empty, applies environment overrides and
// fills defaults.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) applyEnv() error {
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Origin, "ORIGIN")
	setString(&c.Scoring.URL, "SCORING_URL")
	setString(&c.Tiles.URLTemplate, "TILE_URL_TEMPLATE")
	setString(&c.Tiles.Token, "TILE_TOKEN")
	setString(&c.Tiles.Attribution, "TILE_ATTRIBUTION")

	if v := os.Getenv("LAYOUT"); v != "" {
		c.Map.Layout = presenter.Layout(v)
	}

	durations := []struct {
		dst *time.Duration
		env string
	}{
		{&c.Server.SessionTTL, "SESSION_TTL"},
		{&c.Scoring.Timeout, "SCORING_TIMEOUT"},
		{&c.Scoring.CacheTTL, "SCORING_CACHE_TTL"},
		{&c.Tiles.CacheTTL, "TILE_CACHE_TTL"},
		{&c.Map.RedrawDelay, "MAP_REDRAW_DELAY"},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dst = parsed
	}

	if v := os.Getenv("MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_SESSIONS: %w", err)
		}
		c.Server.MaxSessions = n
	}

	if v := os.Getenv("MAP_FOCUS_ZOOM"); v != "" {
		zoom, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MAP_FOCUS_ZOOM: %w", err)
		}
		c.Map.FocusZoom = zoom
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = 30 * time.Minute
	}
	if c.Server.MaxSessions <= 0 {
		c.Server.MaxSessions = 10000
	}
	if c.Scoring.URL == "" {
		c.Scoring.URL = "http://localhost:5000/api/analyze"
	}
	if c.Scoring.CacheRadiusKm == 0 {
		c.Scoring.CacheRadiusKm = 0.03
	}
	if c.Tiles.URLTemplate == "" {
		c.Tiles.URLTemplate = tiles.DefaultURLTemplate
	}
	if c.Tiles.CacheTTL == 0 {
		c.Tiles.CacheTTL = 24 * time.Hour
	}
	if c.Tiles.Attribution == "" {
		c.Tiles.Attribution = "Mapbox Satellite"
	}
	if c.Tiles.TileSize == 0 {
		c.Tiles.TileSize = 512
	}
	if c.Tiles.ZoomOffset == nil {
		offset := -1
		c.Tiles.ZoomOffset = &offset
	}
	if c.Map.Layout == "" {
		c.Map.Layout = presenter.LayoutSingle
	}
	if c.Map.FocusZoom == 0 {
		c.Map.FocusZoom = presenter.DefaultFocusZoom
	}
	if c.Map.RedrawDelay == 0 {
		c.Map.RedrawDelay = presenter.DefaultRedrawDelay
	}
}

func (c *Config) validate() error {
	layout, err := presenter.ParseLayout(string(c.Map.Layout))
	if err != nil {
		return err
	}
	c.Map.Layout = layout

	u, err := url.Parse(c.Scoring.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid scoring url %q", c.Scoring.URL)
	}

	if c.Scoring.Timeout < 0 || c.Scoring.CacheTTL < 0 {
		return errors.New("scoring durations must not be negative")
	}

	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
