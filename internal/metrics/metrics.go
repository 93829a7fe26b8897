// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "terraguard"

// Metrics groups every collector used by the service.
type Metrics struct {
	registry *prometheus.Registry

	ScoringRequests *prometheus.CounterVec
	ScoringDuration prometheus.Histogram
	ScoringCache    *prometheus.CounterVec
	TileRequests    *prometheus.CounterVec
	Sessions        prometheus.Gauge
	Transitions     *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ScoringRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_requests_total",
			Help:      "Calls to the external scoring service by outcome",
		}, []string{"outcome"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_request_duration_seconds",
			Help:      "Latency of calls to the external scoring service",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		ScoringCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_cache_lookups_total",
			Help:      "Scoring cache lookups by result",
		}, []string{"result"}),
		TileRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_requests_total",
			Help:      "Map tile proxy requests by source",
		}, []string{"source"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live presenter sessions",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_transitions_total",
			Help:      "Presenter view transitions by target view",
		}, []string{"view"}),
	}

	m.registry.MustRegister(
		m.ScoringRequests,
		m.ScoringDuration,
		m.ScoringCache,
		m.TileRequests,
		m.Sessions,
		m.Transitions,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
