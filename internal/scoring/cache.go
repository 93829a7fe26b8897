package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/katiamach/terraguard/internal/metrics"
	"github.com/katiamach/terraguard/internal/model"
	"github.com/umahmood/haversine"
)

//go:generate mockgen -source=cache.go -destination=mock/mock.go Scorer

// Scorer produces a risk report for a location.
type Scorer interface {
	Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error)
}

// DefaultRadiusKm matches the 30 m sampling scale of the scoring rasters;
// points closer than that get the same answer.
const DefaultRadiusKm = 0.03

const maxCachedReports = 512

type cachedReport struct {
	coord     haversine.Coord
	year      int
	report    *model.RiskReport
	expiresAt time.Time
}

// CachedScorer reuses reports for queries with the same year within a small
// radius of an earlier successful query. Failures are never cached.
type CachedScorer struct {
	next     Scorer
	ttl      time.Duration
	radiusKm float64
	metrics  *metrics.Metrics

	mu      sync.Mutex
	entries []cachedReport
	now     func() time.Time
}

// NewCachedScorer wraps next with a proximity cache.
func NewCachedScorer(next Scorer, ttl time.Duration, radiusKm float64, m *metrics.Metrics) *CachedScorer {
	return &CachedScorer{
		next:     next,
		ttl:      ttl,
		radiusKm: radiusKm,
		metrics:  m,
		now:      time.Now,
	}
}

// Analyze returns a cached report when one matches, otherwise calls through.
func (c *CachedScorer) Analyze(ctx context.Context, q model.LocationQuery) (*model.RiskReport, error) {
	if report, ok := c.lookup(q); ok {
		c.metrics.ScoringCache.WithLabelValues("hit").Inc()
		return report, nil
	}
	c.metrics.ScoringCache.WithLabelValues("miss").Inc()

	report, err := c.next.Analyze(ctx, q)
	if err != nil {
		return nil, err
	}

	c.store(q, report)
	return report, nil
}

func (c *CachedScorer) lookup(q model.LocationQuery) (*model.RiskReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	target := haversine.Coord{Lat: q.Latitude, Lon: q.Longitude}

	var (
		best     *model.RiskReport
		bestDist float64
	)
	for _, e := range c.entries {
		if e.year != q.Year || now.After(e.expiresAt) {
			continue
		}

		_, km := haversine.Distance(target, e.coord)
		if km > c.radiusKm {
			continue
		}
		if best == nil || km < bestDist {
			best, bestDist = e.report, km
		}
	}

	return best, best != nil
}

func (c *CachedScorer) store(q model.LocationQuery, report *model.RiskReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	// drop expired entries and keep the slice bounded, oldest first out
	fresh := c.entries[:0]
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) >= maxCachedReports {
		fresh = fresh[len(fresh)-maxCachedReports+1:]
	}

	c.entries = append(fresh, cachedReport{
		coord:     haversine.Coord{Lat: q.Latitude, Lon: q.Longitude},
		year:      q.Year,
		report:    report,
		expiresAt: now.Add(c.ttl),
	})
}
