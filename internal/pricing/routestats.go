package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/metrics"
	"skyfare/internal/models"
)

// RouteStats supplies the extractor with route popularity and demand
// signals. Implementations must fail open: a lookup never returns an
// error, only a neutral default.
type RouteStats interface {
	RoutePopularity(ctx context.Context, origin, destination string) float64
	DemandScore(ctx context.Context, origin, destination string) float64
}

// BookingCounter is the slice of the booking storage the cache needs
type BookingCounter interface {
	CountByRoute(ctx context.Context) ([]models.RouteCount, error)
	CountByRouteSince(ctx context.Context, since time.Time) ([]models.RouteCount, error)
}

// popularity returned for a route missing from a successfully built table
const unknownRoutePopularity = 0.3

// popularityTable is an immutable snapshot of normalized route scores.
// It is replaced wholesale on rebuild, never mutated in place.
type popularityTable struct {
	scores    map[string]float64
	builtAt   time.Time
	expiresAt time.Time
}

// RouteStatsCache caches the fleet-wide route popularity table with a
// wall-clock TTL. A miss on any route triggers a full table rebuild, and
// the rebuild is serialized behind the mutex so concurrent callers share
// one rebuild instead of stampeding the database.
type RouteStatsCache struct {
	bookings BookingCounter
	cfg      config.PricingConfig
	log      logger.Logger
	metrics  *metrics.Metrics

	mu    sync.Mutex
	table *popularityTable

	// now is swappable for tests
	now func() time.Time
}

// NewRouteStatsCache creates a cache over the given booking aggregates
func NewRouteStatsCache(bookings BookingCounter, cfg config.PricingConfig, log logger.Logger, m *metrics.Metrics) *RouteStatsCache {
	return &RouteStatsCache{
		bookings: bookings,
		cfg:      cfg,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

// RouteKey builds the cache key for an ordered origin-destination pair
func RouteKey(origin, destination string) string {
	return fmt.Sprintf("%s-%s", origin, destination)
}

// RoutePopularity returns the route's booking volume normalized against
// the single most-booked route, in [0, 1]. Storage failures degrade to the
// neutral default; a stale table is served if a rebuild fails.
func (c *RouteStatsCache) RoutePopularity(ctx context.Context, origin, destination string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table == nil || !c.now().Before(c.table.expiresAt) {
		if err := c.rebuildLocked(ctx); err != nil {
			c.log.Warn("route popularity rebuild failed", "error", err)
			if c.metrics != nil {
				c.metrics.StatsFallbackTotal.Inc()
			}
			if c.table == nil {
				return c.cfg.NeutralScore
			}
			// fall through and serve the stale table
		}
	}

	if len(c.table.scores) == 0 {
		// no booking data at all yet
		return c.cfg.NeutralScore
	}
	if score, ok := c.table.scores[RouteKey(origin, destination)]; ok {
		return score
	}
	return unknownRoutePopularity
}

// rebuildLocked recomputes the whole popularity table. Caller holds c.mu.
func (c *RouteStatsCache) rebuildLocked(ctx context.Context) error {
	counts, err := c.bookings.CountByRoute(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate bookings by route: %w", err)
	}

	maxCount := 0
	for _, rc := range counts {
		if rc.Count > maxCount {
			maxCount = rc.Count
		}
	}

	scores := make(map[string]float64, len(counts))
	for _, rc := range counts {
		if maxCount > 0 {
			scores[rc.Route] = float64(rc.Count) / float64(maxCount)
		} else {
			scores[rc.Route] = 0
		}
	}

	now := c.now()
	c.table = &popularityTable{
		scores:    scores,
		builtAt:   now,
		expiresAt: now.Add(c.cfg.RouteStatsTTL),
	}

	if c.metrics != nil {
		c.metrics.CacheRebuildsTotal.Inc()
	}
	c.log.Debug("route popularity table rebuilt", "routes", len(scores), "ttl", c.cfg.RouteStatsTTL)
	return nil
}

// DemandScore compares the route's booking count over the trailing demand
// window against the average per-route count over the same window. The
// ratio is capped at 2x and scaled to [0, 1]. Storage failures and empty
// windows degrade to the neutral default.
func (c *RouteStatsCache) DemandScore(ctx context.Context, origin, destination string) float64 {
	since := c.now().AddDate(0, 0, -c.cfg.DemandWindowDays)
	counts, err := c.bookings.CountByRouteSince(ctx, since)
	if err != nil {
		c.log.Warn("demand aggregation failed", "route", RouteKey(origin, destination), "error", err)
		if c.metrics != nil {
			c.metrics.StatsFallbackTotal.Inc()
		}
		return c.cfg.NeutralScore
	}

	if len(counts) == 0 {
		return c.cfg.NeutralScore
	}

	total := 0
	routeCount := 0
	key := RouteKey(origin, destination)
	for _, rc := range counts {
		total += rc.Count
		if rc.Route == key {
			routeCount = rc.Count
		}
	}

	avg := float64(total) / float64(len(counts))
	if avg == 0 {
		return c.cfg.NeutralScore
	}

	ratio := float64(routeCount) / avg
	if ratio > 2 {
		ratio = 2
	}
	return ratio / 2
}
