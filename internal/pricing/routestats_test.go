package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/models"

	"github.com/stretchr/testify/assert"
)

// fakeBookings serves canned aggregates and counts storage calls
type fakeBookings struct {
	mu         sync.Mutex
	counts     []models.RouteCount
	recent     []models.RouteCount
	err        error
	totalCalls int
	lastSince  time.Time
}

func (f *fakeBookings) CountByRoute(ctx context.Context) ([]models.RouteCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totalCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func (f *fakeBookings) CountByRouteSince(ctx context.Context, since time.Time) ([]models.RouteCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSince = since
	if f.err != nil {
		return nil, f.err
	}
	return f.recent, nil
}

func newTestCache(b BookingCounter) *RouteStatsCache {
	return NewRouteStatsCache(b, config.DefaultPricingConfig(), logger.NewNop(), nil)
}

func TestRoutePopularity_NormalizedAgainstBusiestRoute(t *testing.T) {
	bookings := &fakeBookings{counts: []models.RouteCount{
		{Route: "DEL-BOM", Count: 200},
		{Route: "DEL-BLR", Count: 50},
		{Route: "CCU-MAA", Count: 0},
	}}
	cache := newTestCache(bookings)
	ctx := context.Background()

	assert.InDelta(t, 1.0, cache.RoutePopularity(ctx, "DEL", "BOM"), 1e-9)
	assert.InDelta(t, 0.25, cache.RoutePopularity(ctx, "DEL", "BLR"), 1e-9)
	assert.InDelta(t, 0.0, cache.RoutePopularity(ctx, "CCU", "MAA"), 1e-9)
}

func TestRoutePopularity_UnknownRouteAfterBuild(t *testing.T) {
	bookings := &fakeBookings{counts: []models.RouteCount{{Route: "DEL-BOM", Count: 10}}}
	cache := newTestCache(bookings)

	assert.InDelta(t, unknownRoutePopularity, cache.RoutePopularity(context.Background(), "GOI", "HYD"), 1e-9)
}

func TestRoutePopularity_EmptyTableStaysNeutral(t *testing.T) {
	bookings := &fakeBookings{}
	cache := newTestCache(bookings)

	assert.InDelta(t, 0.5, cache.RoutePopularity(context.Background(), "DEL", "BOM"), 1e-9)
}

func TestRoutePopularity_ColdCacheFailureIsNeutral(t *testing.T) {
	bookings := &fakeBookings{err: errors.New("connection refused")}
	cache := newTestCache(bookings)

	assert.InDelta(t, 0.5, cache.RoutePopularity(context.Background(), "DEL", "BOM"), 1e-9)
}

func TestRoutePopularity_CachedWithinTTL(t *testing.T) {
	bookings := &fakeBookings{counts: []models.RouteCount{{Route: "DEL-BOM", Count: 10}}}
	cache := newTestCache(bookings)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	ctx := context.Background()
	cache.RoutePopularity(ctx, "DEL", "BOM")
	assert.Equal(t, 1, bookings.totalCalls)

	// 59 minutes later the table is still live
	cache.now = func() time.Time { return base.Add(59 * time.Minute) }
	cache.RoutePopularity(ctx, "DEL", "BOM")
	assert.Equal(t, 1, bookings.totalCalls)

	// at exactly one hour the TTL has lapsed
	cache.now = func() time.Time { return base.Add(time.Hour) }
	cache.RoutePopularity(ctx, "DEL", "BOM")
	assert.Equal(t, 2, bookings.totalCalls)
}

func TestRoutePopularity_ServesStaleTableOnFailedRebuild(t *testing.T) {
	bookings := &fakeBookings{counts: []models.RouteCount{
		{Route: "DEL-BOM", Count: 100},
		{Route: "DEL-BLR", Count: 25},
	}}
	cache := newTestCache(bookings)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	ctx := context.Background()
	assert.InDelta(t, 0.25, cache.RoutePopularity(ctx, "DEL", "BLR"), 1e-9)

	// Expire the table and break the store. Stale scores keep serving.
	bookings.err = errors.New("storage down")
	cache.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.InDelta(t, 0.25, cache.RoutePopularity(ctx, "DEL", "BLR"), 1e-9)
	assert.InDelta(t, 1.0, cache.RoutePopularity(ctx, "DEL", "BOM"), 1e-9)
}

func TestRoutePopularity_ConcurrentCallersShareOneRebuild(t *testing.T) {
	bookings := &fakeBookings{counts: []models.RouteCount{{Route: "DEL-BOM", Count: 10}}}
	cache := newTestCache(bookings)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.RoutePopularity(context.Background(), "DEL", "BOM")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, bookings.totalCalls)
}

func TestDemandScore_RatioAgainstWindowAverage(t *testing.T) {
	// Average over the window is (30+10+20)/3 = 20, so DEL-BOM sits at
	// ratio 1.5 and scales to 0.75.
	bookings := &fakeBookings{recent: []models.RouteCount{
		{Route: "DEL-BOM", Count: 30},
		{Route: "DEL-BLR", Count: 10},
		{Route: "CCU-MAA", Count: 20},
	}}
	cache := newTestCache(bookings)
	ctx := context.Background()

	assert.InDelta(t, 0.75, cache.DemandScore(ctx, "DEL", "BOM"), 1e-9)
	assert.InDelta(t, 0.25, cache.DemandScore(ctx, "DEL", "BLR"), 1e-9)
}

func TestDemandScore_RatioCappedAtTwo(t *testing.T) {
	bookings := &fakeBookings{recent: []models.RouteCount{
		{Route: "DEL-BOM", Count: 500},
		{Route: "DEL-BLR", Count: 1},
		{Route: "CCU-MAA", Count: 1},
		{Route: "GOI-HYD", Count: 1},
	}}
	cache := newTestCache(bookings)

	assert.InDelta(t, 1.0, cache.DemandScore(context.Background(), "DEL", "BOM"), 1e-9)
}

func TestDemandScore_Fallbacks(t *testing.T) {
	ctx := context.Background()

	// storage error
	cache := newTestCache(&fakeBookings{err: errors.New("boom")})
	assert.InDelta(t, 0.5, cache.DemandScore(ctx, "DEL", "BOM"), 1e-9)

	// empty window
	cache = newTestCache(&fakeBookings{})
	assert.InDelta(t, 0.5, cache.DemandScore(ctx, "DEL", "BOM"), 1e-9)

	// route absent from a non-empty window scores zero, not neutral
	cache = newTestCache(&fakeBookings{recent: []models.RouteCount{{Route: "DEL-BLR", Count: 10}}})
	assert.InDelta(t, 0.0, cache.DemandScore(ctx, "DEL", "BOM"), 1e-9)
}

func TestDemandScore_WindowBounds(t *testing.T) {
	bookings := &fakeBookings{recent: []models.RouteCount{{Route: "DEL-BOM", Count: 5}}}
	cache := newTestCache(bookings)

	base := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }

	cache.DemandScore(context.Background(), "DEL", "BOM")
	assert.Equal(t, base.AddDate(0, 0, -7), bookings.lastSince)
}

func TestRouteKey(t *testing.T) {
	assert.Equal(t, "DEL-BOM", RouteKey("DEL", "BOM"))
	assert.NotEqual(t, RouteKey("DEL", "BOM"), RouteKey("BOM", "DEL"))
}
