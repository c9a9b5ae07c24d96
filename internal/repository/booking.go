package repository

import (
	"context"
	"skyfare/internal/models"
	"time"
)

// BookingStatsRepository exposes the booking aggregates the pricing engine
// consumes. The booking application owns the underlying records; the engine
// only ever reads counts.
type BookingStatsRepository interface {
	Repository
	// CountByRoute returns confirmed and completed booking counts grouped
	// by route over the whole history.
	CountByRoute(ctx context.Context) ([]models.RouteCount, error)
	// CountByRouteSince returns the same aggregation restricted to
	// bookings created at or after the given time.
	CountByRouteSince(ctx context.Context, since time.Time) ([]models.RouteCount, error)
}
