package repository

import (
	"context"
	"skyfare/internal/models"

	"github.com/google/uuid"
)

// PriceHistoryRepository is the append-only log of prices applied to
// flights. Append enforces the per-flight retention cap by evicting the
// oldest entries first.
type PriceHistoryRepository interface {
	Repository
	Append(ctx context.Context, entry *models.PriceHistoryEntry) error
	// Query returns entries for a flight within the trailing window of
	// the given number of days, sorted ascending by timestamp.
	Query(ctx context.Context, flightID uuid.UUID, days int) ([]models.PriceHistoryEntry, error)
}
