package postgres

import (
	"context"
	"database/sql"
	"skyfare/internal/models"
	"skyfare/internal/repository"
	"time"
)

type bookingStatsRepository struct {
	repository.BaseRepository
}

// NewBookingStatsRepository creates a new PostgreSQL booking stats repository
func NewBookingStatsRepository(db *sql.DB) repository.BookingStatsRepository {
	return &bookingStatsRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *bookingStatsRepository) CountByRoute(ctx context.Context) ([]models.RouteCount, error) {
	query := `
		SELECT f.origin || '-' || f.destination AS route, COUNT(*) AS cnt
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE b.status IN ($1, $2)
		GROUP BY route
		ORDER BY cnt DESC`

	return r.queryRouteCounts(ctx, query,
		models.BookingStatusConfirmed, models.BookingStatusCompleted)
}

func (r *bookingStatsRepository) CountByRouteSince(ctx context.Context, since time.Time) ([]models.RouteCount, error) {
	query := `
		SELECT f.origin || '-' || f.destination AS route, COUNT(*) AS cnt
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE b.status IN ($1, $2) AND b.created_at >= $3
		GROUP BY route
		ORDER BY cnt DESC`

	return r.queryRouteCounts(ctx, query,
		models.BookingStatusConfirmed, models.BookingStatusCompleted, since)
}

func (r *bookingStatsRepository) queryRouteCounts(ctx context.Context, query string, args ...interface{}) ([]models.RouteCount, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.RouteCount
	for rows.Next() {
		var rc models.RouteCount
		if err := rows.Scan(&rc.Route, &rc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, rc)
	}

	return counts, rows.Err()
}
