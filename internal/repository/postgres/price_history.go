package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"skyfare/internal/models"
	"skyfare/internal/repository"
	"time"

	"github.com/google/uuid"
)

type priceHistoryRepository struct {
	repository.BaseRepository
	retention int
}

// NewPriceHistoryRepository creates a new PostgreSQL price history
// repository keeping at most retention entries per flight.
func NewPriceHistoryRepository(db *sql.DB, retention int) repository.PriceHistoryRepository {
	return &priceHistoryRepository{
		BaseRepository: repository.NewBaseRepository(db),
		retention:      retention,
	}
}

func (r *priceHistoryRepository) Append(ctx context.Context, entry *models.PriceHistoryEntry) error {
	query := `
		INSERT INTO price_history (id, flight_id, price, source, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timestamp`

	entry.ID = uuid.New()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	err := r.DB().QueryRowContext(ctx, query,
		entry.ID,
		entry.FlightID,
		entry.Price,
		entry.Source,
		entry.Reason,
		entry.Timestamp,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return err
	}

	return r.evictOldest(ctx, entry.FlightID)
}

// evictOldest drops everything beyond the retention cap, oldest first
func (r *priceHistoryRepository) evictOldest(ctx context.Context, flightID uuid.UUID) error {
	query := `
		DELETE FROM price_history
		WHERE flight_id = $1 AND id NOT IN (
			SELECT id FROM price_history
			WHERE flight_id = $1
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		)`

	if _, err := r.DB().ExecContext(ctx, query, flightID, r.retention); err != nil {
		return fmt.Errorf("failed to trim price history: %w", err)
	}
	return nil
}

func (r *priceHistoryRepository) Query(ctx context.Context, flightID uuid.UUID, days int) ([]models.PriceHistoryEntry, error) {
	query := `
		SELECT id, flight_id, price, source, reason, timestamp
		FROM price_history
		WHERE flight_id = $1 AND timestamp >= $2
		ORDER BY timestamp ASC`

	cutoff := time.Now().AddDate(0, 0, -days)

	rows, err := r.DB().QueryContext(ctx, query, flightID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.PriceHistoryEntry
	for rows.Next() {
		var e models.PriceHistoryEntry
		var reason sql.NullString
		if err := rows.Scan(&e.ID, &e.FlightID, &e.Price, &e.Source, &reason, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Reason = reason.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
