package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"skyfare/internal/models"
	"skyfare/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
)

type flightRepository struct {
	repository.BaseRepository
}

// NewFlightRepository creates a new PostgreSQL flight repository
func NewFlightRepository(db *sql.DB) repository.FlightRepository {
	return &flightRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const flightColumns = `id, flight_number, origin, destination, departure_time,
		total_seats, available_seats, base_price, current_price, currency,
		status, created_at, updated_at`

func scanFlight(row interface{ Scan(...interface{}) error }, f *models.Flight) error {
	return row.Scan(
		&f.ID,
		&f.FlightNumber,
		&f.Origin,
		&f.Destination,
		&f.DepartureTime,
		&f.TotalSeats,
		&f.AvailableSeats,
		&f.BasePrice,
		&f.CurrentPrice,
		&f.Currency,
		&f.Status,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

func (r *flightRepository) Create(ctx context.Context, flight *models.Flight) error {
	query := `
		INSERT INTO flights (id, flight_number, origin, destination, departure_time,
			total_seats, available_seats, base_price, current_price, currency,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	flight.ID = uuid.New()
	if flight.CurrentPrice == 0 {
		flight.CurrentPrice = flight.BasePrice
	}
	if flight.Status == "" {
		flight.Status = models.FlightStatusActive
	}

	err := r.DB().QueryRowContext(ctx, query,
		flight.ID,
		flight.FlightNumber,
		flight.Origin,
		flight.Destination,
		flight.DepartureTime,
		flight.TotalSeats,
		flight.AvailableSeats,
		flight.BasePrice,
		flight.CurrentPrice,
		flight.Currency,
		flight.Status,
		now,
	).Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return repository.ErrFlightExists
		}
		return err
	}
	return nil
}

func (r *flightRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Flight, error) {
	query := fmt.Sprintf(`SELECT %s FROM flights WHERE id = $1`, flightColumns)

	flight := &models.Flight{}
	err := scanFlight(r.DB().QueryRowContext(ctx, query, id), flight)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return flight, nil
}

func (r *flightRepository) List(ctx context.Context, filter repository.FlightFilter) ([]models.Flight, error) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argCount := 1

	if filter.Origin != nil {
		conditions = append(conditions, fmt.Sprintf("origin = $%d", argCount))
		args = append(args, *filter.Origin)
		argCount++
	}

	if filter.Destination != nil {
		conditions = append(conditions, fmt.Sprintf("destination = $%d", argCount))
		args = append(args, *filter.Destination)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.DepartureAfter != nil {
		conditions = append(conditions, fmt.Sprintf("departure_time >= $%d", argCount))
		args = append(args, *filter.DepartureAfter)
		argCount++
	}

	if filter.DepartureBefore != nil {
		conditions = append(conditions, fmt.Sprintf("departure_time <= $%d", argCount))
		args = append(args, *filter.DepartureBefore)
		argCount++
	}

	query := fmt.Sprintf(`SELECT %s FROM flights`, flightColumns)

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Add ORDER BY clause
	if filter.OrderBy != "" {
		query += fmt.Sprintf(" ORDER BY %s", filter.OrderBy)
		if filter.OrderDesc {
			query += " DESC"
		} else {
			query += " ASC"
		}
	} else {
		query += " ORDER BY departure_time ASC"
	}

	// Add LIMIT and OFFSET
	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, *filter.Limit)
		argCount++
	}

	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, *filter.Offset)
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		var f models.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *flightRepository) ListRepriceable(ctx context.Context, after time.Time, limit int) ([]models.Flight, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM flights
		WHERE status = $1 AND departure_time > $2
		ORDER BY departure_time ASC
		LIMIT $3`, flightColumns)

	rows, err := r.DB().QueryContext(ctx, query, models.FlightStatusActive, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		var f models.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}

	return flights, rows.Err()
}

func (r *flightRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error {
	query := `
		UPDATE flights
		SET current_price = $1, updated_at = $2
		WHERE id = $3
		RETURNING updated_at`

	var updatedAt time.Time
	err := r.DB().QueryRowContext(ctx, query, price, time.Now(), id).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	return err
}
