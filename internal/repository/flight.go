package repository

import (
	"context"
	"skyfare/internal/models"
	"time"

	"github.com/google/uuid"
)

// FlightRepository defines the interface for flight-related database operations
type FlightRepository interface {
	Repository
	Create(ctx context.Context, flight *models.Flight) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Flight, error)
	List(ctx context.Context, filter FlightFilter) ([]models.Flight, error)
	// ListRepriceable returns active flights departing after the given
	// time, oldest departure first, capped at limit.
	ListRepriceable(ctx context.Context, after time.Time, limit int) ([]models.Flight, error)
	// UpdatePrice sets the flight's current price. Business fields other
	// than the price are never touched by the pricing engine.
	UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error
}

// FlightFilter defines the filter options for listing flights
type FlightFilter struct {
	Origin          *string
	Destination     *string
	Status          *string
	DepartureAfter  *time.Time
	DepartureBefore *time.Time
	OrderBy         string
	OrderDesc       bool
	Limit           *int
	Offset          *int
}
