package models

import (
	"time"

	"github.com/google/uuid"
)

// Flight statuses used by the batch selection query
const (
	FlightStatusScheduled = "scheduled"
	FlightStatusActive    = "active"
	FlightStatusCancelled = "cancelled"
	FlightStatusCompleted = "completed"
)

// Flight represents a flight in the system
type Flight struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FlightNumber   string    `json:"flightNumber" db:"flight_number" binding:"required" example:"SF302"`
	Origin         string    `json:"origin" db:"origin" example:"DEL"`
	Destination    string    `json:"destination" db:"destination" example:"BOM"`
	DepartureTime  time.Time `json:"departureTime" db:"departure_time" binding:"required"`
	TotalSeats     int       `json:"totalSeats" db:"total_seats" example:"180"`
	AvailableSeats int       `json:"availableSeats" db:"available_seats" example:"72"`
	BasePrice      float64   `json:"basePrice" db:"base_price" binding:"required" example:"5000"`
	CurrentPrice   float64   `json:"currentPrice" db:"current_price"`
	Currency       string    `json:"currency" db:"currency" example:"INR"`
	Status         string    `json:"status" db:"status" example:"active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Booking represents a seat booking on a flight. The pricing engine only
// reads bookings in aggregate; the booking application owns the records.
type Booking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FlightID  uuid.UUID `json:"flight_id" db:"flight_id"`
	Seats     int       `json:"seats" db:"seats"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Booking statuses that count toward route statistics
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// RouteCount is an aggregated booking count for a single route
type RouteCount struct {
	Route string `json:"route" example:"DEL-BOM"`
	Count int    `json:"count" example:"412"`
}

// PredictRequest carries an inline flight snapshot for ad-hoc predictions.
// Missing optional fields get the documented pricing defaults.
type PredictRequest struct {
	FlightNumber   string     `json:"flightNumber" example:"SF302"`
	Origin         string     `json:"origin" binding:"omitempty,airportcode" example:"DEL"`
	Destination    string     `json:"destination" binding:"omitempty,airportcode" example:"BOM"`
	DepartureTime  time.Time  `json:"departureTime" binding:"required"`
	TotalSeats     int        `json:"totalSeats" binding:"omitempty,gt=0" example:"180"`
	AvailableSeats int        `json:"availableSeats" binding:"omitempty,gte=0" example:"72"`
	BasePrice      float64    `json:"basePrice" binding:"required,gt=0" example:"5000"`
	Currency       string     `json:"currency" example:"INR"`
	SearchDate     *time.Time `json:"searchDate"`
}

// UpdatePriceRequest represents a manual price override for a flight
type UpdatePriceRequest struct {
	Price  float64 `json:"price" binding:"required,gt=0" example:"5400"`
	Reason string  `json:"reason" example:"competitor fare match"`
}
