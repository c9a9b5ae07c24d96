// Package testutil provides utilities for testing
package testutil

import (
	"time"

	"skyfare/internal/models"

	"github.com/google/uuid"
)

// FlightOption mutates a fixture flight
type FlightOption func(*models.Flight)

// NewFlight builds a plausible active flight departing 30 days out.
// Options override individual fields.
func NewFlight(opts ...FlightOption) models.Flight {
	f := models.Flight{
		ID:             uuid.New(),
		FlightNumber:   "SF302",
		Origin:         "DEL",
		Destination:    "BOM",
		DepartureTime:  time.Now().AddDate(0, 0, 30),
		TotalSeats:     180,
		AvailableSeats: 120,
		BasePrice:      5000,
		CurrentPrice:   5000,
		Currency:       "INR",
		Status:         models.FlightStatusActive,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// WithDeparture sets the departure time
func WithDeparture(t time.Time) FlightOption {
	return func(f *models.Flight) { f.DepartureTime = t }
}

// WithSeats sets total and available seat counts
func WithSeats(total, available int) FlightOption {
	return func(f *models.Flight) {
		f.TotalSeats = total
		f.AvailableSeats = available
	}
}

// WithRoute sets the origin and destination codes
func WithRoute(origin, destination string) FlightOption {
	return func(f *models.Flight) {
		f.Origin = origin
		f.Destination = destination
	}
}

// WithBasePrice sets the base price
func WithBasePrice(price float64) FlightOption {
	return func(f *models.Flight) { f.BasePrice = price }
}

// WithStatus sets the flight status
func WithStatus(status string) FlightOption {
	return func(f *models.Flight) { f.Status = status }
}
