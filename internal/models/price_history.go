package models

import (
	"time"

	"github.com/google/uuid"
)

// Price history source tags
const (
	PriceSourceAI     = "ai"
	PriceSourceRule   = "rule"
	PriceSourceManual = "manual"
)

// PriceHistoryEntry is one append-only record of a price applied to a
// flight. Entries are immutable once written; the store keeps at most the
// 100 most recent entries per flight.
type PriceHistoryEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FlightID  uuid.UUID `json:"flight_id" db:"flight_id"`
	Price     float64   `json:"price" db:"price" example:"5400"`
	Source    string    `json:"source" db:"source" example:"ai"`
	Reason    string    `json:"reason,omitempty" db:"reason"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
