package pricing

import (
	"context"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/models"
)

// horizonDays is the booking horizon over which days-until-departure is
// normalized. Flights further out than this normalize to 0.
const horizonDays = 90

// Extractor converts a flight and a search date into the engine's pricing
// factors. It never fails: missing flight fields get the configured
// defaults and unavailable statistics degrade to the neutral score.
type Extractor struct {
	cfg   config.PricingConfig
	stats RouteStats
	log   logger.Logger
}

// NewExtractor creates an extractor backed by the given route statistics.
// stats may be nil, in which case popularity and demand stay neutral;
// the offline training generator runs the extractor this way.
func NewExtractor(cfg config.PricingConfig, stats RouteStats, log logger.Logger) *Extractor {
	return &Extractor{cfg: cfg, stats: stats, log: log}
}

// ComputeFactors derives all pricing factors for a flight as seen at
// searchDate. A zero searchDate means now.
func (e *Extractor) ComputeFactors(ctx context.Context, flight *models.Flight, searchDate time.Time) models.PricingFactors {
	if searchDate.IsZero() {
		searchDate = time.Now()
	}

	origin, destination := flight.Origin, flight.Destination
	if origin == "" {
		origin = e.cfg.DefaultOrigin
	}
	if destination == "" {
		destination = e.cfg.DefaultDestination
	}

	totalSeats := flight.TotalSeats
	if totalSeats <= 0 {
		totalSeats = e.cfg.DefaultTotalSeats
	}
	availableSeats := flight.AvailableSeats
	if availableSeats < 0 {
		availableSeats = 0
	}
	if availableSeats > totalSeats {
		availableSeats = totalSeats
	}

	factors := models.PricingFactors{
		SeatAvailability: float64(availableSeats) / float64(totalSeats),
		RoutePopularity:  e.cfg.NeutralScore,
		DemandScore:      e.cfg.NeutralScore,
	}

	// Days until departure: 0 days normalizes to 1 (most expensive
	// signal), 90+ days to 0.
	raw := int(flight.DepartureTime.Sub(searchDate).Hours() / 24)
	if raw < 0 {
		raw = 0
	}
	factors.DaysUntilDeparture = raw
	factors.DaysUntilDepartureNormalized = clamp(1-float64(raw)/horizonDays, 0, 1)

	// Calendar signals run off the departure date
	departure := flight.DepartureTime
	factors.DayOfWeek = mondayIndex(departure.Weekday())
	factors.DayOfWeekNormalized = float64(factors.DayOfWeek) / 6

	// Weekend means Friday through Sunday under the Monday=0 convention
	if factors.DayOfWeek >= 4 {
		factors.IsWeekend = true
		factors.WeekendNormalized = 1
	}

	if match, ok := MatchHoliday(departure); ok {
		factors.IsHoliday = true
		factors.HolidayNormalized = 1
		factors.HolidayImpact = match.Impact
		factors.HolidayName = match.Holiday.Name
	}

	factors.TimeOfDay, factors.TimeOfDayNormalized = TimeOfDay(departure.Hour())
	factors.SeasonalityIndex = SeasonalityIndex(departure)

	if e.stats != nil {
		factors.RoutePopularity = e.stats.RoutePopularity(ctx, origin, destination)
		factors.DemandScore = e.stats.DemandScore(ctx, origin, destination)
	}

	return factors
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
