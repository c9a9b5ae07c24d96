package pricing

import "skyfare/internal/models"

// Bounds of the rule-based multiplier. These are the contractual fallback
// bounds and intentionally narrower than the model's band.
const (
	RuleMinMultiplier = 0.7
	RuleMaxMultiplier = 2.0
)

// RuleMultiplier is the deterministic fallback pricing function. It is
// pure, does no I/O, and must stay bit-for-bit reproducible: callers rely
// on it whenever the trained model is unavailable.
//
// Adjustments accumulate on a base of 1.0. The day buckets and the seat
// scarcity buckets are each mutually exclusive; only the first matching
// bucket fires.
func RuleMultiplier(f models.PricingFactors) float64 {
	m := 1.0

	switch {
	case f.DaysUntilDeparture < 7:
		m += 0.5
	case f.DaysUntilDeparture < 14:
		m += 0.3
	case f.DaysUntilDeparture < 21:
		m += 0.15
	case f.DaysUntilDeparture > 60:
		m -= 0.1
	}

	if f.IsWeekend {
		m += 0.2
	}

	if f.IsHoliday {
		m += 0.4
	}

	switch {
	case f.SeatAvailability < 0.2:
		m += 0.15
	case f.SeatAvailability < 0.4:
		m += 0.08
	}

	m += f.SeasonalityIndex * 0.25

	if f.DemandScore > 0.7 {
		m += 0.1
	}

	return clamp(m, RuleMinMultiplier, RuleMaxMultiplier)
}
