package models

// Price trend classifications returned with every prediction
const (
	TrendRising  = "rising"
	TrendFalling = "falling"
	TrendStable  = "stable"
)

// Time-of-day buckets for the departure hour
const (
	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
	TimeOfDayNight     = "night"
)

// PricingFactors holds every signal the engine derives from a flight and a
// search date. Raw values are kept next to their normalized forms so both
// the rule engine (raw) and the model (normalized) can consume them.
type PricingFactors struct {
	DaysUntilDeparture           int     `json:"daysUntilDeparture"`
	DaysUntilDepartureNormalized float64 `json:"daysUntilDepartureNormalized"`
	SeatAvailability             float64 `json:"seatAvailability"`
	DayOfWeek                    int     `json:"dayOfWeek"`
	DayOfWeekNormalized          float64 `json:"dayOfWeekNormalized"`
	IsWeekend                    bool    `json:"isWeekend"`
	WeekendNormalized            float64 `json:"weekendNormalized"`
	IsHoliday                    bool    `json:"isHoliday"`
	HolidayNormalized            float64 `json:"holidayNormalized"`
	HolidayImpact                float64 `json:"holidayImpact,omitempty"`
	HolidayName                  string  `json:"holidayName,omitempty"`
	TimeOfDay                    string  `json:"timeOfDay"`
	TimeOfDayNormalized          float64 `json:"timeOfDayNormalized"`
	SeasonalityIndex             float64 `json:"seasonalityIndex"`
	RoutePopularity              float64 `json:"routePopularity"`
	DemandScore                  float64 `json:"demandScore"`
}

// FeatureNames lists the model input features in their contractual order.
// The trained weight matrix is position-dependent, so this order must never
// change. It is also the CSV header of exported training datasets.
var FeatureNames = []string{
	"daysUntilDeparture",
	"seatAvailability",
	"dayOfWeek",
	"isWeekend",
	"isHoliday",
	"timeOfDay",
	"seasonalityIndex",
	"routePopularity",
	"demandScore",
}

// FeatureCount is the fixed input width of the pricing model.
const FeatureCount = 9

// ModelFeatures is the strict normalized projection of PricingFactors fed
// to the regression model.
type ModelFeatures struct {
	DaysUntilDeparture float64 `json:"daysUntilDeparture"`
	SeatAvailability   float64 `json:"seatAvailability"`
	DayOfWeek          float64 `json:"dayOfWeek"`
	IsWeekend          float64 `json:"isWeekend"`
	IsHoliday          float64 `json:"isHoliday"`
	TimeOfDay          float64 `json:"timeOfDay"`
	SeasonalityIndex   float64 `json:"seasonalityIndex"`
	RoutePopularity    float64 `json:"routePopularity"`
	DemandScore        float64 `json:"demandScore"`
}

// Vector returns the features in contractual order, ready for a forward
// pass or a CSV row.
func (f ModelFeatures) Vector() []float64 {
	return []float64{
		f.DaysUntilDeparture,
		f.SeatAvailability,
		f.DayOfWeek,
		f.IsWeekend,
		f.IsHoliday,
		f.TimeOfDay,
		f.SeasonalityIndex,
		f.RoutePopularity,
		f.DemandScore,
	}
}

// Features projects the normalized fields of PricingFactors into the model
// input contract.
func (p PricingFactors) Features() ModelFeatures {
	return ModelFeatures{
		DaysUntilDeparture: p.DaysUntilDepartureNormalized,
		SeatAvailability:   p.SeatAvailability,
		DayOfWeek:          p.DayOfWeekNormalized,
		IsWeekend:          p.WeekendNormalized,
		IsHoliday:          p.HolidayNormalized,
		TimeOfDay:          p.TimeOfDayNormalized,
		SeasonalityIndex:   p.SeasonalityIndex,
		RoutePopularity:    p.RoutePopularity,
		DemandScore:        p.DemandScore,
	}
}

// PredictionResult is the full outcome of a single price prediction.
// It is built fresh per request and never persisted as-is; only the price,
// timestamp and reason go to the history store.
type PredictionResult struct {
	BasePrice          float64        `json:"basePrice"`
	PredictedPrice     float64        `json:"predictedPrice"`
	PriceMultiplier    float64        `json:"priceMultiplier"`
	Discount           float64        `json:"discount"`
	DiscountPercentage float64        `json:"discountPercentage"`
	Confidence         float64        `json:"confidence"`
	Trend              string         `json:"trend" example:"stable"`
	Explanation        string         `json:"explanation" example:"Weekend travel, High demand on this route"`
	Factors            PricingFactors `json:"factors"`
}

// BatchError records one failed flight inside a batch run
type BatchError struct {
	FlightID string `json:"flightId"`
	Message  string `json:"message"`
}

// BatchPricingResult summarizes a fleet-wide repricing run. Errors holds at
// most the first few failures; Failed always counts all of them.
type BatchPricingResult struct {
	TotalFlights int          `json:"totalFlights"`
	Updated      int          `json:"updated"`
	Failed       int          `json:"failed"`
	Skipped      int          `json:"skipped"`
	DurationMs   int64        `json:"durationMs"`
	Errors       []BatchError `json:"errors,omitempty"`
}
