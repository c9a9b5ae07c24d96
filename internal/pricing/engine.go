package pricing

import (
	"context"
	"math"
	"strings"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/metrics"
	"skyfare/internal/models"
)

// Trend classification thresholds. These are not related to the multiplier
// clamping bounds.
const (
	trendRisingAbove  = 1.1
	trendFallingBelow = 0.95
)

// Engine assembles full price predictions from the extractor and the
// predictor. A prediction request always returns a result; degraded inputs
// lower the confidence, never fail the caller.
type Engine struct {
	cfg       config.PricingConfig
	log       logger.Logger
	metrics   *metrics.Metrics
	extractor *Extractor
	predictor *Predictor
}

// NewEngine wires the pricing engine. stats and m may be nil.
func NewEngine(cfg config.PricingConfig, stats RouteStats, log logger.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		extractor: NewExtractor(cfg, stats, log),
		predictor: NewPredictor(cfg.ModelPath, log),
	}
}

// ModelReady reports whether the trained model is serving predictions
func (e *Engine) ModelReady() bool {
	return e.predictor.Ready()
}

// PredictPrice computes the full prediction for a flight as seen at
// searchDate. A zero searchDate means now. The returned Source tag is
// either "ai" or "rule" depending on which path produced the multiplier.
func (e *Engine) PredictPrice(ctx context.Context, flight *models.Flight, searchDate time.Time) (models.PredictionResult, string) {
	start := time.Now()

	factors := e.extractor.ComputeFactors(ctx, flight, searchDate)
	multiplier, confidence, source := e.predictor.Predict(factors)

	base := flight.BasePrice
	predicted := math.Round(base * multiplier)
	discount := base - predicted

	result := models.PredictionResult{
		BasePrice:       base,
		PredictedPrice:  predicted,
		PriceMultiplier: multiplier,
		Discount:        discount,
		Confidence:      confidence,
		Trend:           classifyTrend(multiplier),
		Explanation:     Explain(factors),
		Factors:         factors,
	}
	if base > 0 {
		result.DiscountPercentage = discount / base * 100
	}

	if e.metrics != nil {
		e.metrics.PredictionsTotal.WithLabelValues(source).Inc()
		e.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}

	return result, source
}

// classifyTrend maps a multiplier to rising, falling or stable
func classifyTrend(multiplier float64) string {
	switch {
	case multiplier > trendRisingAbove:
		return models.TrendRising
	case multiplier < trendFallingBelow:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

// Explain renders the factors into a human-readable reason list. Fragments
// are evaluated in a fixed order, each gated by its own threshold, and
// joined with commas.
func Explain(f models.PricingFactors) string {
	var reasons []string

	if f.DaysUntilDeparture < 7 {
		reasons = append(reasons, "Last-minute booking premium")
	}
	if f.DaysUntilDeparture > 60 {
		reasons = append(reasons, "Early-bird discount window")
	}
	if f.IsHoliday {
		reasons = append(reasons, "Holiday period pricing")
	}
	if f.IsWeekend {
		reasons = append(reasons, "Weekend travel")
	}
	if f.SeatAvailability < 0.2 {
		reasons = append(reasons, "Limited seats remaining")
	}
	if f.SeasonalityIndex > 0.7 {
		reasons = append(reasons, "Peak season travel")
	}
	if f.DemandScore > 0.7 {
		reasons = append(reasons, "High demand on this route")
	}

	if len(reasons) == 0 {
		return "Standard pricing applies"
	}
	return strings.Join(reasons, ", ")
}
