package pricing

import (
	"context"
	"fmt"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/metrics"
	"skyfare/internal/models"

	"github.com/google/uuid"
)

// FlightSource is the slice of flight storage the orchestrator reads from
// and writes prices back to.
type FlightSource interface {
	ListRepriceable(ctx context.Context, after time.Time, limit int) ([]models.Flight, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price float64) error
}

// HistorySink records applied prices
type HistorySink interface {
	Append(ctx context.Context, entry *models.PriceHistoryEntry) error
}

// Orchestrator runs fleet-wide repricing passes. Flights are processed
// independently: one flight's failure is recorded in the report and never
// aborts the run.
type Orchestrator struct {
	engine  *Engine
	flights FlightSource
	history HistorySink
	cfg     config.PricingConfig
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewOrchestrator wires a batch orchestrator over the given stores
func NewOrchestrator(engine *Engine, flights FlightSource, history HistorySink, cfg config.PricingConfig, log logger.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		engine:  engine,
		flights: flights,
		history: history,
		cfg:     cfg,
		log:     log,
		metrics: m,
	}
}

// UpdateAll reprices every active future flight, capped at the configured
// per-run limit. Flights beyond the cap are simply not considered in this
// run. The returned error is non-nil only when the flight selection itself
// fails; per-flight problems are tallied in the result.
func (o *Orchestrator) UpdateAll(ctx context.Context) (models.BatchPricingResult, error) {
	start := time.Now()
	result := models.BatchPricingResult{}

	flights, err := o.flights.ListRepriceable(ctx, start, o.cfg.BatchFlightLimit)
	if err != nil {
		return result, fmt.Errorf("failed to select flights for repricing: %w", err)
	}

	result.TotalFlights = len(flights)

	for i := range flights {
		flight := &flights[i]
		if err := o.repriceOne(ctx, flight); err != nil {
			result.Failed++
			if len(result.Errors) < o.cfg.BatchErrorLimit {
				result.Errors = append(result.Errors, models.BatchError{
					FlightID: flight.ID.String(),
					Message:  err.Error(),
				})
			}
			o.log.Warn("batch repricing failed for flight",
				"flight_id", flight.ID, "flight_number", flight.FlightNumber, "error", err)
			continue
		}
		result.Updated++
	}

	result.DurationMs = time.Since(start).Milliseconds()

	if o.metrics != nil {
		o.metrics.BatchRunsTotal.Inc()
		o.metrics.BatchFlightsTotal.WithLabelValues("updated").Add(float64(result.Updated))
		o.metrics.BatchFlightsTotal.WithLabelValues("failed").Add(float64(result.Failed))
		o.metrics.BatchFlightsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))
	}

	o.log.Info("batch repricing finished",
		"total", result.TotalFlights,
		"updated", result.Updated,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"duration_ms", result.DurationMs)

	return result, nil
}

// repriceOne predicts and persists one flight's price
func (o *Orchestrator) repriceOne(ctx context.Context, flight *models.Flight) error {
	prediction, source := o.engine.PredictPrice(ctx, flight, time.Time{})

	if err := o.flights.UpdatePrice(ctx, flight.ID, prediction.PredictedPrice); err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	entry := &models.PriceHistoryEntry{
		FlightID: flight.ID,
		Price:    prediction.PredictedPrice,
		Source:   source,
		Reason:   prediction.Explanation,
	}
	if err := o.history.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append price history: %w", err)
	}

	return nil
}
