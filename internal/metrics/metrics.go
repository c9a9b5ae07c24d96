// Package metrics exposes prometheus instrumentation for the pricing engine
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the service
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec
	PredictionDuration prometheus.Histogram
	BatchRunsTotal     prometheus.Counter
	BatchFlightsTotal  *prometheus.CounterVec
	CacheRebuildsTotal prometheus.Counter
	StatsFallbackTotal prometheus.Counter
}

// New creates and registers the service metrics under the given namespace
func New(namespace string) *Metrics {
	return &Metrics{
		PredictionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Price predictions served, labeled by multiplier source",
		}, []string{"source"}),
		PredictionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time taken to compute a single price prediction",
			Buckets:   prometheus.DefBuckets,
		}),
		BatchRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_runs_total",
			Help:      "Fleet-wide batch repricing runs",
		}),
		BatchFlightsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_flights_total",
			Help:      "Flights processed by batch runs, labeled by outcome",
		}, []string{"outcome"}),
		CacheRebuildsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_stats_rebuilds_total",
			Help:      "Route statistics cache rebuilds",
		}),
		StatsFallbackTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_fallbacks_total",
			Help:      "Route statistics lookups that fell back to the neutral default",
		}),
	}
}
