package pricing

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/models"
)

// TrainingSample is one synthetic feature/label pair for model training
type TrainingSample struct {
	Features        models.ModelFeatures `json:"features"`
	PriceMultiplier float64              `json:"priceMultiplier"`
	Metadata        SampleMetadata       `json:"metadata"`
}

// SampleMetadata carries the synthetic flight the sample was derived from
type SampleMetadata struct {
	Route         string    `json:"route"`
	DepartureTime time.Time `json:"departureTime"`
	SearchDate    time.Time `json:"searchDate"`
	BasePrice     float64   `json:"basePrice"`
}

// labelNoise is the relative jitter applied to the rule-based label so the
// model does not collapse onto the exact rule surface.
const labelNoise = 0.05

var trainingRoutes = []struct {
	origin, destination string
}{
	{"DEL", "BOM"}, {"BOM", "DEL"},
	{"DEL", "BLR"}, {"BLR", "DEL"},
	{"BOM", "BLR"}, {"BLR", "BOM"},
	{"DEL", "MAA"}, {"MAA", "DEL"},
	{"BOM", "CCU"}, {"CCU", "BOM"},
	{"DEL", "HYD"}, {"HYD", "GOI"},
}

// randomStats feeds the extractor seeded synthetic popularity and demand
// instead of live booking aggregates.
type randomStats struct {
	rng *rand.Rand
}

func (s *randomStats) RoutePopularity(ctx context.Context, origin, destination string) float64 {
	return s.rng.Float64()
}

func (s *randomStats) DemandScore(ctx context.Context, origin, destination string) float64 {
	return s.rng.Float64()
}

// Generator produces synthetic training datasets for the pricing model.
// Labels come from the rule-based multiplier with injected noise, so a
// freshly trained model starts close to the contractual fallback.
type Generator struct {
	cfg       config.PricingConfig
	rng       *rand.Rand
	extractor *Extractor
}

// NewGenerator creates a deterministic generator for the given seed
func NewGenerator(cfg config.PricingConfig, seed int64, log logger.Logger) *Generator {
	rng := rand.New(rand.NewSource(seed))
	return &Generator{
		cfg:       cfg,
		rng:       rng,
		extractor: NewExtractor(cfg, &randomStats{rng: rng}, log),
	}
}

// Generate produces n samples
func (g *Generator) Generate(n int) []TrainingSample {
	now := time.Now().Truncate(time.Hour)
	samples := make([]TrainingSample, 0, n)

	for i := 0; i < n; i++ {
		route := trainingRoutes[g.rng.Intn(len(trainingRoutes))]
		totalSeats := 150 + g.rng.Intn(101)

		// Departures spread over 120 days so the >90-day tail is covered
		departure := now.
			AddDate(0, 0, g.rng.Intn(121)).
			Add(time.Duration(g.rng.Intn(24)) * time.Hour)

		flight := models.Flight{
			Origin:         route.origin,
			Destination:    route.destination,
			DepartureTime:  departure,
			TotalSeats:     totalSeats,
			AvailableSeats: g.rng.Intn(totalSeats + 1),
			BasePrice:      2000 + g.rng.Float64()*10000,
		}

		factors := g.extractor.ComputeFactors(context.Background(), &flight, now)

		label := RuleMultiplier(factors) * (1 + (g.rng.Float64()*2-1)*labelNoise)

		samples = append(samples, TrainingSample{
			Features:        factors.Features(),
			PriceMultiplier: label,
			Metadata: SampleMetadata{
				Route:         RouteKey(route.origin, route.destination),
				DepartureTime: departure,
				SearchDate:    now,
				BasePrice:     flight.BasePrice,
			},
		})
	}

	return samples
}

// WriteJSON writes samples as one record-oriented JSON document
func WriteJSON(w io.Writer, samples []TrainingSample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(samples); err != nil {
		return fmt.Errorf("failed to encode training samples: %w", err)
	}
	return nil
}

// WriteCSV writes samples in tabular form. The header row is the nine
// feature names in contractual order followed by priceMultiplier.
func WriteCSV(w io.Writer, samples []TrainingSample) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, models.FeatureNames...), "priceMultiplier")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range samples {
		row := make([]string, 0, len(header))
		for _, v := range s.Features.Vector() {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, strconv.FormatFloat(s.PriceMultiplier, 'f', -1, 64))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
