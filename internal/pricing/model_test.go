package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"skyfare/internal/logger"
	"skyfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testModel is a hand-checkable 9-2-1 network. The first hidden neuron
// passes through the first feature, the second always lands below zero and
// gets zeroed by ReLU. The output is therefore 2*x0 + 0.5.
func testModel() ModelFile {
	hidden := ModelLayer{
		Weights: [][]float64{
			{1, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, -1, 0, 0, 0, 0, 0, 0, 0},
		},
		Biases: []float64{0.1, -0.5},
	}
	output := ModelLayer{
		Weights: [][]float64{{2, 1}},
		Biases:  []float64{0.3},
	}
	return ModelFile{
		Version:   "test-1",
		TrainedAt: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
		Layers:    []ModelLayer{hidden, output},
	}
}

func writeModel(t *testing.T, m ModelFile) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pricing_model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func factorsWithDays(norm float64) models.PricingFactors {
	return models.PricingFactors{
		DaysUntilDepartureNormalized: norm,
		SeatAvailability:             0.5,
		SeasonalityIndex:             0.6,
		RoutePopularity:              0.5,
		DemandScore:                  0.5,
	}
}

func TestPredict_ForwardPass(t *testing.T) {
	p := NewPredictor(writeModel(t, testModel()), logger.NewNop())
	require.True(t, p.Ready())

	m, conf, source := p.Predict(factorsWithDays(0.4))
	assert.InDelta(t, 2*0.4+0.5, m, 1e-9)
	assert.InDelta(t, ModelConfidence, conf, 1e-9)
	assert.Equal(t, models.PriceSourceAI, source)
}

func TestPredict_ClampsToModelBand(t *testing.T) {
	p := NewPredictor(writeModel(t, testModel()), logger.NewNop())

	// x0=1 gives a raw 2.5, above the ceiling
	m, _, _ := p.Predict(factorsWithDays(1))
	assert.InDelta(t, ModelMaxMultiplier, m, 1e-9)

	// x0=0 gives a raw 0.5, below the floor
	m, _, _ = p.Predict(factorsWithDays(0))
	assert.InDelta(t, ModelMinMultiplier, m, 1e-9)
}

func TestPredict_NoPathFallsBackToRules(t *testing.T) {
	p := NewPredictor("", logger.NewNop())
	assert.False(t, p.Ready())

	f := factorsWithDays(0.5)
	f.DaysUntilDeparture = 45
	m, conf, source := p.Predict(f)
	assert.InDelta(t, RuleMultiplier(f), m, 1e-9)
	assert.InDelta(t, RuleConfidence, conf, 1e-9)
	assert.Equal(t, models.PriceSourceRule, source)
}

func TestPredict_MissingFileFallsBack(t *testing.T) {
	p := NewPredictor(filepath.Join(t.TempDir(), "nope.json"), logger.NewNop())
	assert.False(t, p.Ready())

	_, _, source := p.Predict(factorsWithDays(0.5))
	assert.Equal(t, models.PriceSourceRule, source)
}

func TestPredict_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	p := NewPredictor(path, logger.NewNop())
	assert.False(t, p.Ready())
}

func TestPredict_BadShapeRejected(t *testing.T) {
	m := testModel()
	// Drop an input weight so the first layer no longer matches the
	// 9-feature contract.
	m.Layers[0].Weights[0] = m.Layers[0].Weights[0][:8]

	p := NewPredictor(writeModel(t, m), logger.NewNop())
	assert.False(t, p.Ready())
}

func TestPredict_WrongOutputWidthRejected(t *testing.T) {
	m := testModel()
	m.Layers[1].Weights = [][]float64{{2, 1}, {1, 1}}
	m.Layers[1].Biases = []float64{0.3, 0}

	p := NewPredictor(writeModel(t, m), logger.NewNop())
	assert.False(t, p.Ready())
}

func TestPredict_FailedLoadIsSticky(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_model.json")
	p := NewPredictor(path, logger.NewNop())
	require.False(t, p.Ready())

	// The model appearing after the first load attempt changes nothing
	data, err := json.Marshal(testModel())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	assert.False(t, p.Ready())
	_, _, source := p.Predict(factorsWithDays(0.5))
	assert.Equal(t, models.PriceSourceRule, source)
}

func TestPredict_ConcurrentColdStart(t *testing.T) {
	p := NewPredictor(writeModel(t, testModel()), logger.NewNop())

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, _, source := p.Predict(factorsWithDays(0.4))
			results[i] = m
			assert.Equal(t, models.PriceSourceAI, source)
		}(i)
	}
	wg.Wait()

	for _, m := range results {
		assert.InDelta(t, 2*0.4+0.5, m, 1e-9)
	}
}

func TestValidateModel_Empty(t *testing.T) {
	assert.Error(t, validateModel(&ModelFile{}))
}
