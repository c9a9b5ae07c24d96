package pricing

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"skyfare/internal/config"
	"skyfare/internal/logger"
	"skyfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(config.DefaultPricingConfig(), seed, logger.NewNop())
}

func TestGenerate_SampleShape(t *testing.T) {
	samples := newTestGenerator(42).Generate(200)
	require.Len(t, samples, 200)

	for _, s := range samples {
		v := s.Features.Vector()
		require.Len(t, v, models.FeatureCount)
		for i, f := range v {
			assert.GreaterOrEqual(t, f, 0.0, "feature %s", models.FeatureNames[i])
			assert.LessOrEqual(t, f, 1.0, "feature %s", models.FeatureNames[i])
		}

		// Labels stay inside the rule band plus the 5% jitter
		assert.GreaterOrEqual(t, s.PriceMultiplier, RuleMinMultiplier*(1-labelNoise))
		assert.LessOrEqual(t, s.PriceMultiplier, RuleMaxMultiplier*(1+labelNoise))

		assert.Contains(t, s.Metadata.Route, "-")
		assert.False(t, s.Metadata.DepartureTime.Before(s.Metadata.SearchDate))
		assert.Greater(t, s.Metadata.BasePrice, 0.0)
	}
}

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	a := newTestGenerator(7).Generate(50)
	b := newTestGenerator(7).Generate(50)
	assert.Equal(t, a, b)

	c := newTestGenerator(8).Generate(50)
	assert.NotEqual(t, a, c)
}

func TestGenerate_CoversTheBookingHorizon(t *testing.T) {
	samples := newTestGenerator(3).Generate(500)

	var nearTerm, beyondHorizon bool
	for _, s := range samples {
		if s.Features.DaysUntilDeparture > 0.9 {
			nearTerm = true
		}
		if s.Features.DaysUntilDeparture == 0 {
			beyondHorizon = true
		}
	}
	assert.True(t, nearTerm, "expected samples departing within a few days")
	assert.True(t, beyondHorizon, "expected samples past the 90-day horizon")
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	samples := newTestGenerator(1).Generate(10)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samples))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 11)

	wantHeader := append(append([]string{}, models.FeatureNames...), "priceMultiplier")
	assert.Equal(t, wantHeader, records[0])

	for _, row := range records[1:] {
		assert.Len(t, row, models.FeatureCount+1)
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	samples := newTestGenerator(1).Generate(5)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, samples))

	// Indented output, one top-level array
	assert.True(t, strings.HasPrefix(buf.String(), "["))

	var decoded []TrainingSample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, len(samples))
	for i := range samples {
		assert.Equal(t, samples[i].Features, decoded[i].Features)
		assert.Equal(t, samples[i].PriceMultiplier, decoded[i].PriceMultiplier)
		assert.True(t, samples[i].Metadata.DepartureTime.Equal(decoded[i].Metadata.DepartureTime))
	}
}
