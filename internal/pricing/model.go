package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"skyfare/internal/logger"
	"skyfare/internal/models"
)

// Bounds and confidences of the model path. The model band is wider than
// the rule band because the model may legitimately predict more extreme
// multipliers.
const (
	ModelMinMultiplier = 0.6
	ModelMaxMultiplier = 2.2
	ModelConfidence    = 0.85
	RuleConfidence     = 0.6
)

// ModelFile is the serialized form of the trained regression model
type ModelFile struct {
	Version   string      `json:"version"`
	TrainedAt time.Time   `json:"trainedAt"`
	Layers    []ModelLayer `json:"layers"`
}

// ModelLayer holds one dense layer. Weights[i][j] is the weight from input
// j to output neuron i. Hidden layers use ReLU, the final layer is linear.
type ModelLayer struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// Predictor wraps the trained model and the rule-based fallback behind one
// predict call. The model is loaded lazily and exactly once; concurrent
// callers during a cold start block on the same load. A failed load is
// sticky: the predictor stays in fallback mode until the process restarts.
type Predictor struct {
	path string
	log  logger.Logger

	loadOnce sync.Once
	model    *ModelFile
	ready    bool
}

// NewPredictor creates a predictor that will load the model from path on
// first use. An empty path disables the model entirely.
func NewPredictor(path string, log logger.Logger) *Predictor {
	return &Predictor{path: path, log: log}
}

// Ready reports whether the trained model is loaded. It triggers the lazy
// load if it has not happened yet.
func (p *Predictor) Ready() bool {
	p.loadOnce.Do(p.load)
	return p.ready
}

func (p *Predictor) load() {
	if p.path == "" {
		p.log.Info("no pricing model configured, using rule-based fallback")
		return
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		p.log.Warn("pricing model unavailable, using rule-based fallback",
			"path", p.path, "error", err)
		return
	}

	var m ModelFile
	if err := json.Unmarshal(data, &m); err != nil {
		p.log.Warn("pricing model unreadable, using rule-based fallback",
			"path", p.path, "error", err)
		return
	}

	if err := validateModel(&m); err != nil {
		p.log.Warn("pricing model rejected, using rule-based fallback",
			"path", p.path, "error", err)
		return
	}

	p.model = &m
	p.ready = true
	p.log.Info("pricing model loaded",
		"path", p.path, "version", m.Version, "layers", len(m.Layers))
}

// validateModel checks the layer shapes against the 9-feature input
// contract and a single output neuron.
func validateModel(m *ModelFile) error {
	if len(m.Layers) == 0 {
		return fmt.Errorf("model has no layers")
	}

	inputs := models.FeatureCount
	for i, layer := range m.Layers {
		if len(layer.Weights) == 0 || len(layer.Weights) != len(layer.Biases) {
			return fmt.Errorf("layer %d: %d weight rows but %d biases",
				i, len(layer.Weights), len(layer.Biases))
		}
		for j, row := range layer.Weights {
			if len(row) != inputs {
				return fmt.Errorf("layer %d neuron %d: expected %d inputs, got %d",
					i, j, inputs, len(row))
			}
		}
		inputs = len(layer.Weights)
	}

	if inputs != 1 {
		return fmt.Errorf("output layer must have exactly 1 neuron, got %d", inputs)
	}
	return nil
}

// Predict produces a price multiplier and a confidence for the given
// factors. When the model is ready it runs a forward pass over the
// normalized feature vector; otherwise it silently delegates to the
// rule-based multiplier. A model-load problem never surfaces to the
// caller as a pricing error.
func (p *Predictor) Predict(f models.PricingFactors) (multiplier, confidence float64, source string) {
	p.loadOnce.Do(p.load)

	if !p.ready {
		return RuleMultiplier(f), RuleConfidence, models.PriceSourceRule
	}

	out := p.forward(f.Features().Vector())
	return clamp(out, ModelMinMultiplier, ModelMaxMultiplier), ModelConfidence, models.PriceSourceAI
}

// forward runs the network on the input vector. Dropout is a
// training-time regularizer and does not apply at inference.
func (p *Predictor) forward(in []float64) float64 {
	values := in
	last := len(p.model.Layers) - 1

	for li, layer := range p.model.Layers {
		next := make([]float64, len(layer.Weights))
		for i, row := range layer.Weights {
			sum := layer.Biases[i]
			for j, w := range row {
				sum += w * values[j]
			}
			if li < last && sum < 0 {
				sum = 0 // ReLU on hidden layers
			}
			next[i] = sum
		}
		values = next
	}

	return values[0]
}
