package classifier

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/phishlens/internal/model"
)

//go:embed default_model.yaml
var defaultModelYAML []byte

// LogisticModel is a binary logistic-regression model over the basic
// feature vector. Class 1 is legitimate, class 0 is phishing.
type LogisticModel struct {
	Name         string    `yaml:"name"`
	Version      int       `yaml:"version"`
	Features     []string  `yaml:"features"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
	Threshold    float64   `yaml:"threshold"`
}

// LoadModel reads a model definition from a YAML file
func LoadModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return ParseModel(data)
}

// DefaultModel returns the model embedded in the binary
func DefaultModel() (*LogisticModel, error) {
	return ParseModel(defaultModelYAML)
}

// ParseModel decodes and validates a YAML model definition
func ParseModel(data []byte) (*LogisticModel, error) {
	var m LogisticModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("model %q has no coefficients", m.Name)
	}
	if len(m.Features) != 0 && len(m.Features) != len(m.Coefficients) {
		return nil, fmt.Errorf("model %q: %d feature names for %d coefficients", m.Name, len(m.Features), len(m.Coefficients))
	}
	if len(m.Coefficients) != len(model.BasicFeatureNames) {
		return nil, fmt.Errorf("model %q: %d coefficients, want %d", m.Name, len(m.Coefficients), len(model.BasicFeatureNames))
	}
	for i, name := range m.Features {
		if name != model.BasicFeatureNames[i] {
			return nil, fmt.Errorf("model %q: feature %d is %q, want %q", m.Name, i, name, model.BasicFeatureNames[i])
		}
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		m.Threshold = 0.5
	}

	return &m, nil
}

// Predict returns 1 when the legitimate-class probability reaches the threshold
func (m *LogisticModel) Predict(features []float64) (int, error) {
	p, err := m.legitimateProbability(features)
	if err != nil {
		return 0, err
	}
	if p >= m.Threshold {
		return LabelLegitimate, nil
	}
	return 0, nil
}

// PredictProba returns [p(phishing), p(legitimate)]
func (m *LogisticModel) PredictProba(features []float64) ([]float64, error) {
	p, err := m.legitimateProbability(features)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

func (m *LogisticModel) legitimateProbability(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}

	z := m.Intercept
	for i, x := range features {
		z += m.Coefficients[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}
