package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/ppiankov/phishlens/internal/model"
)

// LabelLegitimate is the class label the model uses for legitimate URLs.
// Every other label is read as phishing.
const LabelLegitimate = 1

// Classifier is the minimal capability of a trained model
type Classifier interface {
	// Predict returns the class label for a basic feature vector
	Predict(features []float64) (int, error)
}

// ProbabilityClassifier is implemented by models that expose class
// probabilities. The returned slice is indexed by class label.
type ProbabilityClassifier interface {
	Classifier
	PredictProba(features []float64) ([]float64, error)
}

// Adapter wraps a Classifier behind the uniform signal contract
type Adapter struct {
	model              Classifier
	fallbackConfidence int
	loadErr            error
}

// NewAdapter creates a classifier adapter. A nil model makes every call
// report the signal as unavailable.
func NewAdapter(m Classifier, fallbackConfidence int) *Adapter {
	return &Adapter{
		model:              m,
		fallbackConfidence: clamp(fallbackConfidence),
	}
}

// NewAdapterFromConfig loads the configured model. Load failures do not abort
// startup: the adapter keeps the error and reports the signal as unavailable.
func NewAdapterFromConfig(cfg model.ClassifierConfig) *Adapter {
	if !cfg.Enabled {
		a := NewAdapter(nil, cfg.FallbackConfidence)
		a.loadErr = fmt.Errorf("classifier disabled by configuration")
		return a
	}

	var (
		m   *LogisticModel
		err error
	)
	if cfg.ModelPath != "" {
		m, err = LoadModel(cfg.ModelPath)
	} else {
		m, err = DefaultModel()
	}
	if err != nil {
		a := NewAdapter(nil, cfg.FallbackConfidence)
		a.loadErr = err
		return a
	}
	return NewAdapter(m, cfg.FallbackConfidence)
}

// Loaded reports whether a model is available
func (a *Adapter) Loaded() bool {
	return a != nil && a.model != nil
}

// Classify runs the model on the basic feature set
func (a *Adapter) Classify(ctx context.Context, features model.FeatureRecord) model.SignalResult {
	if !a.Loaded() {
		reason := "classifier model not loaded"
		if a != nil && a.loadErr != nil {
			reason = fmt.Sprintf("classifier model not loaded: %v", a.loadErr)
		}
		return model.Unavailable(reason)
	}

	vector := features.Vector()

	label, err := a.model.Predict(vector)
	if err != nil {
		return model.Unavailable(fmt.Sprintf("classifier prediction failed: %v", err))
	}

	verdict := model.VerdictPhishing
	if label == LabelLegitimate {
		verdict = model.VerdictLegitimate
	}

	confidence := a.fallbackConfidence
	detail := fmt.Sprintf("model predicted label %d", label)

	if pc, ok := a.model.(ProbabilityClassifier); ok {
		proba, err := pc.PredictProba(vector)
		if err == nil && label >= 0 && label < len(proba) {
			confidence = clamp(int(math.Round(proba[label] * 100)))
			detail = fmt.Sprintf("model predicted label %d with probability %.2f", label, proba[label])
		}
	}

	return model.SignalResult{
		Available:  true,
		Verdict:    verdict,
		Confidence: confidence,
		Detail:     detail,
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
