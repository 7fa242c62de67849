package verdict

import (
	"math"

	"github.com/ppiankov/phishlens/internal/model"
)

// DampeningCeiling is the highest score allowed once the narrative signal
// reports Suspicious or Malicious.
const DampeningCeiling = -20.0

// DefaultConfidence is reported when neither the classifier nor the narrative
// contributes a confidence.
const DefaultConfidence = 50

// Weight is the score and trust weight a signal verdict contributes
type Weight struct {
	Score  float64
	Weight float64
}

// Weights maps each source and verdict to its contribution. Trust ordering is
// narrative > reputation > classifier. Verdicts missing from a source's row
// contribute nothing.
var Weights = map[model.SignalSource]map[model.Verdict]Weight{
	model.SourceClassifier: {
		model.VerdictPhishing:   {Score: -50, Weight: 1.0},
		model.VerdictLegitimate: {Score: 50, Weight: 1.0},
	},
	model.SourceReputation: {
		model.VerdictMalicious:  {Score: -100, Weight: 2.5},
		model.VerdictSuspicious: {Score: -50, Weight: 2.0},
		model.VerdictSafe:       {Score: 40, Weight: 1.5},
	},
	model.SourceNarrative: {
		model.VerdictMalicious:  {Score: -100, Weight: 3.0},
		model.VerdictSuspicious: {Score: -70, Weight: 2.5},
		model.VerdictSafe:       {Score: 50, Weight: 2.0},
	},
}

// Aggregate combines the three signals into one verdict. It is a pure
// function of its inputs.
func Aggregate(classifier, reputation, narrative model.SignalResult) model.AggregateVerdict {
	contributions := make([]model.Contribution, 0, 3)
	for _, sig := range []struct {
		source model.SignalSource
		result model.SignalResult
	}{
		{model.SourceClassifier, classifier},
		{model.SourceReputation, reputation},
		{model.SourceNarrative, narrative},
	} {
		if c, ok := contribution(sig.source, sig.result); ok {
			contributions = append(contributions, c)
		}
	}

	confidence := overallConfidence(classifier, narrative)

	// No information is not evidence of risk
	if len(contributions) == 0 {
		return model.AggregateVerdict{
			FinalVerdict:  model.VerdictSafe,
			RiskLevel:     model.RiskLow,
			Confidence:    confidence,
			Score:         0,
			Contributions: contributions,
		}
	}

	avg := weightedAverage(contributions)

	dampened := false
	if narrative.Available && (narrative.Verdict == model.VerdictMalicious || narrative.Verdict == model.VerdictSuspicious) {
		if avg > DampeningCeiling {
			avg = DampeningCeiling
			dampened = true
		}
	}

	final, risk := Classify(avg)

	return model.AggregateVerdict{
		FinalVerdict:  final,
		RiskLevel:     risk,
		Confidence:    confidence,
		Score:         avg,
		Dampened:      dampened,
		Contributions: contributions,
	}
}

// Classify maps a score to a verdict and risk level. Lower bounds are inclusive.
func Classify(avg float64) (model.Verdict, model.RiskLevel) {
	switch {
	case avg < -50:
		return model.VerdictMalicious, model.RiskCritical
	case avg < -15:
		return model.VerdictSuspicious, model.RiskHigh
	case avg < 10:
		return model.VerdictSuspicious, model.RiskMedium
	default:
		return model.VerdictSafe, model.RiskLow
	}
}

func contribution(source model.SignalSource, result model.SignalResult) (model.Contribution, bool) {
	if !result.Available {
		return model.Contribution{}, false
	}
	w, ok := Weights[source][result.Verdict]
	if !ok {
		return model.Contribution{}, false
	}
	return model.Contribution{
		Source:  source,
		Verdict: result.Verdict,
		Score:   w.Score,
		Weight:  w.Weight,
	}, true
}

func weightedAverage(contributions []model.Contribution) float64 {
	var sum, weights float64
	for _, c := range contributions {
		sum += c.Score * c.Weight
		weights += c.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// overallConfidence averages the classifier and narrative confidences.
// Reputation never feeds confidence.
func overallConfidence(classifier, narrative model.SignalResult) int {
	var values []int
	if classifier.Confidence > 0 {
		values = append(values, classifier.Confidence)
	}
	if narrative.Available && narrative.Confidence != 0 {
		values = append(values, narrative.Confidence)
	}
	if len(values) == 0 {
		return DefaultConfidence
	}

	total := 0
	for _, v := range values {
		total += v
	}
	return int(math.Round(float64(total) / float64(len(values))))
}
