// Package report assembles analysis reports and renders them for people
// and API clients.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/phishlens/internal/model"
)

// Signals bundles the inputs of one analysis
type Signals struct {
	URL        string
	Features   model.FeatureRecord
	Classifier model.SignalResult
	Reputation model.SignalResult
	Narrative  model.SignalResult
	Aggregate  model.AggregateVerdict
}

// Assemble packages the signals and aggregate into a report stamped with a
// fresh id, the current time and the elapsed time since started.
func Assemble(s Signals, started time.Time) *model.AnalysisReport {
	now := time.Now().UTC()
	return &model.AnalysisReport{
		ID:         uuid.NewString(),
		URL:        s.URL,
		AnalyzedAt: now,
		DurationMS: now.Sub(started).Milliseconds(),
		Aggregate:  s.Aggregate,
		Classifier: s.Classifier,
		Reputation: s.Reputation,
		Narrative:  s.Narrative,
		Features:   s.Features,
	}
}
