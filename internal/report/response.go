package report

import (
	"time"

	"github.com/ppiankov/phishlens/internal/model"
)

// Response is the wire record returned by the prediction endpoint
type Response struct {
	Success      bool            `json:"success"`
	ID           string          `json:"id"`
	URL          string          `json:"url"`
	FinalVerdict model.Verdict   `json:"final_verdict"`
	RiskLevel    model.RiskLevel `json:"risk_level"`
	Confidence   int             `json:"confidence"`
	Timestamp    string          `json:"timestamp"` // RFC 3339
	Details      Details         `json:"details"`
}

// Details carries the raw signals behind the verdict
type Details struct {
	MLModel    model.SignalResult  `json:"ml_model"`
	VirusTotal model.SignalResult  `json:"virustotal"`
	AIAnalysis model.SignalResult  `json:"ai_analysis"`
	Features   model.FeatureRecord `json:"features"`
	Scoring    Scoring             `json:"scoring"`
}

// Scoring explains how the aggregate score was reached
type Scoring struct {
	Score         float64              `json:"score"`
	Dampened      bool                 `json:"dampened"`
	Contributions []model.Contribution `json:"contributions"`
	DurationMS    int64                `json:"duration_ms"`
}

// NewResponse shapes a report into the wire record
func NewResponse(r *model.AnalysisReport) Response {
	contributions := r.Aggregate.Contributions
	if contributions == nil {
		contributions = []model.Contribution{}
	}

	return Response{
		Success:      true,
		ID:           r.ID,
		URL:          r.URL,
		FinalVerdict: r.Aggregate.FinalVerdict,
		RiskLevel:    r.Aggregate.RiskLevel,
		Confidence:   r.Aggregate.Confidence,
		Timestamp:    r.AnalyzedAt.UTC().Format(time.RFC3339),
		Details: Details{
			MLModel:    r.Classifier,
			VirusTotal: r.Reputation,
			AIAnalysis: r.Narrative,
			Features:   r.Features,
			Scoring: Scoring{
				Score:         r.Aggregate.Score,
				Dampened:      r.Aggregate.Dampened,
				Contributions: contributions,
				DurationMS:    r.DurationMS,
			},
		},
	}
}
