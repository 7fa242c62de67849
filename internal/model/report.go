package model

import "time"

// AnalysisReport is the complete result of analysing one URL.
// A report is built once per request and never mutated afterwards.
type AnalysisReport struct {
	ID         string    `json:"id"`          // UUID of this analysis
	URL        string    `json:"url"`         // URL as submitted
	AnalyzedAt time.Time `json:"analyzed_at"` // When the report was assembled
	DurationMS int64     `json:"duration_ms"` // Wall time spent producing the signals

	Aggregate AggregateVerdict `json:"aggregate"` // Final verdict, risk and confidence

	Classifier SignalResult `json:"classifier"` // Statistical classifier signal
	Reputation SignalResult `json:"reputation"` // Reputation lookup signal
	Narrative  SignalResult `json:"narrative"`  // Generative-AI assessment signal

	Features FeatureRecord `json:"features"` // Lexical features of the URL
}

// AggregateVerdict is the aggregator's output with its scoring breakdown
type AggregateVerdict struct {
	FinalVerdict Verdict   `json:"final_verdict"` // Safe, Suspicious or Malicious
	RiskLevel    RiskLevel `json:"risk_level"`    // Low, Medium, High or Critical
	Confidence   int       `json:"confidence"`    // 0-100

	Score         float64        `json:"score"`         // Weighted average after dampening
	Dampened      bool           `json:"dampened"`      // Narrative floor was applied
	Contributions []Contribution `json:"contributions"` // One entry per signal that contributed
}

// Contribution records how one signal moved the aggregate score
type Contribution struct {
	Source  SignalSource `json:"source"`
	Verdict Verdict      `json:"verdict"`
	Score   float64      `json:"score"`
	Weight  float64      `json:"weight"`
}
