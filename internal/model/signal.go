package model

import "strings"

// Verdict is the label emitted by a signal or by the aggregator
type Verdict string

const (
	VerdictLegitimate Verdict = "Legitimate" // Classifier label 1
	VerdictPhishing   Verdict = "Phishing"   // Classifier label != 1
	VerdictSafe       Verdict = "Safe"
	VerdictSuspicious Verdict = "Suspicious"
	VerdictMalicious  Verdict = "Malicious"
	VerdictUnknown    Verdict = "Unknown" // Signal unavailable
)

// ParseThreatVerdict normalizes a Safe/Suspicious/Malicious label, ignoring case.
// The second return value is false for anything else.
func ParseThreatVerdict(s string) (Verdict, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safe":
		return VerdictSafe, true
	case "suspicious":
		return VerdictSuspicious, true
	case "malicious":
		return VerdictMalicious, true
	}
	return "", false
}

// RiskLevel is the four-tier severity derived from the aggregate score
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// ParseRiskLevel normalizes a risk label, ignoring case.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, true
	case "medium":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	case "critical":
		return RiskCritical, true
	}
	return "", false
}

// SignalSource names one of the three evidence sources
type SignalSource string

const (
	SourceClassifier SignalSource = "classifier"
	SourceReputation SignalSource = "reputation"
	SourceNarrative  SignalSource = "narrative"
)

// SignalResult is the uniform output of every signal adapter.
// When Available is false the verdict and confidence carry no meaning and
// Detail explains why the signal could not be produced.
type SignalResult struct {
	Available  bool    `json:"available"`
	Verdict    Verdict `json:"verdict"`
	Confidence int     `json:"confidence"` // 0-100
	Detail     string  `json:"detail"`

	*ReputationStats   // Reputation only
	*NarrativeFindings // Narrative only
}

// Unavailable builds a SignalResult for a signal that could not be produced
func Unavailable(detail string) SignalResult {
	return SignalResult{
		Available:  false,
		Verdict:    VerdictUnknown,
		Confidence: 0,
		Detail:     detail,
	}
}

// ReputationStats carries the vendor detection counts of a reputation lookup
type ReputationStats struct {
	AnalysisID string `json:"analysis_id,omitempty"`
	Status     string `json:"status,omitempty"` // queued, in-progress, completed
	Malicious  int    `json:"malicious"`
	Suspicious int    `json:"suspicious"`
	Harmless   int    `json:"harmless"`
	Undetected int    `json:"undetected"`
	Timeout    int    `json:"timeout"`
}

// Engines returns the number of vendors that reported on the URL
func (s ReputationStats) Engines() int {
	return s.Malicious + s.Suspicious + s.Harmless + s.Undetected + s.Timeout
}

// NarrativeFindings carries the structured fields of a narrative assessment.
// Collections are never nil once parsed.
type NarrativeFindings struct {
	Provider         string         `json:"provider,omitempty"`
	Model            string         `json:"model,omitempty"`
	RiskLevel        RiskLevel      `json:"risk_level,omitempty"` // Hint only, never used for scoring
	Explanation      string         `json:"explanation"`
	DetailedFindings map[string]any `json:"detailed_findings"`
	RedFlags         []string       `json:"red_flags"`
	GreenFlags       []string       `json:"green_flags"`
	Recommendations  []string       `json:"recommendations"`
}
