package narrative

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ppiankov/phishlens/internal/model"
)

var (
	// ErrNoJSON is returned when the text holds no well-formed JSON object
	ErrNoJSON = errors.New("no JSON object found in response")

	// ErrInvalidAssessment is returned when the JSON object breaks the answer contract
	ErrInvalidAssessment = errors.New("invalid assessment")
)

// Assessment is a successfully parsed narrative answer
type Assessment struct {
	Verdict    model.Verdict
	Confidence int
	Findings   model.NarrativeFindings
}

type assessmentWire struct {
	Verdict          *string        `json:"verdict"`
	ConfidenceScore  *float64       `json:"confidence_score"`
	RiskLevel        string         `json:"risk_level"`
	Explanation      string         `json:"explanation"`
	DetailedFindings map[string]any `json:"detailed_findings"`
	RedFlags         []string       `json:"red_flags"`
	GreenFlags       []string       `json:"green_flags"`
	Recommendations  []string       `json:"recommendations"`
}

// Bounds on the brace scan; each candidate starts a fresh decode.
const (
	maxScanBytes      = 64 << 10
	maxJSONCandidates = 64
)

// ExtractJSON strips Markdown code fences and returns the first well-formed
// JSON object in text.
func ExtractJSON(text string) (string, error) {
	text = stripFences(text)
	if len(text) > maxScanBytes {
		text = text[:maxScanBytes]
	}

	candidates := 0
	for i := 0; i < len(text) && candidates < maxJSONCandidates; i++ {
		if text[i] != '{' {
			continue
		}
		candidates++
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == nil {
			return string(raw), nil
		}
	}

	return "", ErrNoJSON
}

// stripFences removes ``` markers and their language tag, keeping whatever
// shares the line with them.
func stripFences(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "```"); ok {
			trimmed = strings.TrimLeftFunc(rest, isTagRune)
		}
		trimmed = strings.TrimSuffix(trimmed, "```")
		lines[i] = trimmed
	}
	return strings.Join(lines, "\n")
}

func isTagRune(r rune) bool {
	return r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ParseAssessment extracts and validates a narrative answer. Nothing is
// guessed: a missing or out-of-range verdict or confidence fails the parse.
func ParseAssessment(text string) (*Assessment, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var wire assessmentWire
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssessment, err)
	}

	if wire.Verdict == nil {
		return nil, fmt.Errorf("%w: missing verdict", ErrInvalidAssessment)
	}
	verdict, ok := model.ParseThreatVerdict(*wire.Verdict)
	if !ok {
		return nil, fmt.Errorf("%w: unknown verdict %q", ErrInvalidAssessment, *wire.Verdict)
	}

	if wire.ConfidenceScore == nil {
		return nil, fmt.Errorf("%w: missing confidence_score", ErrInvalidAssessment)
	}
	score := *wire.ConfidenceScore
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: confidence_score %v out of range", ErrInvalidAssessment, score)
	}

	// Unrecognised risk hints are dropped rather than guessed
	risk, _ := model.ParseRiskLevel(wire.RiskLevel)

	findings := model.NarrativeFindings{
		RiskLevel:        risk,
		Explanation:      strings.TrimSpace(wire.Explanation),
		DetailedFindings: wire.DetailedFindings,
		RedFlags:         nonNil(wire.RedFlags),
		GreenFlags:       nonNil(wire.GreenFlags),
		Recommendations:  nonNil(wire.Recommendations),
	}
	if findings.DetailedFindings == nil {
		findings.DetailedFindings = map[string]any{}
	}

	return &Assessment{
		Verdict:    verdict,
		Confidence: int(math.Round(score)),
		Findings:   findings,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
