package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/phishlens/internal/features"
	"github.com/ppiankov/phishlens/internal/model"
)

func testSignals() Signals {
	url := "http://secure-login.example.ru/verify"
	return Signals{
		URL:        url,
		Features:   features.Extract(url),
		Classifier: model.SignalResult{Available: true, Verdict: model.VerdictPhishing, Confidence: 81, Detail: "logistic model"},
		Reputation: model.SignalResult{
			Available:       true,
			Verdict:         model.VerdictMalicious,
			Confidence:      10,
			Detail:          "7 of 70 engines flagged the URL",
			ReputationStats: &model.ReputationStats{Status: "completed", Malicious: 7, Harmless: 50, Undetected: 13},
		},
		Narrative: model.SignalResult{
			Available:  true,
			Verdict:    model.VerdictMalicious,
			Confidence: 92,
			Detail:     "Credential harvesting page",
			NarrativeFindings: &model.NarrativeFindings{
				Provider:         "openai",
				Model:            "gpt-4o-mini",
				Explanation:      "Credential harvesting page",
				DetailedFindings: map[string]any{},
				RedFlags:         []string{"brand impersonation"},
				GreenFlags:       []string{},
				Recommendations:  []string{"do not enter credentials"},
			},
		},
		Aggregate: model.AggregateVerdict{
			FinalVerdict: model.VerdictMalicious,
			RiskLevel:    model.RiskCritical,
			Confidence:   87,
			Score:        -72.3,
			Contributions: []model.Contribution{
				{Source: model.SourceClassifier, Verdict: model.VerdictPhishing, Score: -50, Weight: 1},
			},
		},
	}
}

func TestAssemble(t *testing.T) {
	started := time.Now().Add(-150 * time.Millisecond)
	s := testSignals()

	r := Assemble(s, started)

	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("expected UUID id, got %q", r.ID)
	}
	if r.URL != s.URL || r.Aggregate.FinalVerdict != model.VerdictMalicious {
		t.Errorf("signals not carried through: %+v", r)
	}
	if r.DurationMS < 150 {
		t.Errorf("expected duration >= 150ms, got %d", r.DurationMS)
	}
	if r.AnalyzedAt.Location() != time.UTC {
		t.Error("expected UTC timestamp")
	}

	other := Assemble(s, started)
	if other.ID == r.ID {
		t.Error("expected unique ids per analysis")
	}
}

func TestNewResponse(t *testing.T) {
	r := Assemble(testSignals(), time.Now())
	resp := NewResponse(r)

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatal(err)
	}

	if wire["success"] != true || wire["final_verdict"] != "Malicious" || wire["risk_level"] != "Critical" {
		t.Errorf("unexpected top-level fields: %v", wire)
	}
	if _, err := time.Parse(time.RFC3339, wire["timestamp"].(string)); err != nil {
		t.Errorf("timestamp not RFC 3339: %v", err)
	}

	details := wire["details"].(map[string]any)
	for _, key := range []string{"ml_model", "virustotal", "ai_analysis", "features", "scoring"} {
		if _, ok := details[key]; !ok {
			t.Errorf("details missing %s", key)
		}
	}

	vt := details["virustotal"].(map[string]any)
	if vt["malicious"] != float64(7) {
		t.Errorf("expected flattened reputation counts, got %v", vt)
	}
	ai := details["ai_analysis"].(map[string]any)
	if _, ok := ai["red_flags"]; !ok {
		t.Errorf("expected narrative fields on ai_analysis, got %v", ai)
	}
	ml := details["ml_model"].(map[string]any)
	if _, ok := ml["malicious"]; ok {
		t.Error("classifier signal should not carry reputation counts")
	}
}

func TestNewResponse_EmptyContributions(t *testing.T) {
	s := testSignals()
	s.Aggregate.Contributions = nil

	resp := NewResponse(Assemble(s, time.Now()))
	data, _ := json.Marshal(resp)

	if !strings.Contains(string(data), `"contributions":[]`) {
		t.Errorf("expected empty contributions array, got %s", data)
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r := Assemble(testSignals(), time.Now())

	md := NewRenderer(true).Markdown(r)
	for _, want := range []string{
		"# Phishing analysis: http://secure-login.example.ru/verify",
		"**Verdict:** Malicious",
		"| VirusTotal | yes | Malicious | 10% |",
		"7 malicious",
		"brand impersonation",
		"Generated by phishlens",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	if strings.Contains(NewRenderer(false).Markdown(r), "Generated by phishlens") {
		t.Error("footer should be omitted when disabled")
	}
}

func TestRenderer_Files(t *testing.T) {
	dir := t.TempDir()
	r := Assemble(testSignals(), time.Now())
	renderer := NewRenderer(false)

	jsonPath := filepath.Join(dir, "out", "report.json")
	if err := renderer.RenderJSON(r, jsonPath); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("invalid JSON written: %v", err)
	}
	if resp.ID != r.ID {
		t.Errorf("expected id %s, got %s", r.ID, resp.ID)
	}

	mdPath := filepath.Join(dir, "report.md")
	if err := renderer.RenderMarkdown(r, mdPath); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if info, err := os.Stat(mdPath); err != nil || info.Size() == 0 {
		t.Error("expected non-empty markdown file")
	}
}

func TestRenderer_Summary(t *testing.T) {
	s := testSignals()
	s.Reputation = model.Unavailable("no key")
	s.Aggregate.Dampened = true

	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, Assemble(s, time.Now()))

	out := buf.String()
	for _, want := range []string{"Verdict:    ✗ Malicious", "virustotal=n/a", "classifier=Phishing(81%)", "capped"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
