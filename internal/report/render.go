package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/phishlens/internal/model"
)

const footer = "_Generated by phishlens. Verdicts are heuristic; verify before acting on them._\n"

// Renderer writes reports to files and terminals
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the wire record of a report as indented JSON
func (r *Renderer) RenderJSON(report *model.AnalysisReport, path string) error {
	data, err := json.MarshalIndent(NewResponse(report), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes a human-readable Markdown report
func (r *Renderer) RenderMarkdown(report *model.AnalysisReport, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders a report as Markdown
func (r *Renderer) Markdown(report *model.AnalysisReport) string {
	var b strings.Builder
	agg := report.Aggregate

	fmt.Fprintf(&b, "# Phishing analysis: %s\n\n", report.URL)
	fmt.Fprintf(&b, "- **Verdict:** %s\n", agg.FinalVerdict)
	fmt.Fprintf(&b, "- **Risk level:** %s\n", agg.RiskLevel)
	fmt.Fprintf(&b, "- **Confidence:** %d%%\n", agg.Confidence)
	fmt.Fprintf(&b, "- **Analysed at:** %s (%d ms)\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"), report.DurationMS)
	fmt.Fprintf(&b, "- **Report id:** `%s`\n\n", report.ID)

	b.WriteString("## Signals\n\n")
	b.WriteString("| Signal | Available | Verdict | Confidence | Detail |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, row := range []struct {
		name   string
		result model.SignalResult
	}{
		{"Classifier", report.Classifier},
		{"VirusTotal", report.Reputation},
		{"AI analysis", report.Narrative},
	} {
		fmt.Fprintf(&b, "| %s | %s | %s | %d%% | %s |\n",
			row.name, yesNo(row.result.Available), row.result.Verdict, row.result.Confidence, escapeCell(row.result.Detail))
	}
	b.WriteString("\n")

	b.WriteString("## Scoring\n\n")
	fmt.Fprintf(&b, "Aggregate score: **%.2f**", agg.Score)
	if agg.Dampened {
		fmt.Fprintf(&b, " (capped by the AI assessment)")
	}
	b.WriteString("\n\n")
	for _, c := range agg.Contributions {
		fmt.Fprintf(&b, "- %s: %s → %+.0f × %.1f\n", c.Source, c.Verdict, c.Score, c.Weight)
	}
	if len(agg.Contributions) == 0 {
		b.WriteString("- No signal contributed.\n")
	}
	b.WriteString("\n")

	if stats := report.Reputation.ReputationStats; stats != nil {
		b.WriteString("## VirusTotal\n\n")
		fmt.Fprintf(&b, "%d malicious, %d suspicious, %d harmless, %d undetected, %d timeout",
			stats.Malicious, stats.Suspicious, stats.Harmless, stats.Undetected, stats.Timeout)
		if stats.Status != "" {
			fmt.Fprintf(&b, " (status: %s)", stats.Status)
		}
		b.WriteString("\n\n")
	}

	if f := report.Narrative.NarrativeFindings; f != nil {
		b.WriteString("## AI assessment\n\n")
		if f.Provider != "" {
			fmt.Fprintf(&b, "_%s / %s_\n\n", f.Provider, f.Model)
		}
		if f.Explanation != "" {
			fmt.Fprintf(&b, "%s\n\n", f.Explanation)
		}
		writeList(&b, "Red flags", f.RedFlags)
		writeList(&b, "Green flags", f.GreenFlags)
		writeList(&b, "Recommendations", f.Recommendations)
	}

	b.WriteString("## URL features\n\n")
	feat := report.Features
	fmt.Fprintf(&b, "| Feature | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| URL length | %d |\n", feat.URLLength)
	fmt.Fprintf(&b, "| Domain length | %d |\n", feat.DomainLength)
	fmt.Fprintf(&b, "| Dots in domain | %d |\n", feat.DomainDotCount)
	fmt.Fprintf(&b, "| Subdomains | %d |\n", feat.NumSubdomains)
	fmt.Fprintf(&b, "| TLD | %s |\n", feat.TLD)
	fmt.Fprintf(&b, "| HTTPS | %s |\n", yesNo(feat.HasHTTPS))
	fmt.Fprintf(&b, "| IP host | %s |\n", yesNo(feat.HasIP))
	fmt.Fprintf(&b, "| Suspicious keywords | %s |\n", yesNo(feat.HasSuspiciousKeywords))
	b.WriteString("\n")

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(footer)
	}

	return b.String()
}

// RenderSummary prints a short summary box
func (r *Renderer) RenderSummary(w io.Writer, report *model.AnalysisReport) {
	agg := report.Aggregate
	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║  Phishing Analysis                                     ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════╝")
	fmt.Fprintf(w, "URL:        %s\n", report.URL)
	fmt.Fprintf(w, "Verdict:    %s %s\n", verdictIcon(agg.FinalVerdict), agg.FinalVerdict)
	fmt.Fprintf(w, "Risk:       %s\n", agg.RiskLevel)
	fmt.Fprintf(w, "Confidence: %d%%\n", agg.Confidence)
	fmt.Fprintf(w, "Signals:    classifier=%s virustotal=%s ai=%s\n",
		signalLabel(report.Classifier), signalLabel(report.Reputation), signalLabel(report.Narrative))
	if agg.Dampened {
		fmt.Fprintln(w, "Note:       score capped by AI assessment")
	}
}

func signalLabel(s model.SignalResult) string {
	if !s.Available {
		return "n/a"
	}
	return fmt.Sprintf("%s(%d%%)", s.Verdict, s.Confidence)
}

func verdictIcon(v model.Verdict) string {
	switch v {
	case model.VerdictMalicious:
		return "✗"
	case model.VerdictSuspicious:
		return "⚠"
	default:
		return "✓"
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
