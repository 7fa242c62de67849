package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/phishlens/internal/model"
)

func testReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		URL: "http://example.com",
		Aggregate: model.AggregateVerdict{
			FinalVerdict: model.VerdictSuspicious,
			RiskLevel:    model.RiskHigh,
			Confidence:   75,
		},
		Classifier: model.SignalResult{Available: true, Verdict: model.VerdictLegitimate, Confidence: 90},
		Reputation: model.Unavailable("no key"),
		Narrative:  model.SignalResult{Available: true, Verdict: model.VerdictSuspicious, Confidence: 60},
	}
}

func TestRecorder_ObserveReport(t *testing.T) {
	r := NewRecorder()

	r.ObserveReport(testReport(), 250*time.Millisecond)
	r.ObserveReport(testReport(), time.Second)

	if got := testutil.ToFloat64(r.analyses.WithLabelValues("Suspicious", "High")); got != 2 {
		t.Errorf("expected 2 analyses, got %v", got)
	}
	if got := testutil.ToFloat64(r.signals.WithLabelValues("reputation", "false")); got != 2 {
		t.Errorf("expected 2 unavailable reputation results, got %v", got)
	}
	if got := testutil.ToFloat64(r.signals.WithLabelValues("narrative", "true")); got != 2 {
		t.Errorf("expected 2 available narrative results, got %v", got)
	}
	if n := testutil.CollectAndCount(r.duration); n != 1 {
		t.Errorf("expected 1 histogram series, got %d", n)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.ObserveReport(testReport(), time.Second) // must not panic

	if r.Registry() != nil {
		t.Error("expected nil registry")
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from nil recorder, got %d", rec.Code)
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveReport(testReport(), time.Second)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"phishlens_analyses_total",
		"phishlens_signal_results_total",
		"phishlens_analysis_duration_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %s in exposition", want)
		}
	}
}
