// Package metrics exposes Prometheus metrics for URL analyses.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppiankov/phishlens/internal/model"
)

const namespace = "phishlens"

// Recorder records analysis outcomes. A nil *Recorder is a no-op.
type Recorder struct {
	registry *prometheus.Registry

	analyses *prometheus.CounterVec
	signals  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewRecorder creates a recorder with its own registry. Go runtime and
// process collectors are registered alongside the analysis metrics.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: registry,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed URL analyses by final verdict and risk level.",
		}, []string{"verdict", "risk_level"}),
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signal_results_total",
			Help:      "Signal adapter outcomes by signal and availability.",
		}, []string{"signal", "available"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time spent analysing one URL.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
	}

	registry.MustRegister(r.analyses, r.signals, r.duration)
	return r
}

// ObserveReport records one completed analysis
func (r *Recorder) ObserveReport(report *model.AnalysisReport, elapsed time.Duration) {
	if r == nil || report == nil {
		return
	}

	r.analyses.WithLabelValues(string(report.Aggregate.FinalVerdict), string(report.Aggregate.RiskLevel)).Inc()
	r.observeSignal(model.SourceClassifier, report.Classifier)
	r.observeSignal(model.SourceReputation, report.Reputation)
	r.observeSignal(model.SourceNarrative, report.Narrative)
	r.duration.Observe(elapsed.Seconds())
}

func (r *Recorder) observeSignal(source model.SignalSource, result model.SignalResult) {
	r.signals.WithLabelValues(string(source), strconv.FormatBool(result.Available)).Inc()
}

// Handler returns the HTTP handler for the Prometheus endpoint
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}
