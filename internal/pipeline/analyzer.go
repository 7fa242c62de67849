// Package pipeline runs the signal adapters for a URL and aggregates their
// results into a report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/phishlens/internal/classifier"
	"github.com/ppiankov/phishlens/internal/features"
	"github.com/ppiankov/phishlens/internal/llm"
	"github.com/ppiankov/phishlens/internal/metrics"
	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/narrative"
	"github.com/ppiankov/phishlens/internal/report"
	"github.com/ppiankov/phishlens/internal/reputation"
	"github.com/ppiankov/phishlens/internal/verdict"
	"github.com/ppiankov/phishlens/internal/worker"
)

// ErrURLRequired is returned when the submitted URL is missing or blank
var ErrURLRequired = errors.New("URL is required")

// ClassifierSignal produces the statistical classifier signal
type ClassifierSignal interface {
	Classify(ctx context.Context, features model.FeatureRecord) model.SignalResult
}

// ReputationSignal produces the reputation lookup signal
type ReputationSignal interface {
	Check(ctx context.Context, rawURL string) model.SignalResult
}

// NarrativeSignal produces the generative-AI assessment signal
type NarrativeSignal interface {
	Assess(ctx context.Context, in narrative.Input) model.SignalResult
}

// Components are the collaborators of an Analyzer. Nil signals are reported
// as unavailable.
type Components struct {
	Classifier      ClassifierSignal
	Reputation      ReputationSignal
	Narrative       NarrativeSignal
	ParallelSignals bool
	Recorder        *metrics.Recorder
	Logger          *slog.Logger
}

// Analyzer orchestrates one URL analysis. It holds no per-request state and
// is safe for concurrent use.
type Analyzer struct {
	classifier ClassifierSignal
	reputation ReputationSignal
	narrative  NarrativeSignal
	parallel   bool
	recorder   *metrics.Recorder
	logger     *slog.Logger
}

// NewAnalyzer creates an analyzer from its components
func NewAnalyzer(c Components) *Analyzer {
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		classifier: c.Classifier,
		reputation: c.Reputation,
		narrative:  c.Narrative,
		parallel:   c.ParallelSignals,
		recorder:   c.Recorder,
		logger:     logger,
	}
}

// NewAnalyzerFromConfig wires the concrete adapters described by cfg.
// A missing LLM credential disables the narrative signal; an unknown
// provider is a configuration error.
func NewAnalyzerFromConfig(cfg *model.Config, recorder *metrics.Recorder, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cls := classifier.NewAdapterFromConfig(cfg.Classifier)
	if !cls.Loaded() {
		logger.Warn("classifier unavailable", "enabled", cfg.Classifier.Enabled, "model_path", cfg.Classifier.ModelPath)
	}

	limiter := worker.NewPerMinuteLimiter(cfg.Reputation.RequestsPerMinute)
	vt := reputation.NewClient(cfg.Reputation, cfg.HTTP, limiter)
	rep := reputation.NewAdapter(vt, cfg.Reputation.PendingAsUnavailable, logger)
	if !rep.Configured() {
		logger.Warn("reputation lookups disabled", "reason", reputation.ErrNoAPIKey.Error())
	}

	llmCfg := llm.ApplyEnv(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		if !errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		logger.Warn("narrative signal disabled", "provider", llmCfg.Provider, "error", err)
		provider = nil
	}
	nar := narrative.NewAdapter(provider, time.Duration(cfg.LLM.Timeout)*time.Second, cfg.LLM.MaxTokens, logger)

	return NewAnalyzer(Components{
		Classifier:      cls,
		Reputation:      rep,
		Narrative:       nar,
		ParallelSignals: cfg.Concurrency.ParallelSignals,
		Recorder:        recorder,
		Logger:          logger,
	}), nil
}

// Analyze extracts features, runs the three signals and aggregates them.
// Only a blank URL or an already-cancelled context fail; unavailable signals
// never do.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*model.AnalysisReport, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return nil, ErrURLRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", url, err)
	}

	started := time.Now()
	feats := features.Extract(url)

	cls := a.classify(ctx, feats)

	var rep, nar model.SignalResult
	if a.parallel {
		rep, nar = a.remoteParallel(ctx, url, feats, cls)
	} else {
		rep = a.checkReputation(ctx, url)
		nar = a.assess(ctx, narrative.Input{URL: url, Features: feats, Classifier: cls, Reputation: rep})
	}

	agg := verdict.Aggregate(cls, rep, nar)

	r := report.Assemble(report.Signals{
		URL:        url,
		Features:   feats,
		Classifier: cls,
		Reputation: rep,
		Narrative:  nar,
		Aggregate:  agg,
	}, started)

	a.recorder.ObserveReport(r, time.Since(started))
	a.logger.Info("analysis complete",
		"id", r.ID,
		"url", url,
		"verdict", agg.FinalVerdict,
		"risk_level", agg.RiskLevel,
		"confidence", agg.Confidence,
		"dampened", agg.Dampened,
		"classifier", cls.Available,
		"reputation", rep.Available,
		"narrative", nar.Available,
		"duration_ms", r.DurationMS,
	)

	return r, nil
}

// remoteParallel fans reputation and narrative out concurrently. The
// narrative prompt then only sees the classifier result.
func (a *Analyzer) remoteParallel(ctx context.Context, url string, feats model.FeatureRecord, cls model.SignalResult) (rep, nar model.SignalResult) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rep = a.checkReputation(gctx, url)
		return nil
	})

	g.Go(func() error {
		nar = a.assess(gctx, narrative.Input{
			URL:        url,
			Features:   feats,
			Classifier: cls,
			Reputation: model.Unavailable("reputation lookup running concurrently"),
		})
		return nil
	})

	_ = g.Wait() // adapters absorb their own failures
	return rep, nar
}

func (a *Analyzer) classify(ctx context.Context, feats model.FeatureRecord) model.SignalResult {
	if a.classifier == nil {
		return model.Unavailable("classifier not configured")
	}
	return a.classifier.Classify(ctx, feats)
}

func (a *Analyzer) checkReputation(ctx context.Context, url string) model.SignalResult {
	if a.reputation == nil {
		return model.Unavailable("reputation lookup not configured")
	}
	return a.reputation.Check(ctx, url)
}

func (a *Analyzer) assess(ctx context.Context, in narrative.Input) model.SignalResult {
	if a.narrative == nil {
		return model.Unavailable("narrative assessment not configured")
	}
	return a.narrative.Assess(ctx, in)
}
