package reputation

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/ppiankov/phishlens/internal/model"
)

// Adapter turns a VirusTotal lookup into a reputation signal
type Adapter struct {
	client               *Client
	pendingAsUnavailable bool
	logger               *slog.Logger
}

// NewAdapter wraps a client. A nil logger discards log output.
func NewAdapter(client *Client, pendingAsUnavailable bool, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		client:               client,
		pendingAsUnavailable: pendingAsUnavailable,
		logger:               logger,
	}
}

// Configured reports whether lookups can be attempted at all
func (a *Adapter) Configured() bool {
	return a != nil && a.client.Configured()
}

// Check submits rawURL and reads the analysis once. The analysis is not
// polled: a queued analysis usually reports zero detections and maps to Safe
// unless pendingAsUnavailable is set.
func (a *Adapter) Check(ctx context.Context, rawURL string) model.SignalResult {
	if !a.Configured() {
		return model.Unavailable(ErrNoAPIKey.Error())
	}

	if err := a.client.WaitQuota(ctx); err != nil {
		return model.Unavailable(fmt.Sprintf("reputation lookup skipped: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, a.client.httpClient.Timeout)
	defer cancel()

	id, err := a.client.Submit(ctx, rawURL)
	if err != nil {
		a.logger.Warn("reputation lookup failed", "url", rawURL, "stage", "submit", "error", err)
		return model.Unavailable(fmt.Sprintf("reputation lookup failed: %v", err))
	}

	stats, err := a.client.Analysis(ctx, id)
	if err != nil {
		a.logger.Warn("reputation lookup failed", "url", rawURL, "stage", "analysis", "error", err)
		return model.Unavailable(fmt.Sprintf("reputation lookup failed: %v", err))
	}

	if a.pendingAsUnavailable && stats.Status != "completed" {
		result := model.Unavailable(fmt.Sprintf("reputation analysis %s not completed (status %q)", id, stats.Status))
		result.ReputationStats = stats
		return result
	}

	verdict, agreeing := MapStats(*stats)
	engines := stats.Engines()

	confidence := 0
	if engines > 0 {
		confidence = int(math.Round(float64(agreeing) / float64(engines) * 100))
	}

	a.logger.Debug("reputation lookup complete",
		"url", rawURL, "analysis_id", id, "status", stats.Status,
		"malicious", stats.Malicious, "suspicious", stats.Suspicious)

	return model.SignalResult{
		Available:  true,
		Verdict:    verdict,
		Confidence: confidence,
		Detail: fmt.Sprintf("%d malicious, %d suspicious, %d harmless, %d undetected of %d engines (status %s)",
			stats.Malicious, stats.Suspicious, stats.Harmless, stats.Undetected, engines, stats.Status),
		ReputationStats: stats,
	}
}

// MapStats maps detection counts to a verdict and returns how many engines
// agree with it.
func MapStats(s model.ReputationStats) (model.Verdict, int) {
	switch {
	case s.Malicious > 0:
		return model.VerdictMalicious, s.Malicious
	case s.Suspicious > 0:
		return model.VerdictSuspicious, s.Suspicious
	default:
		return model.VerdictSafe, s.Harmless + s.Undetected
	}
}
