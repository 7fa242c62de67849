package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/phishlens/internal/llm"
	"github.com/ppiankov/phishlens/internal/model"
)

// DefaultTimeout bounds one narrative round-trip
const DefaultTimeout = 10 * time.Second

// Adapter turns an LLM answer into a narrative signal
type Adapter struct {
	provider  llm.Provider
	timeout   time.Duration
	maxTokens int
	logger    *slog.Logger
}

// NewAdapter wraps provider. A nil provider makes every assessment unavailable.
func NewAdapter(provider llm.Provider, timeout time.Duration, maxTokens int, logger *slog.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		provider:  provider,
		timeout:   timeout,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// ProviderName returns the configured provider, or "" when disabled
func (a *Adapter) ProviderName() string {
	if a == nil || a.provider == nil {
		return ""
	}
	return a.provider.Name()
}

// Available performs a trivial round-trip through the provider
func (a *Adapter) Available(ctx context.Context) bool {
	if a == nil || a.provider == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.provider.IsAvailable(ctx)
}

// Assess asks the provider for a structured judgment of in.URL
func (a *Adapter) Assess(ctx context.Context, in Input) model.SignalResult {
	if a == nil || a.provider == nil {
		return model.Unavailable("narrative provider not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		System:    SystemPrompt,
		Prompt:    BuildPrompt(in),
		MaxTokens: a.maxTokens,
		JSON:      true,
	})
	if err != nil {
		a.logger.Warn("narrative assessment failed", "url", in.URL, "provider", a.provider.Name(), "error", err)
		return model.Unavailable(fmt.Sprintf("narrative assessment failed: %v", err))
	}

	assessment, err := ParseAssessment(resp.Text)
	if err != nil {
		a.logger.Warn("narrative response rejected", "url", in.URL, "provider", a.provider.Name(), "error", err)
		return model.Unavailable(fmt.Sprintf("narrative response could not be parsed: %v", err))
	}

	findings := assessment.Findings
	findings.Provider = a.provider.Name()
	findings.Model = resp.Model

	detail := findings.Explanation
	if detail == "" {
		detail = fmt.Sprintf("%s assessment by %s", assessment.Verdict, findings.Provider)
	}

	a.logger.Debug("narrative assessment complete",
		"url", in.URL, "verdict", assessment.Verdict, "confidence", assessment.Confidence, "tokens", resp.TokensUsed)

	return model.SignalResult{
		Available:         true,
		Verdict:           assessment.Verdict,
		Confidence:        assessment.Confidence,
		Detail:            detail,
		NarrativeFindings: &findings,
	}
}
