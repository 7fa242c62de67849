package pipeline

import "context"

// Status reports which signals can currently be produced
type Status struct {
	ClassifierLoaded     bool   `json:"classifier_loaded"`
	NarrativeAvailable   bool   `json:"narrative_available"`
	ReputationConfigured bool   `json:"reputation_configured"`
	NarrativeProvider    string `json:"narrative_provider,omitempty"`
}

type loader interface{ Loaded() bool }

type configurer interface{ Configured() bool }

type namer interface{ ProviderName() string }

type prober interface {
	Available(ctx context.Context) bool
}

// Status probes the configured signals. The narrative probe makes a network
// round-trip; callers should cache the result.
func (a *Analyzer) Status(ctx context.Context) Status {
	var s Status
	if l, ok := a.classifier.(loader); ok {
		s.ClassifierLoaded = l.Loaded()
	}
	if c, ok := a.reputation.(configurer); ok {
		s.ReputationConfigured = c.Configured()
	}
	if n, ok := a.narrative.(namer); ok {
		s.NarrativeProvider = n.ProviderName()
	}
	if p, ok := a.narrative.(prober); ok {
		s.NarrativeAvailable = p.Available(ctx)
	}
	return s
}
