package types

import "context"

// FactSource loads the static facts for a patch. Implementations must
// return a FactSet the caller can treat as immutable.
type FactSource interface {
	LoadFacts(ctx context.Context, patch string) (*FactSet, error)
}

// GenerateInput is everything a generator may condition on. Feedback holds
// the previous attempt's violations when the orchestrator is re-entering
// generation; it is nil on the first attempt.
type GenerateInput struct {
	Request  RequestContext
	Facts    *FactSet
	Evidence []Snippet
	Threats  []ThreatScore
	Feedback []Violation
}

// DraftGenerator produces a strategy draft from facts, evidence, and threat
// scores. A regeneration call receives the prior violations as feedback but
// is allowed to return an unchanged draft; the orchestrator bounds attempts,
// it does not force progress.
type DraftGenerator interface {
	Generate(ctx context.Context, in GenerateInput) (*StrategyDraft, error)
}

// SignalSource fetches an empirical win rate (percent) for a champion.
// Any error means "signal unavailable" to the caller; it is never fatal.
type SignalSource interface {
	WinRate(ctx context.Context, champion string) (float64, error)
}
