// Package orchestrator runs the Plan → Evidence → Verify loop. One
// Orchestrator serves many requests; each Run owns a private RunState that
// walks a fixed phase sequence with a single bounded back-edge from
// validation into regeneration. The loop always terminates: either the
// draft passes the guardrails or the attempt bound is reached and the last
// draft is returned annotated as degraded.
package orchestrator

import (
	"context"
	"errors"

	"aramcoach/internal/types"
)

// Phase names the states of the PEV machine. Transitions are strictly
// forward except for the Validated → Refining → Drafted back-edge, which is
// taken only while attempts remain.
type Phase string

const (
	PhaseInit             Phase = "init"
	PhaseFactsLoaded      Phase = "facts_loaded"
	PhaseEvidenceGathered Phase = "evidence_gathered"
	PhaseScored           Phase = "scored"
	PhaseDrafted          Phase = "drafted"
	PhaseValidated        Phase = "validated"
	PhaseRefining         Phase = "refining"
	PhaseFinal            Phase = "final"
)

// Fatal-class errors. Only these cross the Run boundary as errors; every
// other failure is folded into the result.
var (
	// ErrFactsUnavailable wraps any fact-loading failure.
	ErrFactsUnavailable = errors.New("facts unavailable")
	// ErrEvidenceUnavailable wraps an evidence-ranking failure.
	ErrEvidenceUnavailable = errors.New("evidence unavailable")
)

// CodeGenerationFailed marks an attempt whose generator call errored. It is
// recorded in the violations history so the failure is visible to the
// caller without aborting the run.
const CodeGenerationFailed types.ViolationCode = "GENERATION_FAILED"

// Ranker orders corpus snippets by relevance to a query, capped at k.
type Ranker interface {
	Rank(query string, corpus []types.Snippet, k int) ([]types.Snippet, error)
}

// Scorer produces one threat score per opposing roster entry.
type Scorer interface {
	ScoreAll(ctx context.Context, facts *types.FactSet, enemy []types.RosterEntry) []types.ThreatScore
}

// Validator judges a draft against the guardrail rules.
type Validator interface {
	Validate(draft *types.StrategyDraft, facts *types.FactSet, evidence []types.Snippet) (bool, []types.Violation)
}

// RunState is the mutable aggregate threaded through one run. Only the
// Orchestrator mutates it, strictly in phase order, and it is discarded
// once the Result is built.
type RunState struct {
	RunID    string
	Phase    Phase
	Request  types.RequestContext
	Facts    *types.FactSet
	Evidence []types.Snippet
	Threats  []types.ThreatScore
	Draft    *types.StrategyDraft
	History  [][]types.Violation
	Attempts int
	Terminal bool
}

// Result is the terminal outcome of a run. Degraded means the final draft
// still carried violations when attempts ran out; the violations history
// holds every attempt's findings, oldest first.
type Result struct {
	Patch             string               `json:"patch"`
	Final             *types.StrategyDraft `json:"final"`
	Threats           []types.ThreatScore  `json:"threats"`
	Evidence          []types.Snippet      `json:"evidence"`
	ViolationsHistory [][]types.Violation  `json:"violations_history"`
	AttemptsUsed      int                  `json:"attempts_used"`
	Degraded          bool                 `json:"degraded"`
}
