package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aramcoach/internal/retrieval"
	"aramcoach/internal/types"
)

// Config bounds a run.
type Config struct {
	// MaxAttempts is the number of regeneration attempts after the initial
	// draft, so a run performs at most MaxAttempts+1 generator calls.
	// Negative values are treated as zero (no retries).
	MaxAttempts int
	// EvidenceK caps the ranked evidence sequence. Zero means 5.
	EvidenceK int
}

// Deps are the collaborators a run drives. Facts, Generator, and Validator
// are required; Ranker defaults to the BM25 ranker and Scorer may be nil
// when threat scoring is not wanted.
type Deps struct {
	Facts     types.FactSource
	Ranker    Ranker
	Scorer    Scorer
	Generator types.DraftGenerator
	Validator Validator
}

// Orchestrator owns the PEV loop. Safe for concurrent use: all per-run
// state lives in the RunState created inside Run.
type Orchestrator struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger
}

// New builds an Orchestrator.
func New(deps Deps, cfg Config, logger *zap.Logger) *Orchestrator {
	if deps.Ranker == nil {
		deps.Ranker = bm25Ranker{}
	}
	if cfg.EvidenceK <= 0 {
		cfg.EvidenceK = 5
	}
	if cfg.MaxAttempts < 0 {
		cfg.MaxAttempts = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{deps: deps, cfg: cfg, logger: logger}
}

// Run executes one PEV run for req. It returns an error only for
// fatal-class failures (facts or evidence unavailable) and cancellation;
// every other outcome is a terminal Result, degraded or not.
func (o *Orchestrator) Run(ctx context.Context, req types.RequestContext) (*Result, error) {
	state := &RunState{
		RunID:   uuid.NewString(),
		Phase:   PhaseInit,
		Request: req,
	}
	log := o.logger.With(zap.String("run_id", state.RunID), zap.String("patch", req.Patch))

	// Init → FactsLoaded: collaborator call, failure is fatal.
	if err := o.transition(ctx, state, log, PhaseFactsLoaded); err != nil {
		return nil, err
	}
	facts, err := o.deps.Facts.LoadFacts(ctx, req.Patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactsUnavailable, err)
	}
	state.Facts = facts

	// FactsLoaded → EvidenceGathered: rank the guide corpus.
	if err := o.transition(ctx, state, log, PhaseEvidenceGathered); err != nil {
		return nil, err
	}
	evidence, err := o.deps.Ranker.Rank(evidenceQuery(req), facts.Guides, o.cfg.EvidenceK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvidenceUnavailable, err)
	}
	state.Evidence = evidence
	if len(evidence) == 0 {
		log.Warn("evidence corpus empty, draft will be ungrounded")
	}

	// EvidenceGathered → Scored.
	if err := o.transition(ctx, state, log, PhaseScored); err != nil {
		return nil, err
	}
	if o.deps.Scorer != nil {
		state.Threats = o.deps.Scorer.ScoreAll(ctx, facts, req.Enemy)
	}

	// Drafted/Validated loop, bounded by the attempt budget.
	degraded, err := o.draftLoop(ctx, state, log)
	if err != nil {
		return nil, err
	}

	if err := o.transition(ctx, state, log, PhaseFinal); err != nil {
		return nil, err
	}
	state.Terminal = true

	log.Info("run finished",
		zap.Int("attempts", state.Attempts),
		zap.Bool("degraded", degraded),
		zap.Int("evidence", len(state.Evidence)))

	return &Result{
		Patch:             req.Patch,
		Final:             state.Draft,
		Threats:           state.Threats,
		Evidence:          state.Evidence,
		ViolationsHistory: state.History,
		AttemptsUsed:      state.Attempts,
		Degraded:          degraded,
	}, nil
}

// draftLoop generates, validates, and conditionally regenerates with the
// previous violations as feedback. A generator error consumes the attempt
// as an automatic validation failure instead of aborting the run.
func (o *Orchestrator) draftLoop(ctx context.Context, state *RunState, log *zap.Logger) (degraded bool, err error) {
	var feedback []types.Violation

	for {
		if err := o.transition(ctx, state, log, PhaseDrafted); err != nil {
			return false, err
		}

		draft, genErr := o.deps.Generator.Generate(ctx, types.GenerateInput{
			Request:  state.Request,
			Facts:    state.Facts,
			Evidence: state.Evidence,
			Threats:  state.Threats,
			Feedback: feedback,
		})
		state.Attempts++

		var ok bool
		var violations []types.Violation
		if genErr != nil {
			log.Warn("draft generation failed",
				zap.Int("attempt", state.Attempts), zap.Error(genErr))
			violations = []types.Violation{{
				Code:    CodeGenerationFailed,
				Message: genErr.Error(),
			}}
		} else {
			state.Draft = draft
			ok, violations = o.deps.Validator.Validate(state.Draft, state.Facts, state.Evidence)
		}

		if err := o.transition(ctx, state, log, PhaseValidated); err != nil {
			return false, err
		}
		state.History = append(state.History, violations)

		if ok {
			return false, nil
		}
		if state.Attempts > o.cfg.MaxAttempts {
			log.Warn("attempt budget exhausted, finalizing degraded draft",
				zap.Int("attempts", state.Attempts),
				zap.Int("violations", len(violations)))
			return true, nil
		}

		if err := o.transition(ctx, state, log, PhaseRefining); err != nil {
			return false, err
		}
		feedback = violations
	}
}

// transition moves the state machine to next, refusing to start a new
// phase once the run context is cancelled.
func (o *Orchestrator) transition(ctx context.Context, state *RunState, log *zap.Logger, next Phase) error {
	if err := ctx.Err(); err != nil {
		log.Debug("run cancelled", zap.String("at", string(state.Phase)))
		return fmt.Errorf("run cancelled before %s: %w", next, err)
	}
	log.Debug("phase transition",
		zap.String("from", string(state.Phase)), zap.String("to", string(next)))
	state.Phase = next
	return nil
}

// evidenceQuery seeds the ranker from the champions the request concerns
// plus any free-text question.
func evidenceQuery(req types.RequestContext) string {
	parts := req.Champions()
	if req.Question != "" {
		parts = append(parts, req.Question)
	}
	return strings.Join(parts, " ")
}

// bm25Ranker adapts the pure retrieval ranker to the Ranker interface.
type bm25Ranker struct{}

func (bm25Ranker) Rank(query string, corpus []types.Snippet, k int) ([]types.Snippet, error) {
	return retrieval.Rank(query, corpus, k), nil
}
