package strategy

import (
	"context"
	"sync"

	"aramcoach/internal/types"
)

// Stub is a deterministic generator for tests and offline demos. It replays
// scripted drafts (or errors) in order, repeating the last entry once the
// script runs out, and records every call it receives.
type Stub struct {
	mu sync.Mutex

	// Script entries are consumed per call. A nil Draft with a non-nil Err
	// simulates a failed generation attempt.
	Script []StubResponse

	calls  int
	inputs []types.GenerateInput
}

// StubResponse is one scripted generation outcome.
type StubResponse struct {
	Draft *types.StrategyDraft
	Err   error
}

// Generate returns the next scripted response.
func (s *Stub) Generate(_ context.Context, in types.GenerateInput) (*types.StrategyDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.calls
	if idx >= len(s.Script) {
		idx = len(s.Script) - 1
	}
	s.calls++
	s.inputs = append(s.inputs, in)

	if idx < 0 {
		return &types.StrategyDraft{Role: "front_to_back", Summary: []string{"Group and fight."}}, nil
	}
	resp := s.Script[idx]
	if resp.Err != nil {
		return nil, resp.Err
	}
	// Copy so callers mutating the result do not corrupt the script.
	draft := *resp.Draft
	return &draft, nil
}

// Calls reports how many times Generate ran.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Inputs returns the inputs Generate received, in order.
func (s *Stub) Inputs() []types.GenerateInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.GenerateInput, len(s.inputs))
	copy(out, s.inputs)
	return out
}
