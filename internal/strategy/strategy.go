// Package strategy provides the draft generators behind the PEV loop's
// generation step: a deterministic heuristic generator, a Gemini-backed
// generator, and a stub for tests. All three satisfy types.DraftGenerator;
// the orchestrator neither knows nor cares which one it is driving.
package strategy

import "errors"

// Attempt-scoped generation failures. The orchestrator folds these into the
// retry loop; they never abort a run on their own.
var (
	// ErrGenerationTimeout means the generator ran out of time on this attempt.
	ErrGenerationTimeout = errors.New("draft generation timed out")
	// ErrGenerationSchema means the generator produced output that does not
	// decode into a draft.
	ErrGenerationSchema = errors.New("draft generation returned malformed output")
)

// Roles a draft may assign. The heuristic generator picks from these; the
// Gemini prompt instructs the model to do the same.
var Roles = []string{"peel", "engage", "poke", "zone", "front_to_back", "anti_dive"}
