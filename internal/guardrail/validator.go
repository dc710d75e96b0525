// Package guardrail validates a strategy draft against a fixed rule set:
// scoping, format, and factual consistency with the loaded patch facts.
// Validation is a pure function over the draft; it never errors, and a
// structurally broken draft is reported as a violation instead of a failure.
package guardrail

import (
	"fmt"
	"math"
	"strings"

	"aramcoach/internal/types"
)

// Closed violation taxonomy. Reporting order follows declaration order.
const (
	CodeSchemaInvalid   types.ViolationCode = "SCHEMA_INVALID"
	CodeSummaryTooLong  types.ViolationCode = "SUMMARY_TOO_LONG"
	CodeOutOfScope      types.ViolationCode = "OUT_OF_SCOPE"
	CodeUnknownItem     types.ViolationCode = "UNKNOWN_ITEM"
	CodeStatMismatch    types.ViolationCode = "STAT_MISMATCH"
	CodeMissingEvidence types.ViolationCode = "MISSING_EVIDENCE"
)

// defaultDeniedTerms are Summoner's Rift mechanics that do not exist in
// ARAM. A draft mentioning them is advising for the wrong game mode.
var defaultDeniedTerms = []string{
	"dragon", "baron", "jungle", "rift herald", "turret plates", "ward",
}

// Config bounds the format rules.
type Config struct {
	// MaxSummarySentences caps the summary length. Zero means the default of 3.
	MaxSummarySentences int
	// StatTolerance is the allowed relative error on numeric claims.
	// Zero means the default of 5%.
	StatTolerance float64
	// DeniedTerms overrides the out-of-scope denylist when non-nil.
	DeniedTerms []string
}

// Validator evaluates drafts against the closed rule set.
type Validator struct {
	maxSummary int
	tolerance  float64
	denied     []string
}

// New builds a Validator, applying defaults for zero config values.
func New(cfg Config) *Validator {
	if cfg.MaxSummarySentences <= 0 {
		cfg.MaxSummarySentences = 3
	}
	if cfg.StatTolerance <= 0 {
		cfg.StatTolerance = 0.05
	}
	if cfg.DeniedTerms == nil {
		cfg.DeniedTerms = defaultDeniedTerms
	}
	return &Validator{
		maxSummary: cfg.MaxSummarySentences,
		tolerance:  cfg.StatTolerance,
		denied:     cfg.DeniedTerms,
	}
}

// Validate runs every rule against the draft and returns ok together with
// the violations in rule-declaration order. ok is true iff no rule fired.
// A draft missing required fields yields a single SCHEMA_INVALID violation;
// the field-level rules are skipped since they would only echo the same
// defect.
func (v *Validator) Validate(draft *types.StrategyDraft, facts *types.FactSet, evidence []types.Snippet) (bool, []types.Violation) {
	if vio, bad := v.checkSchema(draft); bad {
		return false, []types.Violation{vio}
	}

	var violations []types.Violation
	violations = append(violations, v.checkSummaryLength(draft)...)
	violations = append(violations, v.checkScope(draft)...)
	violations = append(violations, v.checkItems(draft, facts)...)
	violations = append(violations, v.checkStatClaims(draft, facts)...)
	violations = append(violations, v.checkEvidence(draft, evidence)...)

	return len(violations) == 0, violations
}

func (v *Validator) checkSchema(draft *types.StrategyDraft) (types.Violation, bool) {
	switch {
	case draft == nil:
		return types.Violation{Code: CodeSchemaInvalid, Message: "draft is missing"}, true
	case draft.Role == "":
		return types.Violation{Code: CodeSchemaInvalid, Message: "role is required", Field: "role"}, true
	case len(draft.Summary) == 0:
		return types.Violation{Code: CodeSchemaInvalid, Message: "summary is required", Field: "summary"}, true
	}
	for i, step := range draft.Build {
		if len(step.Items) == 0 {
			return types.Violation{
				Code:    CodeSchemaInvalid,
				Message: "build step has no items",
				Field:   fmt.Sprintf("build[%d].items", i),
			}, true
		}
	}
	return types.Violation{}, false
}

func (v *Validator) checkSummaryLength(draft *types.StrategyDraft) []types.Violation {
	if len(draft.Summary) <= v.maxSummary {
		return nil
	}
	return []types.Violation{{
		Code:    CodeSummaryTooLong,
		Message: fmt.Sprintf("summary has %d sentences, limit is %d", len(draft.Summary), v.maxSummary),
		Field:   "summary",
	}}
}

func (v *Validator) checkScope(draft *types.StrategyDraft) []types.Violation {
	var blob strings.Builder
	for _, s := range draft.Summary {
		blob.WriteString(s)
		blob.WriteString(" ")
	}
	for _, step := range draft.Build {
		blob.WriteString(step.Why)
		blob.WriteString(" ")
	}
	text := strings.ToLower(blob.String())

	var violations []types.Violation
	for _, term := range v.denied {
		if strings.Contains(text, term) {
			violations = append(violations, types.Violation{
				Code:    CodeOutOfScope,
				Message: fmt.Sprintf("draft references %q, which does not exist in this game mode", term),
			})
		}
	}
	return violations
}

func (v *Validator) checkItems(draft *types.StrategyDraft, facts *types.FactSet) []types.Violation {
	var violations []types.Violation
	for i, step := range draft.Build {
		for j, it := range step.Items {
			if _, ok := facts.Item(it.ID); !ok {
				violations = append(violations, types.Violation{
					Code:    CodeUnknownItem,
					Message: fmt.Sprintf("item %d (%s) is not in patch %s", it.ID, it.Name, facts.Patch),
					Field:   fmt.Sprintf("build[%d].items[%d]", i, j),
				})
			}
		}
	}
	return violations
}

func (v *Validator) checkStatClaims(draft *types.StrategyDraft, facts *types.FactSet) []types.Violation {
	var violations []types.Violation
	for i, claim := range draft.StatClaims {
		item, ok := facts.Item(claim.ItemID)
		if !ok {
			// The item rule already reports unknown ids; an unknown id in a
			// claim is only a mismatch if the item rule could not see it.
			continue
		}
		actual, ok := item.Stats[claim.Stat]
		if !ok {
			continue
		}
		if relativeError(claim.Value, actual) > v.tolerance {
			violations = append(violations, types.Violation{
				Code:    CodeStatMismatch,
				Message: fmt.Sprintf("claims %s %s = %v, patch %s says %v", item.Name, claim.Stat, claim.Value, facts.Patch, actual),
				Field:   fmt.Sprintf("stat_claims[%d]", i),
			})
		}
	}
	return violations
}

func (v *Validator) checkEvidence(draft *types.StrategyDraft, evidence []types.Snippet) []types.Violation {
	if len(evidence) == 0 || len(draft.EvidenceIDs) > 0 {
		return nil
	}
	return []types.Violation{{
		Code:    CodeMissingEvidence,
		Message: fmt.Sprintf("%d evidence snippets were available but none are cited", len(evidence)),
		Field:   "evidence_ids",
	}}
}

func relativeError(claimed, actual float64) float64 {
	if actual == 0 {
		if claimed == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(claimed-actual) / math.Abs(actual)
}
