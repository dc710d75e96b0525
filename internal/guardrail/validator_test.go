package guardrail

import (
	"testing"

	"aramcoach/internal/types"
)

func testFacts() *types.FactSet {
	return &types.FactSet{
		Patch: "14.99",
		Items: map[int]types.Item{
			3153: {ID: 3153, Name: "Blade of the Ruined King", Price: 3200, Stats: map[string]float64{"attack_damage": 40, "attack_speed": 25}},
			3123: {ID: 3123, Name: "Executioner's Calling", Price: 800, Tags: []string{"GrievousWounds"}},
		},
		Champions: map[string]types.Champion{
			"Ashe": {Key: "Ashe", Name: "Ashe", Tags: []string{"Marksman"}},
		},
	}
}

func validDraft() *types.StrategyDraft {
	return &types.StrategyDraft{
		Role:    "poke",
		Summary: []string{"Poke before fights.", "Buy anti-heal early."},
		Build: []types.BuildStep{
			{Trigger: "anti_heal", Items: []types.BuildItem{{ID: 3123, Name: "Executioner's Calling"}}, Why: "Counter sustain", Phase: "early"},
		},
		EvidenceIDs: []string{"ashe"},
		StatClaims:  []types.StatClaim{{ItemID: 3153, Stat: "attack_damage", Value: 40}},
	}
}

func testEvidence() []types.Snippet {
	return []types.Snippet{{ID: "ashe", Champion: "Ashe", Text: "Kite and poke.", Score: 1.2}}
}

func TestValidate_CleanDraftPasses(t *testing.T) {
	v := New(Config{})
	ok, violations := v.Validate(validDraft(), testFacts(), testEvidence())
	if !ok {
		t.Fatalf("ok = false, violations = %v", violations)
	}
	if len(violations) != 0 {
		t.Fatalf("violations = %v, want none", violations)
	}
}

func TestValidate_SummaryTooLong(t *testing.T) {
	draft := validDraft()
	draft.Summary = []string{"One.", "Two.", "Three.", "Four."}

	v := New(Config{MaxSummarySentences: 3})
	ok, violations := v.Validate(draft, testFacts(), testEvidence())

	if ok {
		t.Fatal("ok = true, want false")
	}
	if len(violations) != 1 {
		t.Fatalf("violations = %v, want exactly one", violations)
	}
	if violations[0].Code != CodeSummaryTooLong {
		t.Fatalf("code = %s, want %s", violations[0].Code, CodeSummaryTooLong)
	}
}

func TestValidate_OutOfScope(t *testing.T) {
	draft := validDraft()
	draft.Summary = []string{"Take dragon at five minutes."}

	v := New(Config{})
	ok, violations := v.Validate(draft, testFacts(), testEvidence())
	if ok {
		t.Fatal("ok = true, want false")
	}
	if violations[0].Code != CodeOutOfScope {
		t.Fatalf("code = %s, want %s", violations[0].Code, CodeOutOfScope)
	}
}

func TestValidate_UnknownItem(t *testing.T) {
	draft := validDraft()
	draft.Build[0].Items = append(draft.Build[0].Items, types.BuildItem{ID: 9999, Name: "Imaginary Blade"})

	v := New(Config{})
	ok, violations := v.Validate(draft, testFacts(), testEvidence())
	if ok {
		t.Fatal("ok = true, want false")
	}
	found := false
	for _, vio := range violations {
		if vio.Code == CodeUnknownItem {
			found = true
		}
	}
	if !found {
		t.Fatalf("no UNKNOWN_ITEM in %v", violations)
	}
}

func TestValidate_StatMismatch(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		want  bool // violation expected
	}{
		{name: "exact", value: 40, want: false},
		{name: "within_tolerance", value: 41, want: false},
		{name: "beyond_tolerance", value: 55, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			draft.StatClaims = []types.StatClaim{{ItemID: 3153, Stat: "attack_damage", Value: tc.value}}

			v := New(Config{StatTolerance: 0.05})
			ok, violations := v.Validate(draft, testFacts(), testEvidence())

			fired := false
			for _, vio := range violations {
				if vio.Code == CodeStatMismatch {
					fired = true
				}
			}
			if fired != tc.want {
				t.Fatalf("mismatch fired = %v, want %v (ok=%v violations=%v)", fired, tc.want, ok, violations)
			}
		})
	}
}

func TestValidate_MissingEvidence(t *testing.T) {
	draft := validDraft()
	draft.EvidenceIDs = nil

	v := New(Config{})
	ok, violations := v.Validate(draft, testFacts(), testEvidence())
	if ok {
		t.Fatal("ok = true, want false")
	}
	if violations[0].Code != CodeMissingEvidence {
		t.Fatalf("code = %s, want %s", violations[0].Code, CodeMissingEvidence)
	}

	// No violation when there was no evidence to cite.
	ok, violations = v.Validate(draft, testFacts(), nil)
	if !ok {
		t.Fatalf("ok = false with empty evidence, violations = %v", violations)
	}
}

func TestValidate_SchemaInvalidShortCircuits(t *testing.T) {
	cases := []struct {
		name  string
		draft *types.StrategyDraft
	}{
		{name: "nil_draft", draft: nil},
		{name: "no_role", draft: &types.StrategyDraft{Summary: []string{"Group mid."}}},
		{name: "no_summary", draft: &types.StrategyDraft{Role: "engage"}},
		{name: "empty_build_step", draft: &types.StrategyDraft{
			Role:    "engage",
			Summary: []string{"One.", "Two.", "Three.", "Four.", "Five."},
			Build:   []types.BuildStep{{Trigger: "spike"}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := New(Config{})
			ok, violations := v.Validate(tc.draft, testFacts(), testEvidence())
			if ok {
				t.Fatal("ok = true, want false")
			}
			if len(violations) != 1 || violations[0].Code != CodeSchemaInvalid {
				t.Fatalf("violations = %v, want single SCHEMA_INVALID", violations)
			}
		})
	}
}

func TestValidate_ViolationOrderFollowsRuleOrder(t *testing.T) {
	draft := validDraft()
	draft.Summary = []string{"Take baron.", "Two.", "Three.", "Four."}
	draft.EvidenceIDs = nil

	v := New(Config{})
	_, violations := v.Validate(draft, testFacts(), testEvidence())

	want := []types.ViolationCode{CodeSummaryTooLong, CodeOutOfScope, CodeMissingEvidence}
	if len(violations) != len(want) {
		t.Fatalf("violations = %v, want %d entries", violations, len(want))
	}
	for i, code := range want {
		if violations[i].Code != code {
			t.Errorf("violations[%d].Code = %s, want %s", i, violations[i].Code, code)
		}
	}
}
