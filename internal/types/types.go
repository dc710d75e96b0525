// Package types holds the shared data model for a coaching run: the
// immutable request, patch-scoped facts, ranked evidence, threat scores,
// and the structured strategy draft that flows through the PEV loop.
package types

// Mode selects how a request seeds the evidence query.
type Mode string

const (
	// ModePreGame answers "how do we play this comp" before the game starts.
	ModePreGame Mode = "pre_game"
	// ModeIngameQA answers a free-text question about one champion mid-game.
	ModeIngameQA Mode = "ingame_qa"
)

// RosterEntry is one champion slot in a team composition.
type RosterEntry struct {
	Champion string `json:"champion"`
	Role     string `json:"role,omitempty"`
}

// RequestContext is the immutable input for one run. It is created once per
// request and never mutated by the core.
type RequestContext struct {
	Patch      string        `json:"patch"`
	Mode       Mode          `json:"mode"`
	Ally       []RosterEntry `json:"ally"`
	Enemy      []RosterEntry `json:"enemy"`
	MyChampion string        `json:"my_champion,omitempty"`
	Question   string        `json:"question,omitempty"`
}

// Champions returns the champion names relevant to the request's evidence
// query: both rosters pre-game, the player's champion for in-game QA.
func (r RequestContext) Champions() []string {
	if r.Mode == ModeIngameQA {
		if r.MyChampion == "" {
			return nil
		}
		return []string{r.MyChampion}
	}
	names := make([]string, 0, len(r.Ally)+len(r.Enemy))
	for _, e := range r.Ally {
		names = append(names, e.Champion)
	}
	for _, e := range r.Enemy {
		names = append(names, e.Champion)
	}
	return names
}

// Item is a purchasable item's static attributes for one patch.
type Item struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Price       int                `json:"price"`
	Stats       map[string]float64 `json:"stats,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Description string             `json:"description,omitempty"`
}

// Champion is a champion's static attributes for one patch.
type Champion struct {
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

// Rune is a rune's static attributes for one patch.
type Rune struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Tree string `json:"tree"`
}

// Snippet is a passage of guide text with provenance. Score is assigned by
// the ranker; it is zero on corpus snippets loaded from the store.
type Snippet struct {
	ID       string  `json:"id"`
	Champion string  `json:"champion,omitempty"`
	Text     string  `json:"text"`
	Score    float64 `json:"score,omitempty"`
}

// FactSet is everything the store knows about one patch. Loaded once per
// run and read-only from then on; safe to share across runs.
type FactSet struct {
	Patch     string              `json:"patch"`
	Items     map[int]Item        `json:"items"`
	Champions map[string]Champion `json:"champions"`
	Runes     map[int]Rune        `json:"runes"`
	Guides    []Snippet           `json:"guides"`
}

// Item returns the item for id, if present.
func (f *FactSet) Item(id int) (Item, bool) {
	it, ok := f.Items[id]
	return it, ok
}

// ThreatScore rates one opposing champion on a 1-10 scale.
type ThreatScore struct {
	Champion  string  `json:"champion"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// BuildItem references an item by id inside a build step. Name is carried
// for display only; the id is what guardrails check.
type BuildItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// BuildStep is one entry in the ordered build plan. Phase is the validity
// window ("early", "mid", "late").
type BuildStep struct {
	Trigger string      `json:"trigger"`
	Items   []BuildItem `json:"items"`
	Why     string      `json:"why"`
	Phase   string      `json:"phase,omitempty"`
}

// StatClaim is a numeric assertion the draft makes about an item stat.
// Guardrails compare it against the FactSet value within a tolerance.
type StatClaim struct {
	ItemID int     `json:"item_id"`
	Stat   string  `json:"stat"`
	Value  float64 `json:"value"`
}

// StrategyDraft is the structured recommendation produced by a generator.
// It may be regenerated with violation feedback; the last draft of a run is
// promoted to the final answer, degraded or not.
type StrategyDraft struct {
	Role        string      `json:"role"`
	Summary     []string    `json:"summary"`
	Build       []BuildStep `json:"build"`
	EvidenceIDs []string    `json:"evidence_ids"`
	Assumptions []string    `json:"assumptions,omitempty"`
	StatClaims  []StatClaim `json:"stat_claims,omitempty"`
}

// ViolationCode identifies a guardrail rule from the closed taxonomy.
type ViolationCode string

// Violation is one guardrail finding on a draft.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
	Field   string        `json:"field,omitempty"`
}
