package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"aramcoach/internal/types"
)

// Heuristic generates drafts from patch facts alone: role from champion
// class, anti-heal itemization when the enemy comp sustains. Deterministic,
// needs no network, and doubles as the reference implementation of the
// generation contract. It is the default generator when no API key is
// configured.
type Heuristic struct{}

// Generate builds a draft from the input. Feedback is accepted per the
// contract but a heuristic has no way to act on most violations; it only
// trims the summary when told it ran long.
func (Heuristic) Generate(_ context.Context, in types.GenerateInput) (*types.StrategyDraft, error) {
	myChamp := in.Request.MyChampion
	if myChamp == "" && len(in.Request.Ally) > 0 {
		myChamp = in.Request.Ally[0].Champion
	}

	role := pickRole(myChamp, in.Facts)
	build, claims := buildPlan(in.Facts, in.Request.Enemy)

	summary := []string{
		fmt.Sprintf("Play %s and respect enemy item spikes.", role),
		"Group for fights and trade when your summoners are up.",
	}
	if topThreat := highestThreat(in.Threats); topThreat != "" {
		summary = append(summary, fmt.Sprintf("Track %s, the largest threat on their side.", topThreat))
	}
	summary = applySummaryFeedback(summary, in.Feedback)

	var evidenceIDs []string
	for _, sn := range in.Evidence {
		evidenceIDs = append(evidenceIDs, sn.ID)
	}

	assumptions := []string{
		fmt.Sprintf("patch %s facts", in.Request.Patch),
		fmt.Sprintf("enemy comp of %d known champions", len(in.Request.Enemy)),
	}

	return &types.StrategyDraft{
		Role:        role,
		Summary:     summary,
		Build:       build,
		EvidenceIDs: evidenceIDs,
		Assumptions: assumptions,
		StatClaims:  claims,
	}, nil
}

// pickRole maps the player's champion class onto a teamfight role.
func pickRole(champion string, facts *types.FactSet) string {
	ch, ok := facts.Champions[champion]
	if !ok {
		return "front_to_back"
	}
	for _, tag := range ch.Tags {
		switch tag {
		case "Marksman", "Mage":
			return "poke"
		case "Tank":
			return "engage"
		case "Support":
			return "peel"
		case "Assassin":
			return "anti_dive"
		}
	}
	return "front_to_back"
}

// needsAntiHeal reports whether the enemy comp carries meaningful sustain.
func needsAntiHeal(facts *types.FactSet, enemy []types.RosterEntry) bool {
	for _, entry := range enemy {
		ch, ok := facts.Champions[entry.Champion]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(ch.Notes), "heal") {
			return true
		}
	}
	return false
}

// buildPlan assembles the ordered build steps plus the stat claims backing
// them. Claims quote the FactSet values directly so the draft stays
// consistent with the active patch.
func buildPlan(facts *types.FactSet, enemy []types.RosterEntry) ([]types.BuildStep, []types.StatClaim) {
	var steps []types.BuildStep
	var claims []types.StatClaim

	if needsAntiHeal(facts, enemy) {
		if items := itemsByTag(facts, "GrievousWounds", 2); len(items) > 0 {
			steps = append(steps, types.BuildStep{
				Trigger: "anti_heal",
				Items:   items,
				Why:     "Counter heavy healing before it snowballs.",
				Phase:   "early",
			})
		}
	}

	if items := itemsByTag(facts, "Damage", 2); len(items) > 0 {
		steps = append(steps, types.BuildStep{
			Trigger: "core",
			Items:   items,
			Why:     "Core damage spike for mid-game fights.",
			Phase:   "mid",
		})
		for _, bi := range items {
			item := facts.Items[bi.ID]
			for _, stat := range sortedStatKeys(item.Stats) {
				claims = append(claims, types.StatClaim{ItemID: item.ID, Stat: stat, Value: item.Stats[stat]})
				break // one claim per item keeps the draft terse
			}
		}
	}

	return steps, claims
}

// itemsByTag returns up to limit items carrying tag, ordered by id so the
// selection is stable across runs.
func itemsByTag(facts *types.FactSet, tag string, limit int) []types.BuildItem {
	ids := make([]int, 0, len(facts.Items))
	for id := range facts.Items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []types.BuildItem
	for _, id := range ids {
		item := facts.Items[id]
		for _, t := range item.Tags {
			if t == tag {
				out = append(out, types.BuildItem{ID: item.ID, Name: item.Name})
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func sortedStatKeys(stats map[string]float64) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func highestThreat(threats []types.ThreatScore) string {
	best := ""
	bestScore := 0.0
	for _, t := range threats {
		if t.Score > bestScore {
			best = t.Champion
			bestScore = t.Score
		}
	}
	return best
}

// applySummaryFeedback trims the summary when the previous attempt was
// rejected for length. Other violation codes have no heuristic remedy; the
// contract allows returning an unchanged draft.
func applySummaryFeedback(summary []string, feedback []types.Violation) []string {
	for _, v := range feedback {
		if v.Code == "SUMMARY_TOO_LONG" && len(summary) > 1 {
			return summary[:1]
		}
	}
	return summary
}
