// Package threat scores opposing champions on a bounded 1-10 scale from
// patch facts, optionally blended with an empirical win-rate signal. Scoring
// never fails a run: a missing signal or unknown champion degrades the score
// quality, not the result.
package threat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aramcoach/internal/types"
)

// Scale bounds for every score this package produces.
const (
	ScaleMin = 1.0
	ScaleMax = 10.0
)

// tagWeights is the static contribution of each champion class tag.
var tagWeights = map[string]float64{
	"Assassin": 2.5,
	"Mage":     2.0,
	"Marksman": 2.0,
	"Fighter":  1.5,
	"Tank":     1.5,
	"Support":  1.0,
}

// noteWeights adds threat for mechanics called out in the champion notes.
var noteWeights = []struct {
	keyword string
	weight  float64
	label   string
}{
	{"heal", 1.5, "sustained healing"},
	{"shield", 1.0, "shielding"},
	{"poke", 1.0, "long range poke"},
	{"stun", 1.5, "hard crowd control"},
	{"root", 1.5, "hard crowd control"},
	{"knockup", 1.5, "hard crowd control"},
}

// Estimator computes threat scores. It is stateless between calls; with a
// deterministic SignalSource, identical inputs yield identical scores.
type Estimator struct {
	signals     types.SignalSource
	logger      *zap.Logger
	fetchLimit  int
	signalBlend float64
}

// NewEstimator builds an Estimator. signals may be nil, in which case every
// score is static-only.
func NewEstimator(signals types.SignalSource, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{
		signals:     signals,
		logger:      logger,
		fetchLimit:  4,
		signalBlend: 0.3,
	}
}

// ScoreAll returns exactly one score per enemy roster entry, in roster
// order. Win-rate fetches run concurrently under the run context; any fetch
// failure is treated as "signal unavailable" and logged, never returned.
func (e *Estimator) ScoreAll(ctx context.Context, facts *types.FactSet, enemy []types.RosterEntry) []types.ThreatScore {
	signals := e.fetchSignals(ctx, enemy)

	scores := make([]types.ThreatScore, len(enemy))
	for i, entry := range enemy {
		scores[i] = e.score(entry.Champion, facts, signals[i])
	}
	return scores
}

// fetchSignals resolves the win rate for each enemy concurrently. The
// returned slice is positional; a nil entry means no signal.
func (e *Estimator) fetchSignals(ctx context.Context, enemy []types.RosterEntry) []*float64 {
	signals := make([]*float64, len(enemy))
	if e.signals == nil {
		return signals
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fetchLimit)
	for i, entry := range enemy {
		g.Go(func() error {
			wr, err := e.signals.WinRate(gctx, entry.Champion)
			if err != nil {
				e.logger.Debug("win-rate signal unavailable",
					zap.String("champion", entry.Champion), zap.Error(err))
				return nil
			}
			signals[i] = &wr
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; Wait only joins them
	return signals
}

// score computes a single champion's threat. Static base comes from class
// tags and note keywords; when a win rate is present it is rescaled onto
// the threat scale and blended in before clamping.
func (e *Estimator) score(champion string, facts *types.FactSet, winRate *float64) types.ThreatScore {
	base := ScaleMin
	var reasons []string

	champ, known := facts.Champions[champion]
	if known {
		for _, tag := range champ.Tags {
			if w, ok := tagWeights[tag]; ok {
				base += w
				reasons = append(reasons, strings.ToLower(tag))
			}
		}
		notes := strings.ToLower(champ.Notes)
		seen := map[string]bool{}
		for _, nw := range noteWeights {
			if strings.Contains(notes, nw.keyword) && !seen[nw.label] {
				base += nw.weight
				reasons = append(reasons, nw.label)
				seen[nw.label] = true
			}
		}
		sort.Strings(reasons)
	} else {
		reasons = append(reasons, "no patch facts")
	}

	value := clamp(base)
	if winRate != nil {
		scaled := clamp(ScaleMin + (*winRate-45.0)/10.0*(ScaleMax-ScaleMin))
		value = clamp((1-e.signalBlend)*value + e.signalBlend*scaled)
		reasons = append(reasons, fmt.Sprintf("win rate %.1f%%", *winRate))
	}

	return types.ThreatScore{
		Champion:  champion,
		Score:     value,
		Rationale: strings.Join(reasons, ", "),
	}
}

func clamp(v float64) float64 {
	if v < ScaleMin {
		return ScaleMin
	}
	if v > ScaleMax {
		return ScaleMax
	}
	return v
}
