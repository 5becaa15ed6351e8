package generator

import (
	"fmt"
	"math/rand"
	"sort"
)

// WeightedSet is a discrete distribution over string outcomes. Weights
// are relative, not normalized. Sampling draws against the cumulative
// weight so an outcome with weight 10 is ten times as likely as one
// with weight 1.
type WeightedSet struct {
	outcomes   []string
	cumulative []int
	total      int
}

// NewWeightedSet builds a distribution from an outcome-to-weight map.
// The outcome order is fixed by sorting so that sampling with a seeded
// source is reproducible across runs.
func NewWeightedSet(weights map[string]int) (*WeightedSet, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("weighted set requires at least one outcome")
	}

	outcomes := make([]string, 0, len(weights))
	for outcome := range weights {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	ws := &WeightedSet{outcomes: outcomes}
	for _, outcome := range outcomes {
		w := weights[outcome]
		if w <= 0 {
			return nil, fmt.Errorf("outcome %q has non-positive weight %d", outcome, w)
		}
		ws.total += w
		ws.cumulative = append(ws.cumulative, ws.total)
	}

	return ws, nil
}

// Sample draws one outcome using rng.
func (ws *WeightedSet) Sample(rng *rand.Rand) string {
	draw := rng.Intn(ws.total)
	idx := sort.SearchInts(ws.cumulative, draw+1)
	return ws.outcomes[idx]
}

// Outcomes returns the outcome values in sampling order.
func (ws *WeightedSet) Outcomes() []string {
	out := make([]string, len(ws.outcomes))
	copy(out, ws.outcomes)
	return out
}

// Weight returns the relative weight of outcome, or 0 if absent.
func (ws *WeightedSet) Weight(outcome string) int {
	for i, o := range ws.outcomes {
		if o == outcome {
			prev := 0
			if i > 0 {
				prev = ws.cumulative[i-1]
			}
			return ws.cumulative[i] - prev
		}
	}
	return 0
}
