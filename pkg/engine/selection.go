package engine

import (
	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/jwebster45206/aftermath/pkg/state"
)

const (
	baseWeight = 10.0
	minWeight  = 1.0
)

// tagDivisors maps each weighting tag to the divisor applied to its
// variable's distance from 50.
var tagDivisors = []struct {
	tag     string
	divisor float64
}{
	{state.VarPressure, 6},
	{state.VarEntropy, 6},
	{state.VarTrust, 7},
	{state.VarStability, 7},
}

// Weight returns the selection weight of d under the given vars. It is never
// below 1, so every decision stays selectable.
func Weight(d decision.Decision, vars state.Vars) float64 {
	w := baseWeight
	for _, td := range tagDivisors {
		if d.HasTag(td.tag) {
			w += float64(vars.Get(td.tag)-50) / td.divisor
		}
	}
	return max(minWeight, w)
}

// ChooseDecision picks the next decision by weighted random draw over the
// catalog, in catalog order. rnd is called exactly once. If rounding leaves
// the draw unmatched, the first decision is returned.
func ChooseDecision(gs *state.GameState, catalog []decision.Decision, rnd RandomSource) (decision.Decision, error) {
	if len(catalog) == 0 {
		return decision.Decision{}, decision.ErrEmptyCatalog
	}

	weights := make([]float64, len(catalog))
	total := 0.0
	for i, d := range catalog {
		weights[i] = Weight(d, gs.Vars)
		total += weights[i]
	}

	r := rnd() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return catalog[i], nil
		}
	}

	return catalog[0], nil
}
