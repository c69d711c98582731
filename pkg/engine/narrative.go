package engine

import (
	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/jwebster45206/aftermath/pkg/state"
)

const (
	midThreshold  = 70.0
	highThreshold = 110.0
)

// ConsequenceScore is the severity score that ConsequenceLevel buckets.
func ConsequenceScore(gs *state.GameState) float64 {
	return float64(gs.Vars.Get(state.VarPressure))*0.6 +
		float64(gs.Vars.Get(state.VarEntropy))*0.4 +
		float64(len(gs.History))*2
}

// ConsequenceLevel maps the current state to a consequence tier. Deeper play
// raises severity.
func ConsequenceLevel(gs *state.GameState) decision.Tier {
	score := ConsequenceScore(gs)
	switch {
	case score < midThreshold:
		return decision.TierLow
	case score < highThreshold:
		return decision.TierMid
	default:
		return decision.TierHigh
	}
}

// EndingKind names a terminal narrative.
type EndingKind string

const (
	EndingCollapse  EndingKind = "collapse"
	EndingNoise     EndingKind = "noise"
	EndingStillness EndingKind = "stillness"
)

// Ending is a terminal narrative reached through extreme hidden variables.
// Endings are advisory and do not stop play.
type Ending struct {
	Kind EndingKind `json:"kind"`
	Text string     `json:"text"`
}

var endings = []struct {
	ending Ending
	match  func(v state.Vars) bool
}{
	{
		Ending{EndingCollapse, "THE COLLAPSE — The structure fails all at once."},
		func(v state.Vars) bool { return v.Get(state.VarPressure) > 90 && v.Get(state.VarStability) < 25 },
	},
	{
		Ending{EndingNoise, "THE NOISE — Patterns dissolve beyond recovery."},
		func(v state.Vars) bool { return v.Get(state.VarEntropy) > 90 && v.Get(state.VarTrust) < 30 },
	},
	{
		Ending{EndingStillness, "THE STILLNESS — Everything becomes optimized."},
		func(v state.Vars) bool { return v.Get(state.VarStability) > 85 && v.Get(state.VarEntropy) < 20 },
	},
}

// CheckEnding returns the first ending whose condition holds, in priority
// order collapse, noise, stillness.
func CheckEnding(vars state.Vars) (Ending, bool) {
	for _, e := range endings {
		if e.match(vars) {
			return e.ending, true
		}
	}
	return Ending{}, false
}

// DefaultMemoryHint is shown when no other hint applies.
const DefaultMemoryHint = "Quiet."

var memoryHints = []struct {
	text  string
	match func(v state.Vars) bool
}{
	{"The air feels crowded.", func(v state.Vars) bool { return v.Get(state.VarPressure) > 75 && v.Get(state.VarEntropy) > 65 }},
	{"Patterns are slipping.", func(v state.Vars) bool { return v.Get(state.VarEntropy) > 75 }},
	{"You feel alone in this.", func(v state.Vars) bool { return v.Get(state.VarTrust) < 25 }},
	{"Something is coming loose.", func(v state.Vars) bool { return v.Get(state.VarStability) < 30 }},
	{"Everything is too quiet.", func(v state.Vars) bool { return v.Get(state.VarStability) > 75 && v.Get(state.VarEntropy) < 20 }},
}

// MemoryHint turns the hidden variables into one vague sentence. It is the
// only place hidden state reaches the player outside of consequences.
func MemoryHint(vars state.Vars) string {
	for _, h := range memoryHints {
		if h.match(vars) {
			return h.text
		}
	}
	return DefaultMemoryHint
}
