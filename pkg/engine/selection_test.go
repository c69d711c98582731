package engine

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/jwebster45206/aftermath/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectionCatalog() []decision.Decision {
	return []decision.Decision{
		{ID: "signal", Tags: []string{"trust", "entropy", "control"}, Choices: []decision.Choice{{Text: "a"}}},
		{ID: "key", Tags: []string{"control", "stability", "trust"}, Choices: []decision.Choice{{Text: "b"}}},
		{ID: "storm", Tags: []string{"pressure", "entropy"}, Choices: []decision.Choice{{Text: "c"}}},
		{ID: "plain", Choices: []decision.Choice{{Text: "d"}}},
	}
}

func varsWith(stability, pressure, trust, entropy int) state.Vars {
	return state.Vars{
		state.VarStability: stability,
		state.VarPressure:  pressure,
		state.VarTrust:     trust,
		state.VarEntropy:   entropy,
	}
}

func TestWeight(t *testing.T) {
	catalog := selectionCatalog()
	defaults := state.NewGameState().Vars

	assert.InDelta(t, 10-5.0/7-10.0/6, Weight(catalog[0], defaults), 1e-9)
	assert.InDelta(t, 10.0, Weight(catalog[1], defaults), 1e-9, "stability and trust offsets cancel")
	assert.InDelta(t, 10-15.0/6-10.0/6, Weight(catalog[2], defaults), 1e-9)
	assert.Equal(t, 10.0, Weight(catalog[3], defaults), "untagged decisions keep the base weight")
}

func TestWeight_ClampsToOne(t *testing.T) {
	storm := selectionCatalog()[2]
	assert.Equal(t, 1.0, Weight(storm, varsWith(50, 0, 50, 0)))

	high := Weight(storm, varsWith(50, 100, 50, 100))
	assert.InDelta(t, 10+50.0/6+50.0/6, high, 1e-9)
}

func TestChooseDecision_WalksCatalogInOrder(t *testing.T) {
	gs := &state.GameState{Vars: varsWith(50, 50, 50, 50)} // every weight is 10
	catalog := selectionCatalog()

	tests := []struct {
		r        float64
		expected string
	}{
		{0, "signal"},
		{0.25, "signal"}, // r == 10, boundary belongs to the first decision
		{0.2501, "key"},
		{0.5, "key"},
		{0.74, "storm"},
		{0.99, "plain"},
	}

	for _, tt := range tests {
		d, err := ChooseDecision(gs, catalog, FixedRandomSource(tt.r))
		require.NoError(t, err)
		assert.Equal(t, tt.expected, d.ID, "r=%v", tt.r)
	}
}

func TestChooseDecision_FallsBackToFirst(t *testing.T) {
	gs := state.NewGameState()
	d, err := ChooseDecision(gs, selectionCatalog(), func() float64 { return 1.5 })
	require.NoError(t, err)
	assert.Equal(t, "signal", d.ID)

	d, err = ChooseDecision(gs, selectionCatalog(), func() float64 { return math.NaN() })
	require.NoError(t, err)
	assert.Equal(t, "signal", d.ID)
}

func TestChooseDecision_EmptyCatalog(t *testing.T) {
	_, err := ChooseDecision(state.NewGameState(), nil, FixedRandomSource(0.5))
	assert.ErrorIs(t, err, decision.ErrEmptyCatalog)
}

func TestChooseDecision_DrawsOnce(t *testing.T) {
	calls := 0
	rnd := func() float64 {
		calls++
		return 0.3
	}
	_, err := ChooseDecision(state.NewGameState(), selectionCatalog(), rnd)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestChooseDecision_AlwaysReturnsCatalogMember(t *testing.T) {
	catalog := selectionCatalog()
	ids := map[string]bool{}
	for _, d := range catalog {
		ids[d.ID] = true
	}

	extremes := []int{0, 100}
	rnd := NewRandomSource(42)
	for _, s := range extremes {
		for _, p := range extremes {
			for _, tr := range extremes {
				for _, e := range extremes {
					gs := &state.GameState{Vars: varsWith(s, p, tr, e)}
					for i := 0; i < 50; i++ {
						d, err := ChooseDecision(gs, catalog, rnd)
						require.NoError(t, err)
						require.True(t, ids[d.ID], "unexpected decision %q", d.ID)
					}
				}
			}
		}
	}
}

func TestChooseDecision_BiasFollowsVars(t *testing.T) {
	catalog := []decision.Decision{
		{ID: "calm", Choices: []decision.Choice{{Text: "a"}}},
		{ID: "storm", Tags: []string{"pressure"}, Choices: []decision.Choice{{Text: "b"}}},
	}
	rnd := NewRandomSource(7)

	count := func(pressure int) int {
		gs := &state.GameState{Vars: varsWith(50, pressure, 50, 50)}
		n := 0
		for i := 0; i < 4000; i++ {
			d, err := ChooseDecision(gs, catalog, rnd)
			require.NoError(t, err)
			if d.ID == "storm" {
				n++
			}
		}
		return n
	}

	low, high := count(0), count(100)
	// Expected shares: 1.667/11.667 (~14%) vs 18.333/28.333 (~65%).
	assert.Less(t, low, 1000)
	assert.Greater(t, high, 2200)
}

func TestDailyRandomSource_Deterministic(t *testing.T) {
	player := uuid.MustParse("5b8f2a52-3f0e-4a59-9f65-3a1e2b7d0c11")

	a := DailyRandomSource(player, "2025-02-01")
	b := DailyRandomSource(player, "2025-02-01")
	for i := 0; i < 5; i++ {
		assert.Equal(t, a(), b())
	}

	c := DailyRandomSource(player, "2025-02-02")
	d := DailyRandomSource(player, "2025-02-01")
	assert.NotEqual(t, c(), d())

	v := DailyRandomSource(uuid.New(), "2025-02-01")()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}

func TestFixedRandomSource(t *testing.T) {
	rnd := FixedRandomSource(0.1, 0.2)
	assert.Equal(t, 0.1, rnd())
	assert.Equal(t, 0.2, rnd())
	assert.Equal(t, 0.2, rnd())
	assert.Equal(t, 0.0, FixedRandomSource()())
}
