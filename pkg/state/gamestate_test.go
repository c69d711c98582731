package state

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameState_Defaults(t *testing.T) {
	gs := NewGameState()

	assert.True(t, gs.LastChoiceDay.IsZero())
	assert.Empty(t, gs.History)
	assert.NotNil(t, gs.History)
	assert.Equal(t, Vars{"stability": 55, "pressure": 35, "trust": 45, "entropy": 40}, gs.Vars)
	assert.NoError(t, gs.Validate())
}

func TestNewGameState_IndependentCopies(t *testing.T) {
	a := NewGameState()
	b := NewGameState()

	a.Vars.ApplyEffects(map[string]int{VarPressure: 50})
	a.Commit("2025-01-01", "t", "c", "r")

	assert.Equal(t, 35, b.Vars[VarPressure])
	assert.Empty(t, b.History)
}

func TestApplyEffects_Scenario(t *testing.T) {
	gs := NewGameState()
	gs.Vars.ApplyEffects(map[string]int{
		VarPressure:  6,
		VarTrust:     -2,
		VarEntropy:   -4,
		VarStability: 3,
	})

	assert.Equal(t, Vars{"stability": 58, "pressure": 41, "trust": 43, "entropy": 36}, gs.Vars)
}

func TestApplyEffects_Clamps(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		delta    int
		expected int
	}{
		{"above max", 95, 20, 100},
		{"below min", 3, -10, 0},
		{"exact max", 90, 10, 100},
		{"exact min", 10, -10, 0},
		{"in range", 50, 7, 57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Vars{VarTrust: tt.start}
			v.ApplyEffects(map[string]int{VarTrust: tt.delta})
			assert.Equal(t, tt.expected, v[VarTrust])
		})
	}
}

func TestApplyEffects_UnknownKey(t *testing.T) {
	v := NewGameState().Vars
	v.ApplyEffects(map[string]int{"control": 140})

	assert.Equal(t, 100, v["control"])
	assert.Equal(t, 55, v[VarStability])
}

func TestApplyEffects_StaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	v := NewGameState().Vars

	for i := 0; i < 2000; i++ {
		effects := map[string]int{}
		for _, name := range CanonicalVars {
			effects[name] = rng.IntN(81) - 40
		}
		v.ApplyEffects(effects)
		for _, name := range CanonicalVars {
			require.GreaterOrEqual(t, v[name], VarMin, "iteration %d var %s", i, name)
			require.LessOrEqual(t, v[name], VarMax, "iteration %d var %s", i, name)
		}
	}
}

func TestCanChooseToday(t *testing.T) {
	gs := NewGameState()
	assert.True(t, CanChooseToday(gs, "2025-03-01"), "fresh state is unlocked")

	gs.Commit("2025-03-01", "A message arrives with no sender.", "Ignore it completely.", "Quiet.")

	assert.False(t, CanChooseToday(gs, "2025-03-01"))
	assert.True(t, CanChooseToday(gs, "2025-03-02"))
	assert.True(t, CanChooseToday(gs, "2025-02-28"))
}

func TestCommit_AppendsChronologically(t *testing.T) {
	gs := NewGameState()
	gs.Commit("2025-03-01", "one", "a", "r1")
	entry := gs.Commit("2025-03-02", "two", "b", "r2")

	assert.Equal(t, DateKey("2025-03-02"), gs.LastChoiceDay)
	assert.Equal(t, TimelineEntry{Day: "2025-03-02", Title: "two", Choice: "b", Result: "r2"}, entry)
	require.Len(t, gs.History, 2)
	assert.Equal(t, "one", gs.History[0].Title)
	assert.Equal(t, "two", gs.History[1].Title)

	newest := gs.TimelineNewestFirst()
	assert.Equal(t, "two", newest[0].Title)
	assert.Equal(t, "one", gs.History[0].Title, "stored history is untouched")
}

func TestGameState_JSONSchema(t *testing.T) {
	gs := NewGameState()
	data, err := json.Marshal(gs)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"lastChoiceDay": null,
		"vars": {"stability": 55, "pressure": 35, "trust": 45, "entropy": 40},
		"history": []
	}`, string(data))

	gs.Commit("2025-04-09", "Someone offers you a spare key.", "Accept the key.", "The key feels colder than expected.")
	data, err = json.Marshal(gs)
	require.NoError(t, err)

	var decoded GameState
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *gs, decoded)
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	assert.Equal(t, DateKey("2025-12-31"), DateKeyOf(time.Date(2025, 12, 31, 23, 59, 0, 0, loc)))

	var d DateKey
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-02"`), &d))
	assert.Equal(t, "2025-01-02", d.String())
	assert.Error(t, json.Unmarshal([]byte(`12`), &d))
}

func TestGameState_Validate(t *testing.T) {
	var nilState *GameState
	assert.Error(t, nilState.Validate())
	assert.Error(t, (&GameState{}).Validate())
	assert.Error(t, (&GameState{Vars: Vars{VarTrust: 1}}).Validate())
	assert.NoError(t, NewGameState().Validate())

	high := NewGameState()
	high.Vars[VarPressure] = 500
	assert.ErrorContains(t, high.Validate(), "out of range")

	low := NewGameState()
	low.Vars[VarTrust] = -40
	assert.Error(t, low.Validate())

	extra := NewGameState()
	extra.Vars["control"] = 101
	assert.Error(t, extra.Validate())

	edges := NewGameState()
	edges.Vars[VarStability] = VarMin
	edges.Vars[VarEntropy] = VarMax
	assert.NoError(t, edges.Validate())
}

func TestGameState_Clone(t *testing.T) {
	gs := NewGameState()
	gs.Commit("2025-01-01", "t", "c", "r")
	c := gs.Clone()

	c.Vars.ApplyEffects(map[string]int{VarEntropy: 10})
	c.Commit("2025-01-02", "t2", "c2", "r2")

	assert.Equal(t, 40, gs.Vars[VarEntropy])
	assert.Len(t, gs.History, 1)
	assert.Len(t, c.History, 2)
}
