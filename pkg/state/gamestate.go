package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Canonical hidden variable names.
const (
	VarStability = "stability"
	VarPressure  = "pressure"
	VarTrust     = "trust"
	VarEntropy   = "entropy"
)

// CanonicalVars lists the hidden variables every GameState carries.
var CanonicalVars = []string{VarStability, VarPressure, VarTrust, VarEntropy}

const (
	VarMin = 0
	VarMax = 100
)

// DateKeyLayout is the layout of a DateKey ("YYYY-MM-DD").
const DateKeyLayout = "2006-01-02"

// DateKey identifies a calendar day. Keys are compared by equality only.
// The zero value means "no day" and is encoded as JSON null.
type DateKey string

// DateKeyOf returns the DateKey for t in t's location.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

func (d DateKey) IsZero() bool {
	return d == ""
}

func (d DateKey) String() string {
	return string(d)
}

func (d DateKey) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (d *DateKey) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date key: %w", err)
	}
	*d = DateKey(s)
	return nil
}

// TimelineEntry records one committed choice. Entries are never edited.
type TimelineEntry struct {
	Day    DateKey `json:"day"`
	Title  string  `json:"title"`
	Choice string  `json:"choice"`
	Result string  `json:"result"`
}

// GameState is the persisted state of one player.
type GameState struct {
	LastChoiceDay DateKey         `json:"lastChoiceDay"`
	Vars          Vars            `json:"vars"`
	History       []TimelineEntry `json:"history"`
}

// NewGameState returns a fresh GameState with the starting values.
// Every call returns an independent value.
func NewGameState() *GameState {
	return &GameState{
		Vars: Vars{
			VarStability: 55,
			VarPressure:  35,
			VarTrust:     45,
			VarEntropy:   40,
		},
		History: make([]TimelineEntry, 0),
	}
}

// Clone returns a deep copy of the game state.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := &GameState{
		LastChoiceDay: gs.LastChoiceDay,
		Vars:          gs.Vars.Clone(),
		History:       make([]TimelineEntry, len(gs.History)),
	}
	copy(c.History, gs.History)
	return c
}

// Validate reports whether the state is usable: every canonical variable is
// present and every variable lies in [VarMin, VarMax].
func (gs *GameState) Validate() error {
	if gs == nil {
		return fmt.Errorf("gamestate is nil")
	}
	if gs.Vars == nil {
		return fmt.Errorf("gamestate has no vars")
	}
	for _, name := range CanonicalVars {
		if _, ok := gs.Vars[name]; !ok {
			return fmt.Errorf("gamestate is missing var %q", name)
		}
	}
	for name, v := range gs.Vars {
		if v < VarMin || v > VarMax {
			return fmt.Errorf("gamestate var %q out of range: %d", name, v)
		}
	}
	return nil
}

// CanChooseToday reports whether a choice may still be committed on today.
func CanChooseToday(gs *GameState, today DateKey) bool {
	return gs.LastChoiceDay != today
}

// Commit records a committed choice for day: it sets LastChoiceDay and
// appends a timeline entry. Effects must already have been applied.
func (gs *GameState) Commit(day DateKey, title, choice, result string) TimelineEntry {
	entry := TimelineEntry{
		Day:    day,
		Title:  title,
		Choice: choice,
		Result: result,
	}
	gs.LastChoiceDay = day
	gs.History = append(gs.History, entry)
	return entry
}

// TimelineNewestFirst returns the history in reverse chronological order.
// The stored history is not modified.
func (gs *GameState) TimelineNewestFirst() []TimelineEntry {
	out := make([]TimelineEntry, len(gs.History))
	for i, e := range gs.History {
		out[len(gs.History)-1-i] = e
	}
	return out
}
