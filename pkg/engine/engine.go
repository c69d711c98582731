// Package engine runs the daily decision cycle: it selects the day's
// decision, applies a committed choice to the hidden variables, resolves the
// narrative consequence and reports endings.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/pkg/clock"
	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/jwebster45206/aftermath/pkg/state"
)

var (
	ErrAlreadyChosen   = errors.New("a choice was already made today")
	ErrUnknownDecision = errors.New("unknown decision")
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrNotOffered      = errors.New("decision is not offered today")
)

// StateStore persists game states per player.
type StateStore interface {
	Load(ctx context.Context, playerID uuid.UUID) (*state.GameState, error)
	Save(ctx context.Context, playerID uuid.UUID, gs *state.GameState) error
}

// DecisionCard is the player-facing view of a decision. Effects and
// consequences stay hidden.
type DecisionCard struct {
	ID      string   `json:"id"`
	Kicker  string   `json:"kicker"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Choices []string `json:"choices"`
}

func NewDecisionCard(d decision.Decision) *DecisionCard {
	card := &DecisionCard{
		ID:      d.ID,
		Kicker:  d.Kicker,
		Title:   d.Title,
		Body:    d.Body,
		Choices: make([]string, len(d.Choices)),
	}
	for i, c := range d.Choices {
		card.Choices[i] = c.Text
	}
	return card
}

// DailyView is everything a client shows for a player's day.
type DailyView struct {
	Day        state.DateKey         `json:"day"`
	Locked     bool                  `json:"locked"`
	MemoryHint string                `json:"memory_hint"`
	Decision   *DecisionCard         `json:"decision,omitempty"` // nil when locked
	NextDay    time.Time             `json:"next_day"`
	Ending     *Ending               `json:"ending,omitempty"`
	Timeline   []state.TimelineEntry `json:"timeline"` // newest first
}

// Outcome is the result of committing a choice.
type Outcome struct {
	Entry      state.TimelineEntry `json:"entry"`
	Tier       decision.Tier       `json:"-"`
	MemoryHint string              `json:"memory_hint"`
	NextDay    time.Time           `json:"next_day"`
	Ending     *Ending             `json:"ending,omitempty"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandomFactory replaces the per-day random source.
func WithRandomFactory(f RandomFactory) Option {
	return func(e *Engine) {
		e.random = f
	}
}

// Engine runs the decision cycle for any number of players. The catalog is
// shared read-only.
type Engine struct {
	store   StateStore
	catalog *decision.Catalog
	clock   clock.Clock
	random  RandomFactory
	logger  *slog.Logger

	// Striped per-player locks serialize read-modify-write cycles in process.
	locks [64]sync.Mutex
}

// NewEngine creates an engine. Selection uses DailyRandomSource unless
// overridden.
func NewEngine(store StateStore, catalog *decision.Catalog, clk clock.Clock, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		catalog: catalog,
		clock:   clk,
		random:  DailyRandomSource,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) lock(playerID uuid.UUID) func() {
	mu := &e.locks[int(playerID[15])%len(e.locks)]
	mu.Lock()
	return mu.Unlock
}

// NewPlayer persists a default game state under a new player id.
func (e *Engine) NewPlayer(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	if err := e.store.Save(ctx, id, state.NewGameState()); err != nil {
		return uuid.Nil, err
	}
	e.logger.Info("Player created", "player_id", id)
	return id, nil
}

// Today builds the player's view of the current day.
func (e *Engine) Today(ctx context.Context, playerID uuid.UUID) (*DailyView, error) {
	gs, err := e.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	today := e.clock.Today()
	view := &DailyView{
		Day:        today,
		Locked:     !state.CanChooseToday(gs, today),
		MemoryHint: MemoryHint(gs.Vars),
		NextDay:    e.clock.NextDay(),
		Timeline:   gs.TimelineNewestFirst(),
	}

	if !view.Locked {
		d, err := e.offered(gs, playerID, today)
		if err != nil {
			return nil, err
		}
		view.Decision = NewDecisionCard(d)
	}

	if ending, ok := CheckEnding(gs.Vars); ok {
		view.Ending = &ending
	}

	return view, nil
}

// offered recomputes the decision selected for the player's day. The state
// must be the one loaded before today's choice.
func (e *Engine) offered(gs *state.GameState, playerID uuid.UUID, today state.DateKey) (decision.Decision, error) {
	d, err := ChooseDecision(gs, e.catalog.Decisions(), e.random(playerID, today))
	if err != nil {
		return decision.Decision{}, fmt.Errorf("failed to choose decision: %w", err)
	}
	return d, nil
}

// Choose commits the player's pick for today. Only the decision offered by
// Today is accepted. Effects are applied, the
// consequence is resolved against the updated state and the entry is
// appended before the state is saved.
func (e *Engine) Choose(ctx context.Context, playerID uuid.UUID, decisionID string, choiceIndex int) (*Outcome, error) {
	unlock := e.lock(playerID)
	defer unlock()

	gs, err := e.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}

	today := e.clock.Today()
	if !state.CanChooseToday(gs, today) {
		return nil, ErrAlreadyChosen
	}

	d, ok := e.catalog.Get(decisionID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDecision, decisionID)
	}
	offered, err := e.offered(gs, playerID, today)
	if err != nil {
		return nil, err
	}
	if offered.ID != d.ID {
		return nil, fmt.Errorf("%w: %q (today is %q)", ErrNotOffered, decisionID, offered.ID)
	}
	choice, ok := d.Choice(choiceIndex)
	if !ok {
		return nil, fmt.Errorf("%w: decision %q has no choice %d", ErrInvalidChoice, decisionID, choiceIndex)
	}

	gs.Vars.ApplyEffects(choice.Effects)
	tier := ConsequenceLevel(gs)
	result := choice.ResolveText(tier)
	entry := gs.Commit(today, d.Title, choice.Text, result)

	if err := e.store.Save(ctx, playerID, gs); err != nil {
		return nil, err
	}

	out := &Outcome{
		Entry:      entry,
		Tier:       tier,
		MemoryHint: MemoryHint(gs.Vars),
		NextDay:    e.clock.NextDay(),
	}
	if ending, ok := CheckEnding(gs.Vars); ok {
		out.Ending = &ending
		e.logger.Info("Ending reached", "player_id", playerID, "ending", ending.Kind)
	}

	e.logger.Info("Choice committed",
		"player_id", playerID,
		"day", today,
		"decision_id", d.ID,
		"choice_index", choiceIndex,
		"tier", tier,
		"history_length", len(gs.History))

	return out, nil
}

// Timeline returns the player's history, newest first.
func (e *Engine) Timeline(ctx context.Context, playerID uuid.UUID) ([]state.TimelineEntry, error) {
	gs, err := e.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return gs.TimelineNewestFirst(), nil
}
