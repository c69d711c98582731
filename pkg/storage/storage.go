package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/pkg/state"
)

// StoreKey prefixes every persisted game state key.
const StoreKey = "aftermath_state_v1"

// KeyValue is the backend the state store persists through.
type KeyValue interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Get returns the value at key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value at key.
	Set(ctx context.Context, key string, value string) error
}

// Store loads and saves game states through a KeyValue backend.
type Store struct {
	kv     KeyValue
	logger *slog.Logger
}

// NewStore creates a state store over kv.
func NewStore(kv KeyValue, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
	}
}

// Key returns the backend key for a player.
func Key(playerID uuid.UUID) string {
	return StoreKey + ":" + playerID.String()
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// Load returns the player's game state. A missing, malformed or incomplete
// record yields a fresh default state; only backend failures are errors.
func (s *Store) Load(ctx context.Context, playerID uuid.UUID) (*state.GameState, error) {
	data, found, err := s.kv.Get(ctx, Key(playerID))
	if err != nil {
		s.logger.Error("Failed to load gamestate", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to load gamestate: %w", err)
	}
	if !found || data == "" {
		s.logger.Debug("Gamestate not found, using defaults", "player_id", playerID)
		return state.NewGameState(), nil
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		s.logger.Warn("Corrupt gamestate, using defaults", "player_id", playerID, "error", err)
		return state.NewGameState(), nil
	}
	if err := gs.Validate(); err != nil {
		s.logger.Warn("Incomplete gamestate, using defaults", "player_id", playerID, "error", err)
		return state.NewGameState(), nil
	}
	if gs.History == nil {
		gs.History = make([]state.TimelineEntry, 0)
	}

	return &gs, nil
}

// Save overwrites the player's persisted game state.
func (s *Store) Save(ctx context.Context, playerID uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("gamestate cannot be nil")
	}

	data, err := json.Marshal(gs)
	if err != nil {
		s.logger.Error("Failed to marshal gamestate", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to marshal gamestate: %w", err)
	}

	if err := s.kv.Set(ctx, Key(playerID), string(data)); err != nil {
		s.logger.Error("Failed to save gamestate", "player_id", playerID, "error", err)
		return fmt.Errorf("failed to save gamestate: %w", err)
	}

	return nil
}
