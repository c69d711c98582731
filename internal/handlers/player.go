package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/internal/logger"
	"github.com/jwebster45206/aftermath/pkg/engine"
	"github.com/jwebster45206/aftermath/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// DailyEngine is the engine surface the player endpoints need.
type DailyEngine interface {
	NewPlayer(ctx context.Context) (uuid.UUID, error)
	Today(ctx context.Context, playerID uuid.UUID) (*engine.DailyView, error)
	Choose(ctx context.Context, playerID uuid.UUID, decisionID string, choiceIndex int) (*engine.Outcome, error)
	Timeline(ctx context.Context, playerID uuid.UUID) ([]state.TimelineEntry, error)
}

// CreatePlayerResponse is returned by POST /v1/players
type CreatePlayerResponse struct {
	PlayerID uuid.UUID `json:"player_id"`
}

// ChoiceRequest defines the request body for committing today's choice
type ChoiceRequest struct {
	DecisionID  string `json:"decision_id"`
	ChoiceIndex *int   `json:"choice_index"`
}

// TimelineResponse is returned by GET /v1/players/{id}/timeline
type TimelineResponse struct {
	Timeline []state.TimelineEntry `json:"timeline"`
}

type PlayerHandler struct {
	engine DailyEngine
	logger *slog.Logger
}

func NewPlayerHandler(eng DailyEngine, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		engine: eng,
		logger: logger,
	}
}

// ServeHTTP handles HTTP requests for player operations
// Routes:
// POST /v1/players               - Create a player with a fresh state
// GET  /v1/players/{id}/today    - Today's view: hint, lock, decision, ending
// POST /v1/players/{id}/choice   - Commit today's choice
// GET  /v1/players/{id}/timeline - History, newest first
func (h *PlayerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/players"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	playerID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid player ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid player ID format")
		return
	}

	switch {
	case parts[1] == "today" && r.Method == http.MethodGet:
		h.handleToday(w, r, playerID)
	case parts[1] == "choice" && r.Method == http.MethodPost:
		h.handleChoice(w, r, playerID)
	case parts[1] == "timeline" && r.Method == http.MethodGet:
		h.handleTimeline(w, r, playerID)
	case parts[1] == "today" || parts[1] == "choice" || parts[1] == "timeline":
		h.logger.Warn("Method not allowed for player endpoint", "method", r.Method, "path", r.URL.Path)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		h.writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *PlayerHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, err := h.engine.NewPlayer(r.Context())
	if err != nil {
		h.logger.Error("Failed to create player", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create player")
		return
	}

	h.writeJSON(w, http.StatusCreated, CreatePlayerResponse{PlayerID: id})
}

func (h *PlayerHandler) handleToday(w http.ResponseWriter, r *http.Request, playerID uuid.UUID) {
	view, err := h.engine.Today(r.Context(), playerID)
	if err != nil {
		logger.WithPlayerID(h.logger, playerID.String()).Error("Failed to build daily view", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load today's decision")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

func (h *PlayerHandler) handleChoice(w http.ResponseWriter, r *http.Request, playerID uuid.UUID) {
	log := logger.WithPlayerID(h.logger, playerID.String())

	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.DecisionID == "" || req.ChoiceIndex == nil {
		h.writeError(w, http.StatusBadRequest, "decision_id and choice_index are required")
		return
	}

	out, err := h.engine.Choose(r.Context(), playerID, req.DecisionID, *req.ChoiceIndex)
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, out)
	case errors.Is(err, engine.ErrAlreadyChosen):
		h.writeError(w, http.StatusConflict, "A choice was already made today. Come back tomorrow.")
	case errors.Is(err, engine.ErrUnknownDecision):
		h.writeError(w, http.StatusNotFound, "Decision not found")
	case errors.Is(err, engine.ErrNotOffered):
		h.writeError(w, http.StatusBadRequest, "Decision is not offered today")
	case errors.Is(err, engine.ErrInvalidChoice):
		h.writeError(w, http.StatusBadRequest, "Invalid choice_index")
	default:
		log.Error("Failed to commit choice", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to commit choice")
	}
}

func (h *PlayerHandler) handleTimeline(w http.ResponseWriter, r *http.Request, playerID uuid.UUID) {
	timeline, err := h.engine.Timeline(r.Context(), playerID)
	if err != nil {
		logger.WithPlayerID(h.logger, playerID.String()).Error("Failed to load timeline", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load timeline")
		return
	}

	h.writeJSON(w, http.StatusOK, TimelineResponse{Timeline: timeline})
}

func (h *PlayerHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *PlayerHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}
