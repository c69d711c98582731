package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/internal/handlers"
	"github.com/jwebster45206/aftermath/pkg/engine"
)

var errAlreadyChosen = errors.New("already chosen today")

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// readResponse decodes a successful body into out, or turns an error body
// into a Go error.
func readResponse(resp *http.Response, wantStatus int, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		if resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %s", errAlreadyChosen, errorResp.Error)
		}
		return errors.New(errorResp.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func createPlayer(client *http.Client, baseURL string) (uuid.UUID, error) {
	resp, err := client.Post(baseURL+"/v1/players", "application/json", nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var created handlers.CreatePlayerResponse
	if err := readResponse(resp, http.StatusCreated, &created); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create player: %w", err)
	}
	return created.PlayerID, nil
}

func getToday(client *http.Client, baseURL string, playerID uuid.UUID) (*engine.DailyView, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/players/%s/today", baseURL, playerID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var view engine.DailyView
	if err := readResponse(resp, http.StatusOK, &view); err != nil {
		return nil, fmt.Errorf("failed to get today: %w", err)
	}
	return &view, nil
}

func postChoice(client *http.Client, baseURL string, playerID uuid.UUID, decisionID string, choiceIndex int) (*engine.Outcome, error) {
	jsonData, err := json.Marshal(handlers.ChoiceRequest{
		DecisionID:  decisionID,
		ChoiceIndex: &choiceIndex,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/players/%s/choice", baseURL, playerID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	var outcome engine.Outcome
	if err := readResponse(resp, http.StatusOK, &outcome); err != nil {
		return nil, fmt.Errorf("choice failed: %w", err)
	}
	return &outcome, nil
}

// resolvePlayerID returns the configured player, the one remembered in the
// player file, or a newly created one which is then remembered.
func resolvePlayerID(client *http.Client, cfg *ConsoleConfig) (uuid.UUID, error) {
	if cfg.PlayerID != "" {
		id, err := uuid.Parse(cfg.PlayerID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid PLAYER_ID: %w", err)
		}
		return id, nil
	}

	if cfg.PlayerFile != "" {
		if data, err := os.ReadFile(cfg.PlayerFile); err == nil {
			if id, err := uuid.Parse(strings.TrimSpace(string(data))); err == nil {
				return id, nil
			}
		}
	}

	id, err := createPlayer(client, cfg.APIBaseURL)
	if err != nil {
		return uuid.Nil, err
	}

	if cfg.PlayerFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.PlayerFile), 0o755); err == nil {
			_ = os.WriteFile(cfg.PlayerFile, []byte(id.String()+"\n"), 0o600)
		}
	}
	return id, nil
}
