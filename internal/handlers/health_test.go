package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jwebster45206/aftermath/pkg/storage"
)

type fixedCatalog int

func (c fixedCatalog) Len() int { return int(c) }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	tests := []struct {
		name              string
		pingError         error
		decisions         int
		expectedStatus    int
		expectedHealth    string
		expectedStorage   string
		expectedCatalog   string
		expectedDecisions int
	}{
		{
			name:              "all healthy",
			decisions:         2,
			expectedStatus:    http.StatusOK,
			expectedHealth:    "healthy",
			expectedStorage:   "healthy",
			expectedCatalog:   "loaded",
			expectedDecisions: 2,
		},
		{
			name:              "unhealthy storage",
			pingError:         errors.New("connection failed"),
			decisions:         2,
			expectedStatus:    http.StatusServiceUnavailable,
			expectedHealth:    "degraded",
			expectedStorage:   "unhealthy",
			expectedCatalog:   "loaded",
			expectedDecisions: 2,
		},
		{
			name:            "empty catalog",
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "healthy",
			expectedCatalog: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMockKeyValue()
			kv.SetPingError(tt.pingError)
			handler := NewHealthHandler(storage.NewStore(kv, logger), fixedCatalog(tt.decisions), logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status %q, got %q", tt.expectedHealth, response.Status)
			}
			if response.Components["storage"] != tt.expectedStorage {
				t.Errorf("Expected storage %q, got %q", tt.expectedStorage, response.Components["storage"])
			}
			if response.Components["catalog"] != tt.expectedCatalog {
				t.Errorf("Expected catalog %q, got %q", tt.expectedCatalog, response.Components["catalog"])
			}
			if response.Decisions != tt.expectedDecisions {
				t.Errorf("Expected %d decisions, got %d", tt.expectedDecisions, response.Decisions)
			}
			if response.Service != "aftermath" {
				t.Errorf("Expected service 'aftermath', got %q", response.Service)
			}
		})
	}
}
