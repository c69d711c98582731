package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// CatalogSizer reports how many decisions are loaded.
type CatalogSizer interface {
	Len() int
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Service    string            `json:"service"`
	Decisions  int               `json:"decisions"`
	Components map[string]string `json:"components"`
}

type HealthHandler struct {
	storage HealthChecker
	catalog CatalogSizer
	logger  *slog.Logger
}

func NewHealthHandler(storage HealthChecker, catalog CatalogSizer, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		catalog: catalog,
		logger:  logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string)
	overallStatus := "healthy"

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("Storage health check failed", "error", err)
		components["storage"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["storage"] = "healthy"
	}

	decisions := h.catalog.Len()
	if decisions == 0 {
		components["catalog"] = "empty"
		overallStatus = "degraded"
	} else {
		components["catalog"] = "loaded"
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "aftermath",
		Decisions:  decisions,
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
	}
}
