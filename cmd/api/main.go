package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/aftermath/internal/config"
	"github.com/jwebster45206/aftermath/internal/handlers"
	"github.com/jwebster45206/aftermath/internal/logger"
	"github.com/jwebster45206/aftermath/internal/middleware"
	internalstorage "github.com/jwebster45206/aftermath/internal/storage"
	"github.com/jwebster45206/aftermath/pkg/clock"
	"github.com/jwebster45206/aftermath/pkg/decision"
	"github.com/jwebster45206/aftermath/pkg/engine"
	"github.com/jwebster45206/aftermath/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Aftermath API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"catalog", cfg.CatalogPath,
		"timezone", cfg.Timezone)

	catalog, err := decision.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Error("Failed to load decision catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	log.Info("Decision catalog loaded", "decisions", catalog.Len())

	loc, err := cfg.Location()
	if err != nil {
		log.Error("Invalid timezone", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	kv, err := openKeyValue(storageCtx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(kv, log)
	log.Info("Storage connection established successfully")

	eng := engine.NewEngine(store, catalog, clock.NewSystem(loc), log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, catalog, log)
	mux.Handle("/health", healthHandler)

	playerHandler := handlers.NewPlayerHandler(eng, log)
	mux.Handle("/v1/players", playerHandler)
	mux.Handle("/v1/players/", playerHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

func openKeyValue(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.KeyValue, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		kv, err := internalstorage.NewRedisKeyValue(cfg.RedisURL, log)
		if err != nil {
			return nil, err
		}
		if err := kv.WaitForConnection(ctx, 30, 2*time.Second); err != nil {
			_ = kv.Close()
			return nil, err
		}
		return kv, nil
	case config.StorageSQLite:
		return internalstorage.OpenSQLiteKeyValue(cfg.SQLitePath, log)
	case config.StorageMemory:
		log.Warn("Using in-memory storage; state is lost on restart")
		return storage.NewMockKeyValue(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
