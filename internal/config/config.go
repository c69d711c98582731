package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Port           string     `env:"PORT" envDefault:"8080"`
	Environment    string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName   string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel       slog.Level `env:"-"`
	StorageBackend string     `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisURL       string     `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath     string     `env:"SQLITE_PATH" envDefault:"./data/aftermath.db"`
	CatalogPath    string     `env:"CATALOG_PATH" envDefault:"./data/decisions.json"`
	Timezone       string     `env:"TIMEZONE" envDefault:"Local"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	switch cfg.StorageBackend {
	case StorageRedis, StorageSQLite, StorageMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (supported: redis, sqlite, memory)", cfg.StorageBackend)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the time zone that defines a player's day.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
