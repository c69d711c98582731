package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/aftermath/pkg/storage"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteKeyValue implements storage.KeyValue on a single SQLite table.
type SQLiteKeyValue struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteKeyValue implements KeyValue interface
var _ storage.KeyValue = (*SQLiteKeyValue)(nil)

// OpenSQLiteKeyValue opens (or creates) the database at path.
func OpenSQLiteKeyValue(path string, logger *slog.Logger) (*SQLiteKeyValue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("SQLite store opened", "path", path)
	return &SQLiteKeyValue{db: db, logger: logger}, nil
}

func (s *SQLiteKeyValue) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteKeyValue) Close() error {
	return s.db.Close()
}

func (s *SQLiteKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("SQLite get failed", "key", key, "error", err)
		return "", false, fmt.Errorf("sqlite get failed: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteKeyValue) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Error("SQLite set failed", "key", key, "error", err)
		return fmt.Errorf("sqlite set failed: %w", err)
	}
	return nil
}
