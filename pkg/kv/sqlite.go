package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	getItemStatement = `
	SELECT value
	FROM kv_items
	WHERE key = ?
	`

	setItemStatement = `
	INSERT INTO kv_items (key, value, updated_at)
	VALUES (?, ?, unixepoch())
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = unixepoch()
	`
)

// SQLite stores items in the kv_items table created by db.UpgradeDB.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// NewSQLite wraps an open connection whose schema is already initialized.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getItemStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, setItemStatement, key, value); err != nil {
		if strings.Contains(err.Error(), "database or disk is full") {
			return fmt.Errorf("failed to write key %q: %w: %v", key, ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Close checkpoints the WAL (if any) and closes the connection.
func (s *SQLite) Close() error {
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	// On a non-WAL database this is a harmless no-op.
	_, checkpointErr := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	closeErr := s.db.Close()
	if closeErr != nil {
		return closeErr
	}
	if checkpointErr != nil {
		return fmt.Errorf("wal checkpoint failed during close: %w", checkpointErr)
	}
	return nil
}
