package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	createPostgresTableStatement = `
	CREATE TABLE IF NOT EXISTS kv_items (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

	getPostgresItemStatement = `SELECT value FROM kv_items WHERE key = $1`

	setPostgresItemStatement = `
	INSERT INTO kv_items (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
)

// pgDiskFull is the SQLSTATE class 53 code for insufficient storage.
const pgDiskFull = "53100"

// Postgres stores items in a kv_items table on a PostgreSQL server.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an open lib/pq connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres connects to dsn and makes sure the kv_items table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	store := NewPostgres(conn)
	if err := store.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the kv_items table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createPostgresTableStatement); err != nil {
		return fmt.Errorf("failed to create kv_items table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRowContext(ctx, getPostgresItemStatement, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if _, err := p.db.ExecContext(ctx, setPostgresItemStatement, key, value); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgDiskFull {
			return fmt.Errorf("failed to write key %q: %w: %v", key, ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
