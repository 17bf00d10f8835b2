// Package kv provides the durable string key/value medium the note store
// persists its collections into. Every backend replaces a key's value as a
// whole; there are no partial writes.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrQuotaExceeded is returned by Set when the medium has no room for the value.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store is a durable mapping from string keys to string values.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
