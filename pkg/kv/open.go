package kv

import (
	"context"
	"errors"
	"fmt"

	pkgdb "github.com/unowned-ai/mimal/pkg/db"
	"github.com/unowned-ai/mimal/pkg/utils"
	"go.uber.org/zap"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Options selects and configures the medium Open returns.
type Options struct {
	Backend string

	// SQLite
	Path     string
	WAL      bool
	SyncMode string

	PostgresDSN string
	RedisURL    string

	Logger *zap.Logger
}

// Open returns the Store described by opts. An empty Backend means sqlite.
func Open(ctx context.Context, opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Backend {
	case "", BackendSQLite:
		path, err := utils.ResolveAndEnsureDBPath(opts.Path)
		if err != nil {
			return nil, err
		}
		conn, err := pkgdb.OpenDBConnection(path, opts.WAL, opts.SyncMode)
		if err != nil {
			return nil, err
		}
		if err := pkgdb.UpgradeDB(ctx, conn, path, pkgdb.TargetSchemaVersion, logger); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
		}
		logger.Debug("opened sqlite store", zap.String("path", path), zap.Bool("wal", opts.WAL), zap.String("sync", opts.SyncMode))
		return NewSQLite(conn), nil

	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, errors.New("postgres backend requires a DSN")
		}
		store, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened postgres store")
		return store, nil

	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, errors.New("redis backend requires a URL")
		}
		store, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened redis store")
		return store, nil

	case BackendMemory:
		logger.Warn("using in-memory store; nothing will be persisted")
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q (want sqlite, postgres, redis or memory)", opts.Backend)
	}
}
