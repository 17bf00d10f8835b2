package main

import (
	"context"
	"fmt"
	"time"

	"github.com/unowned-ai/mimal/pkg/kv"
	"github.com/unowned-ai/mimal/pkg/notes"
	"github.com/unowned-ai/mimal/pkg/utils"
)

// openStore opens the configured medium and a notes.Store over it. The caller closes the medium.
func openStore(ctx context.Context) (*notes.Store, kv.Store, error) {
	loc, err := displayLocation()
	if err != nil {
		return nil, nil, err
	}

	medium, err := kv.Open(ctx, kv.Options{
		Backend:     backend,
		Path:        dbPath,
		WAL:         walMode,
		SyncMode:    syncMode,
		PostgresDSN: postgresDSN,
		RedisURL:    redisURL,
		Logger:      log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", backendName(), err)
	}

	store := notes.NewStore(medium,
		notes.WithLogger(log),
		notes.WithLocation(loc),
		notes.WithKeyPrefix(keyPrefix),
	)
	return store, medium, nil
}

// displayLocation resolves --tz; empty means the local zone.
func displayLocation() (*time.Location, error) {
	if timeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", timeZone, err)
	}
	return loc, nil
}

func backendName() string {
	if backend == "" {
		return kv.BackendSQLite
	}
	return backend
}

// storageLabel describes where notes live, for status output.
func storageLabel() string {
	switch backendName() {
	case kv.BackendSQLite:
		if dbPath == "" {
			return utils.GetDefaultDBPathOnly()
		}
		return dbPath
	default:
		return backendName()
	}
}

// formatTimestamp renders t in the --tz zone.
func formatTimestamp(t time.Time) string {
	loc, err := displayLocation()
	if err != nil {
		loc = time.Local
	}
	return t.In(loc).Format(time.RFC3339)
}
