package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest notesdb schema version this build understands.
	TargetSchemaVersion int64 = 1
	// NotesDBComponent names the note store component in mimal_versions.
	NotesDBComponent = "notesdb"
)

// GetComponentSchemaVersion returns the recorded schema version for componentName.
// A missing row or a missing mimal_versions table both report version 0.
func GetComponentSchemaVersion(ctx context.Context, db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRowContext(ctx, `SELECT version FROM mimal_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "mimal_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates the notesdb tables and records schemaVersionToSet for the component.
func InitializeSchema(ctx context.Context, db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.ExecContext(ctx, SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	const upsertVersion = `
INSERT INTO mimal_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.ExecContext(ctx, upsertVersion, NotesDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", NotesDBComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the notesdb component of db to appTargetSchemaVersion.
// dbIdentifierForLog only appears in log lines and error messages.
func UpgradeDB(ctx context.Context, db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("component", NotesDBComponent), zap.String("database", dbIdentifierForLog))

	currentDBVersion, err := GetComponentSchemaVersion(ctx, db, NotesDBComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		log.Info("initializing schema", zap.Int64("version", appTargetSchemaVersion))
		if err := InitializeSchema(ctx, db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", NotesDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		log.Debug("schema up to date", zap.Int64("version", currentDBVersion))
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", NotesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", NotesDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
