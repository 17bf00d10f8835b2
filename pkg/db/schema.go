package db

const (
	// SchemaV1 is version 1 of the notesdb component: a versions table and a
	// single key/value table holding one serialized collection per key.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS mimal_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS kv_items (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);
`
)
