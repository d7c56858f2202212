package db

import (
	"context"
	"fmt"
)

const schemaTemplate = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	unit_id        TEXT,
	doc_type       TEXT NOT NULL DEFAULT 'lease',
	version        INTEGER NOT NULL DEFAULT 1,
	effective_from TIMESTAMPTZ,
	pages          INTEGER NOT NULL DEFAULT 0,
	size_kb        DOUBLE PRECISION NOT NULL DEFAULT 0,
	uploaded_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS fragments (
	id             TEXT PRIMARY KEY,
	doc_id         TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	file_name      TEXT NOT NULL,
	unit_id        TEXT,
	page           INTEGER NOT NULL,
	fragment_index INTEGER NOT NULL,
	content        TEXT NOT NULL,
	content_hash   TEXT NOT NULL,
	embedding      vector(%d),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS fragments_unit_idx ON fragments (unit_id);

CREATE TABLE IF NOT EXISTS tickets (
	id            BIGSERIAL PRIMARY KEY,
	unit_id       TEXT NOT NULL,
	category      TEXT NOT NULL,
	priority      TEXT NOT NULL,
	summary       TEXT NOT NULL,
	access_window TEXT NOT NULL DEFAULT '',
	reporter      TEXT NOT NULL DEFAULT '',
	assignee      TEXT NOT NULL DEFAULT '',
	eta           TIMESTAMPTZ,
	hazard_flag   INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT 'open',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	closed_at     TIMESTAMPTZ
);
`

// Migrate creates the schema if it does not exist. embeddingDim fixes the
// width of the fragment embedding column; changing it requires a manual
// ALTER or a reindex of all documents.
func (db *DB) Migrate(ctx context.Context, embeddingDim int) error {
	if embeddingDim <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim)
	}
	if _, err := db.pool.Exec(ctx, fmt.Sprintf(schemaTemplate, embeddingDim)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
