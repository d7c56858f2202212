package db

import (
	"context"
	"fmt"
)

// CreateDocument inserts a new document record. Version is assigned by the
// caller (see NextVersion); the record is never updated afterwards.
func (db *DB) CreateDocument(ctx context.Context, doc *Document) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO documents (id, name, unit_id, doc_type, version, effective_from, pages, size_kb, uploaded_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.Name, doc.UnitID, doc.DocType, doc.Version,
		doc.EffectiveFrom, doc.Pages, doc.SizeKB, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// NextVersion returns the version number a re-upload of name+unit should
// carry: one past the highest existing version, or 1 for a new document.
func (db *DB) NextVersion(ctx context.Context, name, unitID string) (int, error) {
	var maxVersion int
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM documents
		 WHERE name = $1 AND unit_id IS NOT DISTINCT FROM NULLIF($2, '')`,
		name, unitID,
	).Scan(&maxVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to look up document version: %w", err)
	}
	return maxVersion + 1, nil
}

// GetAllDocuments retrieves all documents, newest upload first.
func (db *DB) GetAllDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, COALESCE(unit_id, ''), doc_type, version, effective_from, pages, size_kb, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID, &doc.Name, &doc.UnitID, &doc.DocType, &doc.Version,
			&doc.EffectiveFrom, &doc.Pages, &doc.SizeKB, &doc.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}
