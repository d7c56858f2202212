// Package vectorindex stores fragment embeddings in Postgres/pgvector and
// serves approximate nearest-neighbor queries over them.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/leasedesk/cli/internal/db"
)

// minCandidates is the floor on how many rows a query fetches before
// truncating to k, compensating for backends that filter after retrieval.
const minCandidates = 8

// Metadata identifies a fragment's source location.
type Metadata struct {
	DocID         string
	FileName      string
	UnitID        string
	Page          int
	FragmentIndex int
}

// Entry is the persisted unit of the index: one fragment, its embedding,
// its text and its source metadata. Entries upsert by fragment id.
type Entry struct {
	ID          string
	Embedding   []float32
	Text        string
	ContentHash string
	Meta        Metadata
}

// Result is one query hit, ordered by ascending distance (smaller is more
// similar). Results are ephemeral and never persisted.
type Result struct {
	Meta     Metadata
	Text     string
	Distance float64
}

// Filter restricts a query to entries whose metadata matches exactly.
// The zero value matches everything.
type Filter struct {
	UnitID string
}

// Index is a pgvector-backed fragment store. The handle is safe for
// concurrent use; the pool serializes conflicting writes to the same id.
type Index struct {
	pool *pgxpool.Pool
}

// New creates an index over the given database handle.
func New(database *db.DB) *Index {
	return &Index{pool: database.Pool()}
}

// Add upserts entries by fragment id, in the order given, and returns the
// number written. An empty batch is a no-op returning 0.
func (ix *Index) Add(ctx context.Context, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO fragments (id, doc_id, file_name, unit_id, page, fragment_index, content, content_hash, embedding)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)
			 ON CONFLICT (id) DO UPDATE SET
			   doc_id = EXCLUDED.doc_id,
			   file_name = EXCLUDED.file_name,
			   unit_id = EXCLUDED.unit_id,
			   page = EXCLUDED.page,
			   fragment_index = EXCLUDED.fragment_index,
			   content = EXCLUDED.content,
			   content_hash = EXCLUDED.content_hash,
			   embedding = EXCLUDED.embedding`,
			e.ID, e.Meta.DocID, e.Meta.FileName, e.Meta.UnitID, e.Meta.Page,
			e.Meta.FragmentIndex, e.Text, e.ContentHash, pgvector.NewVector(e.Embedding),
		)
	}

	br := ix.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(entries); i++ {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("%w: upsert fragment %d: %v", ErrUnavailable, i, err)
		}
	}
	return len(entries), nil
}

// Query returns up to k results ordered by ascending distance to the query
// vector, optionally restricted by filter. An empty index yields an empty
// result set, not an error. Ties keep the store's order.
func (ix *Index) Query(ctx context.Context, queryVec []float32, filter Filter, k int) ([]Result, error) {
	if k <= 0 {
		return nil, &ValidationError{Field: "k", Reason: "must be positive"}
	}
	if len(queryVec) == 0 {
		return nil, &ValidationError{Field: "query_vector", Reason: "must be non-empty"}
	}

	sql, args := buildQuery(filter, k)
	args = append([]any{pgvector.NewVector(queryVec)}, args...)

	rows, err := ix.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query fragments: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.Meta.DocID, &r.Meta.FileName, &r.Meta.UnitID,
			&r.Meta.Page, &r.Meta.FragmentIndex, &r.Text, &r.Distance,
		); err != nil {
			return nil, fmt.Errorf("%w: scan fragment: %v", ErrUnavailable, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate fragments: %v", ErrUnavailable, err)
	}

	return truncate(results, k), nil
}

// truncate drops over-fetched candidates beyond the requested k, keeping
// the distance order.
func truncate(results []Result, k int) []Result {
	if len(results) > k {
		return results[:k]
	}
	return results
}

// buildQuery assembles the candidate-fetch statement. The query vector is
// prepended as $1 by the caller; filter arguments follow it. The LIMIT
// over-fetches to at least minCandidates before Query truncates to k.
func buildQuery(filter Filter, k int) (string, []any) {
	limit := k
	if limit < minCandidates {
		limit = minCandidates
	}

	sql := `SELECT doc_id, file_name, COALESCE(unit_id, ''), page, fragment_index, content, embedding <=> $1 AS distance
		 FROM fragments
		 WHERE embedding IS NOT NULL`
	var args []any
	if filter.UnitID != "" {
		sql += ` AND unit_id = $2`
		args = append(args, filter.UnitID)
	}
	sql += fmt.Sprintf(` ORDER BY embedding <=> $1 LIMIT %d`, limit)
	return sql, args
}
