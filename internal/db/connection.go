package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared handle to the Postgres pool behind the document
// registry, the fragment index and the ticket store.
type DB struct {
	pool *pgxpool.Pool
}

// New opens a pool against connString and verifies the server is reachable
// before returning. One pool serves the relational tables and the pgvector
// queries; the workload is a single interactive session whose only bursts
// are the batched fragment upserts during ingestion, so the pool stays
// small.
func New(ctx context.Context, connString string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Pool exposes the underlying pool for callers that run their own SQL.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close releases all pooled connections.
func (db *DB) Close() {
	db.pool.Close()
}
