// Package db provides PostgreSQL storage for profiles, job corpora, match
// results, resumes and tailoring sessions.
package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/smart-applier/internal/store"
	"github.com/jonathan/smart-applier/internal/types"
)

//go:embed schema.sql
var schemaSQL string

var _ store.Store = (*DB)(nil)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates any missing tables and indexes
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

func storageError(message string, err error) error {
	return types.NewStageError(types.StageStorage, nil, message, err)
}

// limitArg maps a non-positive limit to NULL, which LIMIT treats as no limit
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
