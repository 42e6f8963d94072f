package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/smart-applier/internal/types"
)

// ListJobs returns jobs in insertion order, up to limit when limit > 0
func (db *DB) ListJobs(ctx context.Context, limit int) ([]types.JobRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, location, experience, skills, summary, url, posted_on, created_at
		 FROM scraped_jobs ORDER BY seq LIMIT $1`,
		limitArg(limit),
	)
	if err != nil {
		return nil, storageError("failed to list jobs", err)
	}
	defer rows.Close()

	jobs := []types.JobRecord{}
	for rows.Next() {
		var j types.JobRecord
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Experience,
			&j.Skills, &j.Summary, &j.URL, &j.PostedOn, &j.CreatedAt); err != nil {
			return nil, storageError("failed to scan job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to list jobs", err)
	}
	return jobs, nil
}

// SaveJobs appends jobs in a single batch, assigning ids and creation times
// to records without them
func (db *DB) SaveJobs(ctx context.Context, jobs []types.JobRecord) ([]types.JobRecord, error) {
	if len(jobs) == 0 {
		return []types.JobRecord{}, nil
	}
	now := time.Now()
	stored := make([]types.JobRecord, len(jobs))
	batch := &pgx.Batch{}
	for i, j := range jobs {
		if j.ID == "" {
			j.ID = uuid.New().String()
		}
		if j.CreatedAt.IsZero() {
			j.CreatedAt = now
		}
		stored[i] = j
		batch.Queue(
			`INSERT INTO scraped_jobs (id, title, company, location, experience, skills, summary, url, posted_on, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			j.ID, j.Title, j.Company, j.Location, j.Experience, j.Skills, j.Summary, j.URL, j.PostedOn, j.CreatedAt,
		)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	br := tx.SendBatch(ctx, batch)
	for range stored {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return nil, storageError("failed to insert job", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, storageError("failed to insert jobs", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageError("failed to commit jobs", err)
	}
	return stored, nil
}
