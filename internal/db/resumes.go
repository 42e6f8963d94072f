package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/smart-applier/internal/types"
)

// SaveResume inserts or replaces a resume
func (db *DB) SaveResume(ctx context.Context, resume *types.Resume) error {
	if resume == nil || resume.ID == "" {
		return types.InvalidInput("resume id is required")
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (id, user_id, job_title, format, coverage, content, blob_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE
		 SET user_id = $2, job_title = $3, format = $4, coverage = $5, content = $6, blob_key = $7`,
		resume.ID, resume.UserID, resume.JobTitle, resume.Format, resume.Coverage,
		resume.Content, resume.BlobKey, resume.CreatedAt,
	)
	if err != nil {
		return storageError("failed to save resume", err)
	}
	return nil
}

// GetResume retrieves a resume by id, or nil if not found
func (db *DB) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	var r types.Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_title, format, coverage, content, blob_key, created_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.JobTitle, &r.Format, &r.Coverage, &r.Content, &r.BlobKey, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("failed to get resume", err)
	}
	return &r, nil
}

// ListResumes returns the newest resumes first, optionally for one user
func (db *DB) ListResumes(ctx context.Context, userID string, limit int) ([]types.ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_title, format, coverage, created_at
		 FROM resumes
		 WHERE ($1 = '' OR user_id = $1)
		 ORDER BY created_at DESC, seq DESC LIMIT $2`,
		userID, limitArg(limit),
	)
	if err != nil {
		return nil, storageError("failed to list resumes", err)
	}
	defer rows.Close()

	out := []types.ResumeSummary{}
	for rows.Next() {
		var s types.ResumeSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.JobTitle, &s.Format, &s.Coverage, &s.CreatedAt); err != nil {
			return nil, storageError("failed to scan resume", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to list resumes", err)
	}
	return out, nil
}
