package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/smart-applier/internal/types"
)

// SaveMatches inserts match records using COPY
func (db *DB) SaveMatches(ctx context.Context, records []types.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := db.pool.CopyFrom(ctx,
		pgx.Identifier{"job_matches"},
		[]string{"id", "user_id", "job_id", "job_title", "company", "match_score", "created_at"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.ID, r.UserID, r.JobID, r.JobTitle, r.Company, r.Score, r.CreatedAt}, nil
		}),
	)
	if err != nil {
		return storageError("failed to save matches", err)
	}
	return nil
}

// LatestMatches returns the newest match records first
func (db *DB) LatestMatches(ctx context.Context, limit int) ([]types.MatchRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_id, job_title, company, match_score, created_at
		 FROM job_matches ORDER BY created_at DESC, seq DESC LIMIT $1`,
		limitArg(limit),
	)
	if err != nil {
		return nil, storageError("failed to list matches", err)
	}
	defer rows.Close()

	out := []types.MatchRecord{}
	for rows.Next() {
		var m types.MatchRecord
		if err := rows.Scan(&m.ID, &m.UserID, &m.JobID, &m.JobTitle, &m.Company, &m.Score, &m.CreatedAt); err != nil {
			return nil, storageError("failed to scan match", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to list matches", err)
	}
	return out, nil
}
