package db

import (
	"context"

	"github.com/jonathan/smart-applier/internal/types"
)

// SaveTailoringSession records one tailoring run
func (db *DB) SaveTailoringSession(ctx context.Context, session types.TailoringSession) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO tailored_sessions (id, user_email, coverage_score, created_at)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, session.UserEmail, session.Coverage, session.CreatedAt,
	)
	if err != nil {
		return storageError("failed to save tailoring session", err)
	}
	return nil
}

// ListTailoringSessions returns the newest sessions first
func (db *DB) ListTailoringSessions(ctx context.Context, limit int) ([]types.TailoringSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_email, coverage_score, created_at
		 FROM tailored_sessions ORDER BY created_at DESC, seq DESC LIMIT $1`,
		limitArg(limit),
	)
	if err != nil {
		return nil, storageError("failed to list tailoring sessions", err)
	}
	defer rows.Close()

	out := []types.TailoringSession{}
	for rows.Next() {
		var s types.TailoringSession
		if err := rows.Scan(&s.ID, &s.UserEmail, &s.Coverage, &s.CreatedAt); err != nil {
			return nil, storageError("failed to scan tailoring session", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to list tailoring sessions", err)
	}
	return out, nil
}
