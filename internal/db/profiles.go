package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/smart-applier/internal/types"
)

// LoadProfile retrieves a profile by user id, or nil if none is stored
func (db *DB) LoadProfile(ctx context.Context, userID string) (*types.Profile, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE user_id = $1`, userID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("failed to load profile", err)
	}

	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, storageError("failed to decode profile", err)
	}
	return &p, nil
}

// SaveProfile inserts or replaces the profile for userID
func (db *DB) SaveProfile(ctx context.Context, userID string, profile *types.Profile) error {
	if userID == "" || profile == nil {
		return types.InvalidInput("user id and profile are required")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return storageError("failed to encode profile", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, name, email, data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET name = $2, email = $3, data = $4, updated_at = NOW()`,
		userID, profile.Personal.Name, profile.Personal.Email, data,
	)
	if err != nil {
		return storageError("failed to save profile", err)
	}
	return nil
}

// ListProfiles returns all stored profiles ordered by user id
func (db *DB) ListProfiles(ctx context.Context) ([]types.ProfileSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT user_id, name, email FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, storageError("failed to list profiles", err)
	}
	defer rows.Close()

	out := []types.ProfileSummary{}
	for rows.Next() {
		var s types.ProfileSummary
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email); err != nil {
			return nil, storageError("failed to scan profile", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("failed to list profiles", err)
	}
	return out, nil
}
