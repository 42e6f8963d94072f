// Package store persists profiles, job corpora, match results, rendered
// resumes and tailoring sessions. Memory and SQLite implement the same Store
// interface; the Postgres implementation lives in internal/db.
//
// Lookups of a missing record return (nil, nil).
package store

import (
	"context"
	"fmt"

	"github.com/jonathan/smart-applier/internal/types"
)

// ProfileStore maps user ids to profiles
type ProfileStore interface {
	LoadProfile(ctx context.Context, userID string) (*types.Profile, error)
	SaveProfile(ctx context.Context, userID string, profile *types.Profile) error
	ListProfiles(ctx context.Context) ([]types.ProfileSummary, error)
}

// JobStore holds the job corpus in insertion order
type JobStore interface {
	// ListJobs returns up to limit jobs, or all of them when limit <= 0
	ListJobs(ctx context.Context, limit int) ([]types.JobRecord, error)
	// SaveJobs appends jobs, assigning ids to those without one, and
	// returns the stored records
	SaveJobs(ctx context.Context, jobs []types.JobRecord) ([]types.JobRecord, error)
}

// MatchStore records match results for the dashboard
type MatchStore interface {
	SaveMatches(ctx context.Context, records []types.MatchRecord) error
	// LatestMatches returns the newest records first
	LatestMatches(ctx context.Context, limit int) ([]types.MatchRecord, error)
}

// ResumeStore keeps rendered resumes
type ResumeStore interface {
	SaveResume(ctx context.Context, resume *types.Resume) error
	GetResume(ctx context.Context, id string) (*types.Resume, error)
	// ListResumes returns the newest resumes first, for one user or for all
	// users when userID is empty
	ListResumes(ctx context.Context, userID string, limit int) ([]types.ResumeSummary, error)
}

// SessionStore logs tailoring runs
type SessionStore interface {
	SaveTailoringSession(ctx context.Context, session types.TailoringSession) error
	ListTailoringSessions(ctx context.Context, limit int) ([]types.TailoringSession, error)
}

// Store is the full persistence surface used by the application
type Store interface {
	ProfileStore
	JobStore
	MatchStore
	ResumeStore
	SessionStore
	Close() error
}

// Kind names a Store implementation
type Kind string

// Store kinds
const (
	KindMemory   Kind = "memory"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// ParseKind validates a store kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindMemory, KindSQLite, KindPostgres:
		return k, nil
	case "":
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown store %q (want memory, sqlite or postgres)", s)
	}
}

func storageError(message string, err error) error {
	return types.NewStageError(types.StageStorage, nil, message, err)
}
