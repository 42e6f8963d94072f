package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/smart-applier/internal/types"
)

// Memory is a process-local Store. Every value is copied on the way in and
// out, so callers never share state with it.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]*types.Profile
	jobs     []types.JobRecord
	matches  []types.MatchRecord
	resumes  map[string]*types.Resume
	order    []string
	sessions []types.TailoringSession
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]*types.Profile),
		resumes:  make(map[string]*types.Resume),
	}
}

// LoadProfile returns a copy of the stored profile, or nil
func (m *Memory) LoadProfile(_ context.Context, userID string) (*types.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profiles[userID].Clone(), nil
}

// SaveProfile stores a copy of profile under userID
func (m *Memory) SaveProfile(_ context.Context, userID string, profile *types.Profile) error {
	if userID == "" || profile == nil {
		return types.InvalidInput("user id and profile are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = profile.Clone()
	return nil
}

// ListProfiles returns every stored profile ordered by user id
func (m *Memory) ListProfiles(_ context.Context) ([]types.ProfileSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.ProfileSummary, 0, len(m.profiles))
	for id, p := range m.profiles {
		out = append(out, types.ProfileSummary{UserID: id, Name: p.Personal.Name, Email: p.Personal.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// ListJobs returns jobs in insertion order
func (m *Memory) ListJobs(_ context.Context, limit int) ([]types.JobRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := len(m.jobs)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]types.JobRecord{}, m.jobs[:n]...), nil
}

// SaveJobs appends jobs to the corpus
func (m *Memory) SaveJobs(_ context.Context, jobs []types.JobRecord) ([]types.JobRecord, error) {
	now := time.Now()
	stored := make([]types.JobRecord, len(jobs))
	for i, j := range jobs {
		stored[i] = withDefaults(j, now)
	}
	m.mu.Lock()
	m.jobs = append(m.jobs, stored...)
	m.mu.Unlock()
	return stored, nil
}

// SaveMatches appends match records
func (m *Memory) SaveMatches(_ context.Context, records []types.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, records...)
	return nil
}

// LatestMatches returns the newest match records first
func (m *Memory) LatestMatches(_ context.Context, limit int) ([]types.MatchRecord, error) {
	m.mu.RLock()
	out := make([]types.MatchRecord, 0, len(m.matches))
	for i := len(m.matches) - 1; i >= 0; i-- {
		out = append(out, m.matches[i])
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// SaveResume stores a copy of resume
func (m *Memory) SaveResume(_ context.Context, resume *types.Resume) error {
	if resume == nil || resume.ID == "" {
		return types.InvalidInput("resume id is required")
	}
	c := *resume
	c.Content = append([]byte(nil), resume.Content...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.resumes[c.ID] = &c
	return nil
}

// GetResume returns a copy of the stored resume, or nil
func (m *Memory) GetResume(_ context.Context, id string) (*types.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	c := *r
	c.Content = append([]byte(nil), r.Content...)
	return &c, nil
}

// ListResumes returns the newest resumes first
func (m *Memory) ListResumes(_ context.Context, userID string, limit int) ([]types.ResumeSummary, error) {
	m.mu.RLock()
	out := make([]types.ResumeSummary, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.resumes[m.order[i]]
		if userID != "" && r.UserID != userID {
			continue
		}
		out = append(out, summarize(r))
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// SaveTailoringSession appends a session row
func (m *Memory) SaveTailoringSession(_ context.Context, session types.TailoringSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, session)
	return nil
}

// ListTailoringSessions returns the newest sessions first
func (m *Memory) ListTailoringSessions(_ context.Context, limit int) ([]types.TailoringSession, error) {
	m.mu.RLock()
	out := make([]types.TailoringSession, 0, len(m.sessions))
	for i := len(m.sessions) - 1; i >= 0; i-- {
		out = append(out, m.sessions[i])
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// Close is a no-op
func (m *Memory) Close() error { return nil }

func summarize(r *types.Resume) types.ResumeSummary {
	return types.ResumeSummary{
		ID:        r.ID,
		UserID:    r.UserID,
		JobTitle:  r.JobTitle,
		Format:    r.Format,
		Coverage:  r.Coverage,
		CreatedAt: r.CreatedAt,
	}
}

// withDefaults assigns an id and creation time to a job that has none
func withDefaults(j types.JobRecord, now time.Time) types.JobRecord {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	return j
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}
