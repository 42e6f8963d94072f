// Package matching ranks a job corpus against a profile by embedding
// similarity.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/parsing"
	"github.com/jonathan/smart-applier/internal/types"
	"github.com/jonathan/smart-applier/internal/vectorindex"
)

// scoreDecimals is the precision match scores are reported at
const scoreDecimals = 4

// Recorder persists match results for later display
type Recorder interface {
	SaveMatches(ctx context.Context, records []types.MatchRecord) error
}

// Matcher ranks jobs against a profile
type Matcher struct {
	provider  embedding.Provider
	indexKind vectorindex.Kind
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Matcher
type Option func(*Matcher)

// WithIndexKind selects the vector index implementation
func WithIndexKind(kind vectorindex.Kind) Option {
	return func(m *Matcher) { m.indexKind = kind }
}

// WithRecorder sets the sink used by MatchAndRecord
func WithRecorder(r Recorder) Option {
	return func(m *Matcher) { m.recorder = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// NewMatcher creates a matcher using provider for all embeddings
func NewMatcher(provider embedding.Provider, opts ...Option) *Matcher {
	m := &Matcher{
		provider:  provider,
		indexKind: vectorindex.KindFlat,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// ProfileDocument builds the normalised text a profile is embedded as:
// skills in category order, then project titles and descriptions, then
// achievements.
func ProfileDocument(p *types.Profile) string {
	var parts []string
	parts = append(parts, p.AllSkills()...)
	for _, proj := range p.Projects {
		parts = append(parts, proj.Title, proj.Description.String())
	}
	parts = append(parts, p.Achievements...)
	return parsing.Normalize(strings.Join(parts, " "))
}

// Match returns up to topK jobs ranked by cosine similarity between the
// profile document and each job's best descriptive text. Scores are rounded
// to 4 decimals; ties keep corpus order.
func (m *Matcher) Match(ctx context.Context, profile *types.Profile, jobs []types.JobRecord, topK int) ([]types.JobMatch, error) {
	if profile == nil {
		return nil, types.InvalidInput("profile is required")
	}
	if len(jobs) == 0 {
		return nil, types.NewStageError(types.StageMatching, types.ErrNoJobsAvailable,
			"job corpus is empty", nil)
	}
	if topK <= 0 {
		return nil, types.InvalidInput(fmt.Sprintf("top_k must be positive, got %d", topK))
	}
	doc := ProfileDocument(profile)
	if doc == "" {
		return nil, types.InvalidInput("profile has no skills, projects or achievements")
	}

	profileVec, err := m.provider.Embed(ctx, doc)
	if err != nil {
		return nil, types.WrapStage(types.StageEmbedding, "embed profile", err)
	}

	texts := make([]string, len(jobs))
	for i := range jobs {
		texts[i] = parsing.Normalize(jobs[i].BestText())
	}
	jobVecs, err := m.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, types.WrapStage(types.StageEmbedding, "embed jobs", err)
	}
	if len(jobVecs) != len(jobs) {
		return nil, types.NewStageError(types.StageEmbedding, nil,
			fmt.Sprintf("provider returned %d vectors for %d jobs", len(jobVecs), len(jobs)), nil)
	}

	idx, err := vectorindex.Build(ctx, m.indexKind, m.provider.Dimension(), jobVecs)
	if err != nil {
		return nil, types.WrapStage(types.StageIndexing, "build index", err)
	}
	hits, err := idx.Query(ctx, profileVec, topK)
	if err != nil {
		return nil, types.WrapStage(types.StageIndexing, "query index", err)
	}

	matches := make([]types.JobMatch, len(hits))
	for i, h := range hits {
		matches[i] = types.JobMatch{
			Job:   jobs[h.Position],
			Score: round(h.Score, scoreDecimals),
			Rank:  i + 1,
		}
	}

	m.logger.Info("matched jobs",
		"jobs", len(jobs),
		"top_k", topK,
		"returned", len(matches),
		"model", m.provider.Model(),
	)
	return matches, nil
}

// MatchAndRecord runs Match and persists each result for userID. A failure to
// persist is logged and does not fail the match.
func (m *Matcher) MatchAndRecord(ctx context.Context, userID string, profile *types.Profile, jobs []types.JobRecord, topK int) ([]types.JobMatch, error) {
	matches, err := m.Match(ctx, profile, jobs, topK)
	if err != nil {
		return nil, err
	}
	if m.recorder == nil || len(matches) == 0 {
		return matches, nil
	}

	now := m.now()
	records := make([]types.MatchRecord, len(matches))
	for i, match := range matches {
		records[i] = types.MatchRecord{
			ID:        uuid.New().String(),
			UserID:    userID,
			JobID:     match.Job.ID,
			JobTitle:  match.Job.Title,
			Company:   match.Job.Company,
			Score:     match.Score,
			CreatedAt: now,
		}
	}
	if err := m.recorder.SaveMatches(ctx, records); err != nil {
		m.logger.Warn("failed to persist matches", "user_id", userID, "error", err)
	}
	return matches, nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
