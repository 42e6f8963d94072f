// Package pipeline runs the engine's operations for a stored user: it loads
// profiles and jobs from the store, calls the matcher, skill-gap analyzer and
// tailoring orchestrator, and persists what they produce.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/matching"
	"github.com/jonathan/smart-applier/internal/skillgap"
	"github.com/jonathan/smart-applier/internal/store"
	"github.com/jonathan/smart-applier/internal/tailoring"
	"github.com/jonathan/smart-applier/internal/types"
)

// Service binds the engine to a store
type Service struct {
	store        store.Store
	provider     embedding.Provider
	matcher      *matching.Matcher
	tailor       *tailoring.Orchestrator
	advisor      skillgap.Advisor
	gapThreshold float64
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithAdvisor sets the source of learning recommendations
func WithAdvisor(a skillgap.Advisor) Option {
	return func(s *Service) { s.advisor = a }
}

// WithGapThreshold sets the default missing-skill threshold
func WithGapThreshold(threshold float64) Option {
	return func(s *Service) { s.gapThreshold = threshold }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. The matcher and orchestrator must embed with the
// same provider.
func New(st store.Store, provider embedding.Provider, matcher *matching.Matcher, tailor *tailoring.Orchestrator, opts ...Option) *Service {
	s := &Service{
		store:        st,
		provider:     provider,
		matcher:      matcher,
		tailor:       tailor,
		gapThreshold: skillgap.DefaultThreshold,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Store returns the underlying store
func (s *Service) Store() store.Store { return s.store }

// GapOptions tunes a skill-gap analysis
type GapOptions struct {
	TopN      int
	Threshold *float64 // nil means the service default
	Recommend bool
}

// TailorOptions tunes a tailoring run
type TailorOptions struct {
	Threshold *float64 // nil means the orchestrator default
	JobTitle  string   // recorded on the stored resume
}

// Profile loads the profile of userID, failing with ErrNotFound when there
// is none
func (s *Service) Profile(ctx context.Context, userID string) (*types.Profile, error) {
	if userID == "" {
		return nil, types.InvalidInput("user id is required")
	}
	p, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, types.WrapStage(types.StageStorage, "load profile", err)
	}
	if p == nil {
		return nil, types.NewStageError(types.StageStorage, types.ErrNotFound,
			fmt.Sprintf("no profile for user %q", userID), nil)
	}
	return p, nil
}

// SaveProfile validates and stores a profile
func (s *Service) SaveProfile(ctx context.Context, userID string, p *types.Profile) error {
	if userID == "" {
		return types.InvalidInput("user id is required")
	}
	if p == nil {
		return types.InvalidInput("profile is required")
	}
	types.CoerceProfile(p)
	if err := p.Validate(); err != nil {
		return types.NewStageError(types.StageInput, types.ErrInvalidInput, "invalid profile", err)
	}
	if err := s.store.SaveProfile(ctx, userID, p); err != nil {
		return types.WrapStage(types.StageStorage, "save profile", err)
	}
	return nil
}

// ImportJobs validates and appends jobs to the corpus
func (s *Service) ImportJobs(ctx context.Context, jobs []types.JobRecord) ([]types.JobRecord, error) {
	for i := range jobs {
		if err := jobs[i].Validate(); err != nil {
			return nil, types.NewStageError(types.StageInput, types.ErrInvalidInput,
				fmt.Sprintf("job %d is invalid", i+1), err)
		}
	}
	saved, err := s.store.SaveJobs(ctx, jobs)
	if err != nil {
		return nil, types.WrapStage(types.StageStorage, "save jobs", err)
	}
	s.logger.Info("imported jobs", "count", len(saved))
	return saved, nil
}

// jobs loads the whole corpus
func (s *Service) jobs(ctx context.Context) ([]types.JobRecord, error) {
	jobs, err := s.store.ListJobs(ctx, 0)
	if err != nil {
		return nil, types.WrapStage(types.StageStorage, "list jobs", err)
	}
	return jobs, nil
}

// Match ranks the stored corpus against the user's profile. With record set,
// the results are persisted as match records.
func (s *Service) Match(ctx context.Context, userID string, topK int, record bool) ([]types.JobMatch, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs(ctx)
	if err != nil {
		return nil, err
	}
	if record {
		return s.matcher.MatchAndRecord(ctx, userID, profile, jobs, topK)
	}
	return s.matcher.Match(ctx, profile, jobs, topK)
}

// SkillGap analyses the user's profile against the stored corpus
func (s *Service) SkillGap(ctx context.Context, userID string, opts GapOptions) (*types.SkillGapReport, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs(ctx)
	if err != nil {
		return nil, err
	}
	return s.gapReport(ctx, profile, jobs, opts)
}

func (s *Service) gapReport(ctx context.Context, profile *types.Profile, jobs []types.JobRecord, opts GapOptions) (*types.SkillGapReport, error) {
	if len(jobs) == 0 {
		return nil, types.NewStageError(types.StageGapAnalysis, types.ErrNoJobsAvailable,
			"job corpus is empty", nil)
	}
	threshold := s.gapThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}
	analyzer, err := skillgap.NewAnalyzer(ctx, s.provider, profile, jobs,
		skillgap.WithThreshold(threshold), skillgap.WithLogger(s.logger))
	if err != nil {
		return nil, types.WrapStage(types.StageGapAnalysis, "skill gap", err)
	}

	var advisor skillgap.Advisor
	if opts.Recommend {
		advisor = s.advisor
		if advisor == nil {
			advisor = noAdvisor{}
		}
	}
	report, err := analyzer.Report(ctx, opts.TopN, advisor)
	if err != nil {
		return nil, types.WrapStage(types.StageGapAnalysis, "skill gap", err)
	}
	return report, nil
}

// Tailor tailors the user's profile to jobDescription and stores the
// rendered document, when there is one, as a resume.
func (s *Service) Tailor(ctx context.Context, userID, jobDescription string, opts TailorOptions) (*types.TailorResult, *types.Resume, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return s.tailorProfile(ctx, userID, profile, jobDescription, opts)
}

func (s *Service) tailorProfile(ctx context.Context, userID string, profile *types.Profile, jobDescription string, opts TailorOptions) (*types.TailorResult, *types.Resume, error) {
	orch := s.tailor
	if opts.Threshold != nil {
		orch = orch.AtThreshold(*opts.Threshold)
	}
	result, err := orch.Tailor(ctx, profile, jobDescription)
	if err != nil {
		return nil, nil, err
	}
	if len(result.Document) == 0 {
		return result, nil, nil
	}

	resume := &types.Resume{
		ID:        uuid.New().String(),
		UserID:    userID,
		JobTitle:  opts.JobTitle,
		Format:    result.DocumentFormat,
		Coverage:  result.Coverage,
		Content:   result.Document,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveResume(ctx, resume); err != nil {
		return nil, nil, types.WrapStage(types.StageStorage, "save resume", err)
	}
	return result, resume, nil
}

// noAdvisor yields the static fallback recommendations
type noAdvisor struct{}

func (noAdvisor) Available() bool { return false }

func (noAdvisor) LearningResources(context.Context, string) ([]string, error) {
	return nil, nil
}
