package skillgap

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/parsing"
	"github.com/jonathan/smart-applier/internal/types"
)

const (
	// DefaultThreshold is the similarity below which a job skill is missing
	DefaultThreshold = 0.5

	similarityDecimals = 3
)

// Analyzer compares a profile's skills with the skills a job corpus demands.
// User skill embeddings are computed once, at construction.
type Analyzer struct {
	provider  embedding.Provider
	jobs      []types.JobRecord
	skills    *SkillSet
	threshold float64
	logger    *slog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithThreshold overrides DefaultThreshold for corpus-wide analysis
func WithThreshold(threshold float64) Option {
	return func(a *Analyzer) { a.threshold = threshold }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer validates its inputs and embeds the profile's skills. Both the
// profile's skills and the job corpus must be non-empty.
func NewAnalyzer(ctx context.Context, provider embedding.Provider, profile *types.Profile, jobs []types.JobRecord, opts ...Option) (*Analyzer, error) {
	if profile == nil {
		return nil, types.InvalidInput("profile is required")
	}
	if len(parsing.DedupeTerms(profile.AllSkills())) == 0 {
		return nil, types.InvalidInput("profile has no skills")
	}
	if len(jobs) == 0 {
		return nil, types.InvalidInput("job corpus is empty")
	}

	a := &Analyzer{
		provider:  provider,
		jobs:      jobs,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	skills, err := NewSkillSet(ctx, provider, profile.AllSkills())
	if err != nil {
		return nil, err
	}
	a.skills = skills
	return a, nil
}

// UserSkills returns the de-duplicated, lower-cased user skill terms in
// their original wording
func (a *Analyzer) UserSkills() []string {
	return a.skills.Terms()
}

// Threshold returns the threshold used for corpus-wide analysis
func (a *Analyzer) Threshold() float64 { return a.threshold }

// FindMissingSkills returns the distinct job skill terms whose best
// similarity to any user skill is strictly below threshold, with that
// similarity rounded to 3 decimals.
func (a *Analyzer) FindMissingSkills(ctx context.Context, jobSkillTerms []string, threshold float64) ([]types.SkillSimilarity, error) {
	sims, err := a.skills.BestSimilarities(ctx, jobSkillTerms)
	if err != nil {
		return nil, types.WrapStage(types.StageGapAnalysis, "compare skills", err)
	}
	missing := make([]types.SkillSimilarity, 0, len(sims))
	for _, s := range sims {
		if s.Similarity < threshold {
			missing = append(missing, types.SkillSimilarity{
				Term:       s.Term,
				Similarity: round(s.Similarity, similarityDecimals),
			})
		}
	}
	return missing, nil
}

// MissingSkillReport ranks every skill missing from the profile across the
// corpus and returns the first topN entries. Each job counts a term once.
func (a *Analyzer) MissingSkillReport(ctx context.Context, topN int) ([]types.MissingSkill, error) {
	if topN <= 0 {
		return nil, types.InvalidInput(fmt.Sprintf("top_n must be positive, got %d", topN))
	}

	perJob := make([][]string, len(a.jobs))
	var all []string
	for i := range a.jobs {
		perJob[i] = parsing.DedupeTerms(parsing.SplitSkillTerms(a.jobs[i].Skills))
		all = append(all, perJob[i]...)
	}
	if len(all) == 0 {
		return nil, types.NewStageError(types.StageGapAnalysis, types.ErrNoSkillColumn,
			"no job in the corpus lists any skills", nil)
	}

	sims, err := a.skills.BestSimilarities(ctx, all)
	if err != nil {
		return nil, types.WrapStage(types.StageGapAnalysis, "compare skills", err)
	}
	// Jobs may spell one skill differently; each key is reported in the
	// wording seen first across the corpus.
	best := make(map[string]types.SkillSimilarity, len(sims))
	for _, s := range sims {
		best[parsing.CanonicalSkill(s.Term)] = s
	}

	scores := make(map[string][]float64)
	for _, terms := range perJob {
		for _, term := range terms {
			if s := best[parsing.CanonicalSkill(term)]; s.Similarity < a.threshold {
				scores[s.Term] = append(scores[s.Term], s.Similarity)
			}
		}
	}

	ranked := RankMissingSkills(scores)
	if topN < len(ranked) {
		ranked = ranked[:topN]
	}
	a.logger.Info("skill gap analysed",
		"jobs", len(a.jobs),
		"distinct_terms", len(sims),
		"missing", len(scores),
		"threshold", a.threshold,
	)
	return ranked, nil
}

// TopMissingSkills returns the terms of MissingSkillReport
func (a *Analyzer) TopMissingSkills(ctx context.Context, topN int) ([]string, error) {
	report, err := a.MissingSkillReport(ctx, topN)
	if err != nil {
		return nil, err
	}
	terms := make([]string, len(report))
	for i, m := range report {
		terms[i] = m.Term
	}
	return terms, nil
}

// Report runs MissingSkillReport and, when advisor is non-nil, attaches
// learning recommendations for the returned terms.
func (a *Analyzer) Report(ctx context.Context, topN int, advisor Advisor) (*types.SkillGapReport, error) {
	missing, err := a.MissingSkillReport(ctx, topN)
	if err != nil {
		return nil, err
	}
	report := &types.SkillGapReport{
		MissingSkills: missing,
		TopSkills:     make([]string, len(missing)),
	}
	for i, m := range missing {
		report.TopSkills[i] = m.Term
	}
	if advisor != nil {
		report.Recommendations = Recommend(ctx, report.TopSkills, advisor, a.logger)
	}
	return report, nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
