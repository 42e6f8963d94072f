// Package tailoring adapts a profile to a single job description: it extracts
// the description's keywords, measures how many the profile already covers,
// optionally rewrites the profile and renders the result.
package tailoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/schemas"
	"github.com/jonathan/smart-applier/internal/skillgap"
	"github.com/jonathan/smart-applier/internal/types"
	"github.com/jonathan/smart-applier/internal/understanding"
)

// DefaultThreshold is the similarity at which a keyword counts as covered
const DefaultThreshold = 0.45

// unknownEmail is logged for sessions whose profile has no email
const unknownEmail = "unknown"

// Renderer turns a profile into a document
type Renderer interface {
	Render(ctx context.Context, profile *types.Profile) ([]byte, error)
	Format() string
}

// SessionLogger records tailoring runs
type SessionLogger interface {
	SaveTailoringSession(ctx context.Context, session types.TailoringSession) error
}

// Comparison is the overlap between job keywords and the user's skills
type Comparison struct {
	Keywords      []string
	MatchedSkills []string
	Similarities  []types.SkillSimilarity
	Coverage      float64
}

// Orchestrator runs the tailoring flow
type Orchestrator struct {
	provider  embedding.Provider
	text      understanding.Provider
	renderer  Renderer
	sessions  SessionLogger
	threshold float64
	rewrite   bool
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithThreshold sets the coverage similarity threshold
func WithThreshold(threshold float64) Option {
	return func(o *Orchestrator) { o.threshold = threshold }
}

// WithUnderstanding sets the text-understanding collaborator
func WithUnderstanding(p understanding.Provider) Option {
	return func(o *Orchestrator) { o.text = p }
}

// WithRenderer sets the document renderer. Without one Tailor returns no
// document.
func WithRenderer(r Renderer) Option {
	return func(o *Orchestrator) { o.renderer = r }
}

// WithSessionLogger sets the sink for tailoring session rows
func WithSessionLogger(s SessionLogger) Option {
	return func(o *Orchestrator) { o.sessions = s }
}

// WithRewrite enables or disables the profile rewrite step
func WithRewrite(enabled bool) Option {
	return func(o *Orchestrator) { o.rewrite = enabled }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator creates an orchestrator that embeds with provider
func NewOrchestrator(provider embedding.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:  provider,
		text:      understanding.Null{},
		threshold: DefaultThreshold,
		rewrite:   true,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.text == nil {
		o.text = understanding.Null{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Threshold returns the configured coverage threshold
func (o *Orchestrator) Threshold() float64 { return o.threshold }

// AtThreshold returns a copy of o that uses threshold for coverage
func (o *Orchestrator) AtThreshold(threshold float64) *Orchestrator {
	c := *o
	c.threshold = threshold
	return &c
}

// CleanJobDescription extracts keywords from a job description. When the
// text-understanding service fails or returns nothing, it falls back to
// NaiveKeywords and reports fallback=true.
func (o *Orchestrator) CleanJobDescription(ctx context.Context, text string) (keywords []string, fallback bool) {
	if o.text.Available() {
		extracted, err := o.text.ExtractKeywords(ctx, text)
		if err == nil {
			if keywords = cleanKeywords(extracted); len(keywords) > 0 {
				return keywords, false
			}
			o.logger.Warn("keyword extraction returned nothing, using whitespace tokens")
		} else {
			o.logger.Warn("keyword extraction failed, using whitespace tokens", "error", err)
		}
	}
	return NaiveKeywords(text), true
}

// CompareSkills reports which keywords the user's skills cover at the
// orchestrator's threshold. Coverage is the matched share of distinct
// keywords as a percentage rounded to 2 decimals, and 0 with no keywords.
func (o *Orchestrator) CompareSkills(ctx context.Context, keywords, userSkills []string) (*Comparison, error) {
	set, err := skillgap.NewSkillSet(ctx, o.provider, userSkills)
	if err != nil {
		return nil, err
	}
	sims, err := set.BestSimilarities(ctx, keywords)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Keywords:      make([]string, len(sims)),
		MatchedSkills: []string{},
		Similarities:  sims,
	}
	for i, s := range sims {
		cmp.Keywords[i] = s.Term
		if s.Similarity >= o.threshold {
			cmp.MatchedSkills = append(cmp.MatchedSkills, s.Term)
		}
	}
	if len(sims) > 0 {
		cmp.Coverage = round2(float64(len(cmp.MatchedSkills)) / float64(len(sims)) * 100)
	}
	return cmp, nil
}

// Tailor extracts keywords from jobDescription, measures coverage against the
// profile's skills, rewrites the profile when possible and renders it.
// Extraction and rewrite failures fall back and are flagged on the result;
// a rendering failure is returned as an ErrExternalService error.
func (o *Orchestrator) Tailor(ctx context.Context, profile *types.Profile, jobDescription string) (*types.TailorResult, error) {
	if profile == nil {
		return nil, types.InvalidInput("profile is required")
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, types.InvalidInput("job description is empty")
	}

	keywords, keywordFallback := o.CleanJobDescription(ctx, jobDescription)

	cmp, err := o.CompareSkills(ctx, keywords, profile.AllSkills())
	if err != nil {
		return nil, err
	}

	result := &types.TailorResult{
		Profile:         profile,
		Keywords:        cmp.Keywords,
		MatchedSkills:   cmp.MatchedSkills,
		Coverage:        cmp.Coverage,
		KeywordFallback: keywordFallback,
	}

	if o.rewrite {
		rewritten, err := o.rewriteProfile(ctx, profile, cmp)
		if err != nil {
			o.logger.Warn("profile rewrite unusable, keeping original", "error", err)
			result.RewriteFallback = true
		} else {
			result.Profile = rewritten
		}
	}

	if o.renderer != nil {
		doc, err := o.renderer.Render(ctx, result.Profile)
		if err != nil {
			return nil, types.NewStageError(types.StageRendering, types.ErrExternalService,
				"render resume", err)
		}
		result.Document = doc
		result.DocumentFormat = o.renderer.Format()
	}

	o.logSession(ctx, profile, result.Coverage)

	o.logger.Info("tailored profile",
		"keywords", len(result.Keywords),
		"matched", len(result.MatchedSkills),
		"coverage", result.Coverage,
		"keyword_fallback", result.KeywordFallback,
		"rewrite_fallback", result.RewriteFallback,
	)
	return result, nil
}

// rewriteProfile asks the collaborator for a rewritten profile and accepts it
// only if it is a well-formed profile with at least one skill
func (o *Orchestrator) rewriteProfile(ctx context.Context, profile *types.Profile, cmp *Comparison) (*types.Profile, error) {
	if !o.text.Available() {
		return nil, understanding.ErrUnavailable
	}
	raw, err := o.text.RewriteProfile(ctx, profile, understanding.RewriteRequest{
		Keywords:      cmp.Keywords,
		MatchedSkills: cmp.MatchedSkills,
		Coverage:      cmp.Coverage,
	})
	if err != nil {
		return nil, err
	}
	return ParseProfile(raw)
}

// ParseProfile validates raw JSON against the profile schema and decodes it
// into a coerced, validated profile
func ParseProfile(raw string) (*types.Profile, error) {
	if err := schemas.ValidateProfileJSON(raw); err != nil {
		return nil, fmt.Errorf("rewritten profile does not match schema: %w", err)
	}
	var p types.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode rewritten profile: %w", err)
	}
	types.CoerceProfile(&p)
	if len(p.Skills) == 0 {
		return nil, fmt.Errorf("rewritten profile has no skills")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("rewritten profile is invalid: %w", err)
	}
	return &p, nil
}

func (o *Orchestrator) logSession(ctx context.Context, profile *types.Profile, coverage float64) {
	if o.sessions == nil {
		return
	}
	email := strings.TrimSpace(profile.Personal.Email)
	if email == "" {
		email = unknownEmail
	}
	session := types.TailoringSession{
		ID:        uuid.New().String(),
		UserEmail: email,
		Coverage:  coverage,
		CreatedAt: o.now(),
	}
	if err := o.sessions.SaveTailoringSession(ctx, session); err != nil {
		o.logger.Warn("failed to log tailoring session", "error", err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
