package pipeline

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/smart-applier/internal/types"
)

// Run step names, reported in progress events
const (
	StepProfile = "load_profile"
	StepJobs    = "load_jobs"
	StepMatch   = "match_jobs"
	StepGap     = "skill_gap"
	StepTailor  = "tailor_resume"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs. The skill-gap and
// tailoring steps run concurrently and may call it from different goroutines.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for an end-to-end run
type RunOptions struct {
	UserID string
	TopK   int
	TopN   int
	// JobDescription to tailor against; empty means the top match's posting
	JobDescription string
	Record         bool
	Recommend      bool
	OnProgress     ProgressCallback
}

// RunResult collects everything a run produced
type RunResult struct {
	Matches   []types.JobMatch      `json:"matches"`
	SkillGap  *types.SkillGapReport `json:"skill_gap"`
	TargetJob *types.JobRecord      `json:"target_job,omitempty"`
	Tailored  *types.TailorResult   `json:"tailored"`
	Resume    *types.Resume         `json:"resume,omitempty"`
}

func (o *RunOptions) emit(step, message string, content any) {
	if o.OnProgress != nil {
		o.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run loads the profile, matches it against the stored corpus, then, in
// parallel, analyses the skill gap over the matched jobs and tailors the
// profile to the top match (or to opts.JobDescription). The tailored
// document is stored as a resume.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	profile, err := s.Profile(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}
	opts.emit(StepProfile, "Loaded profile", nil)

	jobs, err := s.jobs(ctx)
	if err != nil {
		return nil, err
	}
	opts.emit(StepJobs, "Loaded job corpus", len(jobs))

	var matches []types.JobMatch
	if opts.Record {
		matches, err = s.matcher.MatchAndRecord(ctx, opts.UserID, profile, jobs, opts.TopK)
	} else {
		matches, err = s.matcher.Match(ctx, profile, jobs, opts.TopK)
	}
	if err != nil {
		return nil, types.WrapStage(types.StageMatching, "match jobs", err)
	}
	opts.emit(StepMatch, "Matched jobs", matches)

	result := &RunResult{Matches: matches}

	jd := strings.TrimSpace(opts.JobDescription)
	tailorOpts := TailorOptions{JobTitle: "Custom job description"}
	if jd == "" {
		if len(matches) == 0 {
			return nil, types.NewStageError(types.StageMatching, types.ErrNoJobsAvailable,
				"no matched jobs to tailor against", nil)
		}
		top := matches[0].Job
		result.TargetJob = &top
		jd = JobText(top)
		tailorOpts.JobTitle = top.Title
	}

	matched := make([]types.JobRecord, len(matches))
	for i, m := range matches {
		matched[i] = m.Job
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := s.gapReport(gCtx, profile, matched, GapOptions{TopN: opts.TopN, Recommend: opts.Recommend})
		if err != nil {
			return err
		}
		result.SkillGap = report
		opts.emit(StepGap, "Analysed skill gap", report)
		return nil
	})
	g.Go(func() error {
		tailored, resume, err := s.tailorProfile(gCtx, opts.UserID, profile, jd, tailorOpts)
		if err != nil {
			return err
		}
		result.Tailored, result.Resume = tailored, resume
		opts.emit(StepTailor, "Tailored resume", tailored)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("run complete",
		"user_id", opts.UserID,
		"matches", len(result.Matches),
		"missing_skills", len(result.SkillGap.MissingSkills),
		"coverage", result.Tailored.Coverage,
	)
	return result, nil
}

// JobText is the description a stored job is tailored against: its title,
// skills and summary, one per line
func JobText(job types.JobRecord) string {
	var parts []string
	for _, s := range []string{job.Title, job.Skills, job.Summary} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
