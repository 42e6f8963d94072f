package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/smart-applier/internal/types"
)

// customJobTitle labels the one-row corpus built from a pasted description
const customJobTitle = "Custom JD Skill Analysis"

// JDGap is the skill gap against a single pasted job description
type JDGap struct {
	Keywords        []string              `json:"keywords"`
	KeywordFallback bool                  `json:"keyword_fallback"`
	Report          *types.SkillGapReport `json:"report"`
}

// JDSkillGap extracts keywords from jobDescription and analyses the user's
// profile against them as a one-job corpus, with recommendations. A
// description with no usable keywords yields an empty report.
func (s *Service) JDSkillGap(ctx context.Context, userID, jobDescription string, topN int) (*JDGap, error) {
	profile, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.JDSkillGapFor(ctx, profile, jobDescription, topN)
}

// JDSkillGapFor is JDSkillGap for a profile that is not stored
func (s *Service) JDSkillGapFor(ctx context.Context, profile *types.Profile, jobDescription string, topN int) (*JDGap, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, types.InvalidInput("job description is empty")
	}

	if topN <= 0 {
		return nil, types.InvalidInput(fmt.Sprintf("top_n must be positive, got %d", topN))
	}

	keywords, fallback := s.tailor.CleanJobDescription(ctx, jobDescription)
	if len(keywords) == 0 {
		s.logger.Warn("no keywords found in job description")
		return &JDGap{
			Keywords:        []string{},
			KeywordFallback: fallback,
			Report:          &types.SkillGapReport{MissingSkills: []types.MissingSkill{}, TopSkills: []string{}},
		}, nil
	}
	corpus := []types.JobRecord{{
		Title:   customJobTitle,
		Skills:  strings.Join(keywords, ", "),
		Summary: "Custom JD",
	}}

	report, err := s.gapReport(ctx, profile, corpus, GapOptions{TopN: topN, Recommend: true})
	if err != nil {
		return nil, err
	}
	return &JDGap{Keywords: keywords, KeywordFallback: fallback, Report: report}, nil
}
