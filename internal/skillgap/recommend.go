package skillgap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/smart-applier/internal/types"
)

// maxResources caps the learning resources listed per skill
const maxResources = 3

// Advisor suggests learning resources for a skill
type Advisor interface {
	// Available reports whether the advisor can be called at all
	Available() bool
	LearningResources(ctx context.Context, skill string) ([]string, error)
}

// FallbackResources is the static list used when no advisor is available
func FallbackResources(skill string) []string {
	return []string{
		fmt.Sprintf("Search 'free %s course' on Coursera or YouTube.", skill),
		fmt.Sprintf("Check Kaggle Learn for %s tutorials.", skill),
	}
}

// Recommend collects up to three learning resources per skill. An
// unavailable advisor yields the static fallback list for every skill; an
// advisor error for one skill yields an empty list for that skill only.
func Recommend(ctx context.Context, skills []string, advisor Advisor, logger *slog.Logger) []types.LearningRecommendation {
	if logger == nil {
		logger = slog.Default()
	}
	recs := make([]types.LearningRecommendation, 0, len(skills))
	if advisor == nil || !advisor.Available() {
		for _, skill := range skills {
			recs = append(recs, types.LearningRecommendation{
				Skill:     skill,
				Resources: FallbackResources(skill),
				Fallback:  true,
			})
		}
		return recs
	}

	for _, skill := range skills {
		resources, err := advisor.LearningResources(ctx, skill)
		if err != nil {
			logger.Warn("learning resources unavailable", "skill", skill, "error", err)
			resources = []string{}
		}
		if len(resources) > maxResources {
			resources = resources[:maxResources]
		}
		recs = append(recs, types.LearningRecommendation{Skill: skill, Resources: resources})
	}
	return recs
}
