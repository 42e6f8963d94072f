// Package understanding wraps the generative-language service used for
// keyword extraction, profile rewriting and learning suggestions. Null is the
// documented fallback when no service is configured.
package understanding

import (
	"context"

	"github.com/jonathan/smart-applier/internal/types"
)

// RewriteRequest carries the context passed to a profile rewrite
type RewriteRequest struct {
	Keywords      []string
	MatchedSkills []string
	Coverage      float64
}

// Provider is a text-understanding collaborator
type Provider interface {
	// Available reports whether calls can succeed at all
	Available() bool
	// ExtractKeywords returns the skill keywords of a job description
	ExtractKeywords(ctx context.Context, text string) ([]string, error)
	// RewriteProfile returns the raw JSON of a rewritten profile; callers
	// must validate it before use
	RewriteProfile(ctx context.Context, profile *types.Profile, req RewriteRequest) (string, error)
	// LearningResources suggests resources for learning a skill
	LearningResources(ctx context.Context, skill string) ([]string, error)
}

// Null is the provider used when no generative service is configured. Every
// call fails with ErrUnavailable so callers take their fallback path.
type Null struct{}

// Available always returns false
func (Null) Available() bool { return false }

// ExtractKeywords always fails with ErrUnavailable
func (Null) ExtractKeywords(context.Context, string) ([]string, error) {
	return nil, ErrUnavailable
}

// RewriteProfile always fails with ErrUnavailable
func (Null) RewriteProfile(context.Context, *types.Profile, RewriteRequest) (string, error) {
	return "", ErrUnavailable
}

// LearningResources always fails with ErrUnavailable
func (Null) LearningResources(context.Context, string) ([]string, error) {
	return nil, ErrUnavailable
}
