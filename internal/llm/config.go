// Package llm configures and wraps the generative model used for keyword
// extraction, profile rewriting and learning recommendations.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short extraction and listing tasks
	TierLite ModelTier = "lite"
	// TierStandard is for moderate structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for rewriting a whole profile
	TierAdvanced ModelTier = "advanced"
)

// Task names a generative call the engine makes
type Task string

// Task constants
const (
	TaskKeywords  Task = "keywords"
	TaskRewrite   Task = "rewrite"
	TaskResources Task = "resources"
)

// TierFor returns the model tier a task runs on
func TierFor(task Task) ModelTier {
	switch task {
	case TaskRewrite:
		return TierAdvanced
	case TaskKeywords, TaskResources:
		return TierLite
	default:
		return TierStandard
	}
}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the only generative provider; OpenAI is used for
// embeddings alone.
const ProviderGemini Provider = "gemini"

// defaultTemperature keeps extraction and rewrite output stable across runs
const defaultTemperature = 0.1

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32 // 0 leaves the model default
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: defaultTemperature,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Fallback chain: try standard, then lite
	for _, t := range []ModelTier{TierStandard, TierLite} {
		if model := c.Models[t]; model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with model set for tier. An empty model
// leaves the tier unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	if model != "" {
		out.Models[tier] = model
	}
	return &out
}

// WithOverrides applies per-tier model names keyed by tier name ("lite",
// "standard", "advanced")
func (c *Config) WithOverrides(models map[string]string) (*Config, error) {
	out := c
	for name, model := range models {
		tier := ModelTier(name)
		switch tier {
		case TierLite, TierStandard, TierAdvanced:
		default:
			return nil, fmt.Errorf("unknown model tier %q", name)
		}
		out = out.WithModel(tier, model)
	}
	return out, nil
}

// Validate checks that a model is configured for the provider
func (c *Config) Validate() error {
	if c.Provider != ProviderGemini {
		return fmt.Errorf("unsupported LLM provider %q", c.Provider)
	}
	if c.GetModel(TierStandard) == "" {
		return fmt.Errorf("no model configured")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	return nil
}
