// Package embedding maps text to fixed-dimension vectors. Every provider is
// deterministic for a fixed model and safe for concurrent use.
package embedding

import (
	"context"
	"fmt"

	"github.com/jonathan/smart-applier/internal/types"
)

// Provider defines the interface for generating text embeddings.
type Provider interface {
	// Embed generates an embedding for a single text string.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple text strings, in order.
	// An empty input yields an empty result.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of every vector this provider returns.
	Dimension() int

	// Model names the underlying model.
	Model() string
}

// Backend names a provider implementation
type Backend string

// Backend constants
const (
	BackendHash   Backend = "hash"
	BackendGemini Backend = "gemini"
	BackendOpenAI Backend = "openai"
)

// Default model names per backend
const (
	DefaultGeminiModel = "text-embedding-004"
	DefaultOpenAIModel = "text-embedding-3-small"
)

// Config selects and configures a provider
type Config struct {
	Backend   Backend `json:"backend" toml:"backend"`
	Model     string  `json:"model,omitempty" toml:"model"`
	APIKey    string  `json:"-" toml:"-"`
	Dimension int     `json:"dimension,omitempty" toml:"dimension"`
	CacheSize int     `json:"cache_size,omitempty" toml:"cache_size"`
}

// New constructs the provider named by cfg. Remote providers are probed once
// so that an unusable model fails here with ErrModelUnavailable rather than
// on first use.
func New(ctx context.Context, cfg Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Backend {
	case "", BackendHash:
		p, err = NewHash(cfg.Dimension)
	case BackendGemini:
		p, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case BackendOpenAI:
		p, err = NewOpenAI(ctx, cfg.APIKey, cfg.Model)
	default:
		err = modelUnavailable(fmt.Sprintf("unknown embedding backend %q", cfg.Backend), nil)
	}
	if err != nil {
		return nil, err
	}
	if cfg.CacheSize > 0 {
		return NewCached(p, cfg.CacheSize), nil
	}
	return p, nil
}

func modelUnavailable(message string, cause error) error {
	return types.NewStageError(types.StageEmbedding, types.ErrModelUnavailable, message, cause)
}

// splitEmpty separates blank texts, which embed to the zero vector without a
// remote call, from the rest. It returns the non-empty texts and their
// positions in the input.
func splitEmpty(texts []string) ([]string, []int) {
	var (
		nonEmpty []string
		pos      []int
	)
	for i, t := range texts {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
			pos = append(pos, i)
		}
	}
	return nonEmpty, pos
}

// scatter places embedded vectors back at their positions, filling the
// remaining slots with zero vectors of length dim.
func scatter(n, dim int, pos []int, vecs [][]float32) [][]float32 {
	out := make([][]float32, n)
	for i, p := range pos {
		out[p] = vecs[i]
	}
	for i := range out {
		if out[i] == nil {
			out[i] = make([]float32, dim)
		}
	}
	return out
}
