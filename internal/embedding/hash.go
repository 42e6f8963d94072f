package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultHashDimension is the vector length of the local hashing provider
const DefaultHashDimension = 384

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// HashProvider is a local, dependency-free embedding model based on signed
// feature hashing of words and character trigrams. Texts that share words or
// word fragments land close together; output is unit length, or all zeros for
// blank text.
type HashProvider struct {
	dim int
}

// NewHash creates a hashing provider. dim <= 0 selects DefaultHashDimension.
func NewHash(dim int) (*HashProvider, error) {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	if dim < 16 {
		return nil, modelUnavailable(fmt.Sprintf("hash dimension %d is too small", dim), nil)
	}
	return &HashProvider{dim: dim}, nil
}

// Embed generates an embedding for a single text string.
func (h *HashProvider) Embed(_ context.Context, text string) ([]float32, error) {
	return h.embed(text), nil
}

// EmbedBatch generates embeddings for multiple text strings.
func (h *HashProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.embed(t)
	}
	return out, nil
}

// Dimension returns the vector length
func (h *HashProvider) Dimension() int { return h.dim }

// Model returns the provider name
func (h *HashProvider) Model() string { return fmt.Sprintf("hash-%d", h.dim) }

func (h *HashProvider) embed(text string) []float32 {
	acc := make([]float64, h.dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h.add(acc, "w:"+word, wordWeight)
		runes := []rune("#" + word + "#")
		for i := 0; i+3 <= len(runes); i++ {
			h.add(acc, "g:"+string(runes[i:i+3]), trigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	out := make([]float32, h.dim)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out
}

func (h *HashProvider) add(acc []float64, feature string, weight float64) {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(feature))
	sum := hasher.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
