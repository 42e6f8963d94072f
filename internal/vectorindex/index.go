// Package vectorindex provides exact cosine nearest-neighbour search over a
// fixed set of vectors. Indexes are built per query batch and never mutated.
package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/smart-applier/internal/types"
)

// Hit is a query result: the position of the stored vector in the build input
// and its cosine similarity to the query.
type Hit struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

// Index answers top-k cosine similarity queries.
// Results are ordered by descending score, ties by ascending position, and
// hold min(k, Len()) entries.
type Index interface {
	Query(ctx context.Context, query []float32, k int) ([]Hit, error)
	Len() int
	Dimension() int
}

// Kind names an index implementation
type Kind string

// Kind constants
const (
	KindFlat    Kind = "flat"
	KindChromem Kind = "chromem"
)

// Build constructs an index of the given kind. An empty kind selects KindFlat.
func Build(ctx context.Context, kind Kind, dim int, vectors [][]float32) (Index, error) {
	switch kind {
	case "", KindFlat:
		return NewFlat(dim, vectors)
	case KindChromem:
		return NewChromem(ctx, dim, vectors)
	default:
		return nil, types.NewStageError(types.StageIndexing, types.ErrInvalidInput,
			fmt.Sprintf("unknown index kind %q", kind), nil)
	}
}

// Cosine returns the cosine similarity of a and b computed in float64.
// A zero vector has similarity 0 with everything. a and b must share a length.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// unit returns v scaled to unit length in float64; the zero vector stays zero
func unit(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func checkDimensions(dim int, vectors [][]float32) error {
	if dim <= 0 {
		return types.NewStageError(types.StageIndexing, types.ErrInvalidInput,
			fmt.Sprintf("index dimension must be positive, got %d", dim), nil)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return dimensionMismatch(fmt.Sprintf("vector %d", i), len(v), dim)
		}
	}
	return nil
}

func dimensionMismatch(what string, got, want int) error {
	return types.NewStageError(types.StageIndexing, types.ErrInvalidInput,
		fmt.Sprintf("%s has dimension %d, index expects %d", what, got, want), nil)
}

// rank sorts hits by descending score then ascending position and keeps k
func rank(hits []Hit, k int) []Hit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Position < hits[j].Position
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}
