package vectorindex

import (
	"context"
)

// Flat is an exact, brute-force inner-product index over unit vectors
type Flat struct {
	dim     int
	vectors [][]float64
}

// NewFlat builds a flat index. Every vector must have length dim; an empty
// vector set is allowed.
func NewFlat(dim int, vectors [][]float32) (*Flat, error) {
	if err := checkDimensions(dim, vectors); err != nil {
		return nil, err
	}
	f := &Flat{dim: dim, vectors: make([][]float64, len(vectors))}
	for i, v := range vectors {
		f.vectors[i] = unit(v)
	}
	return f, nil
}

// Query returns the k stored vectors most similar to query
func (f *Flat) Query(_ context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != f.dim {
		return nil, dimensionMismatch("query vector", len(query), f.dim)
	}
	if k <= 0 || len(f.vectors) == 0 {
		return []Hit{}, nil
	}

	q := unit(query)
	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		var dot float64
		for j := range v {
			dot += v[j] * q[j]
		}
		hits[i] = Hit{Position: i, Score: dot}
	}
	return rank(hits, k), nil
}

// Len returns the number of stored vectors
func (f *Flat) Len() int { return len(f.vectors) }

// Dimension returns the vector length
func (f *Flat) Dimension() int { return f.dim }
