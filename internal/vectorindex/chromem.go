package vectorindex

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/jonathan/smart-applier/internal/types"
)

// Chromem is an index backed by an in-memory chromem-go collection. Zero
// vectors are kept outside the collection, which cannot normalise them, and
// score 0 against every query.
type Chromem struct {
	dim        int
	n          int
	collection *chromem.Collection
	zeros      []int
}

// NewChromem builds a chromem-backed index
func NewChromem(ctx context.Context, dim int, vectors [][]float32) (*Chromem, error) {
	if err := checkDimensions(dim, vectors); err != nil {
		return nil, err
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection("jobs", nil, nil)
	if err != nil {
		return nil, types.NewStageError(types.StageIndexing, nil, "create collection", err)
	}

	c := &Chromem{dim: dim, n: len(vectors), collection: collection}
	docs := make([]chromem.Document, 0, len(vectors))
	for i, v := range vectors {
		u := unit(v)
		if isZero(u) {
			c.zeros = append(c.zeros, i)
			continue
		}
		emb := make([]float32, dim)
		for j, x := range u {
			emb[j] = float32(x)
		}
		docs = append(docs, chromem.Document{ID: strconv.Itoa(i), Embedding: emb})
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, 1); err != nil {
			return nil, types.NewStageError(types.StageIndexing, nil, "add documents", err)
		}
	}
	return c, nil
}

// Query returns the k stored vectors most similar to query. All stored
// vectors are scored so that ties at the cut-off resolve by position.
func (c *Chromem) Query(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != c.dim {
		return nil, dimensionMismatch("query vector", len(query), c.dim)
	}
	if k <= 0 || c.n == 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, 0, c.n)
	if isZero(unit(query)) {
		for i := 0; i < c.n; i++ {
			hits = append(hits, Hit{Position: i, Score: 0})
		}
		return rank(hits, k), nil
	}
	for _, pos := range c.zeros {
		hits = append(hits, Hit{Position: pos, Score: 0})
	}

	count := c.collection.Count()
	if count > 0 {
		results, err := c.collection.QueryEmbedding(ctx, query, count, nil, nil)
		if err != nil {
			return nil, types.NewStageError(types.StageIndexing, nil, "query collection", err)
		}
		for _, r := range results {
			pos, err := strconv.Atoi(r.ID)
			if err != nil {
				return nil, types.NewStageError(types.StageIndexing, nil,
					fmt.Sprintf("unexpected document id %q", r.ID), err)
			}
			score := float64(r.Similarity)
			if math.IsNaN(score) {
				score = 0
			}
			hits = append(hits, Hit{Position: pos, Score: score})
		}
	}
	return rank(hits, k), nil
}

// Len returns the number of stored vectors
func (c *Chromem) Len() int { return c.n }

// Dimension returns the vector length
func (c *Chromem) Dimension() int { return c.dim }

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
