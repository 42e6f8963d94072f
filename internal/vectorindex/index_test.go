package vectorindex

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/types"
)

var kinds = []Kind{KindFlat, KindChromem}

func randomVectors(r *rand.Rand, n, dim int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dim)
		for j := range out[i] {
			out[i][j] = float32(r.NormFloat64())
		}
	}
	return out
}

func TestIndex_OrderingAndBound(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(7))
	vectors := randomVectors(r, 25, 16)
	query := randomVectors(r, 1, 16)[0]

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			idx, err := Build(ctx, kind, 16, vectors)
			require.NoError(t, err)
			assert.Equal(t, 25, idx.Len())
			assert.Equal(t, 16, idx.Dimension())

			for _, k := range []int{1, 5, 25, 40} {
				hits, err := idx.Query(ctx, query, k)
				require.NoError(t, err)
				assert.Len(t, hits, min(k, 25))
				for i := 1; i < len(hits); i++ {
					assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
				}
			}
		})
	}
}

func TestIndex_SelfSimilarity(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(11))
	vectors := randomVectors(r, 10, 32)

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			idx, err := Build(ctx, kind, 32, vectors)
			require.NoError(t, err)
			for i, v := range vectors {
				hits, err := idx.Query(ctx, v, 1)
				require.NoError(t, err)
				require.Len(t, hits, 1)
				assert.Equal(t, i, hits[0].Position)
				assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
			}
		})
	}
}

func TestIndex_TiesBreakByPosition(t *testing.T) {
	ctx := context.Background()
	vectors := [][]float32{
		{0, 1},
		{1, 0},
		{2, 0},
		{0, 3},
		{5, 0},
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			idx, err := Build(ctx, kind, 2, vectors)
			require.NoError(t, err)

			hits, err := idx.Query(ctx, []float32{1, 0}, 2)
			require.NoError(t, err)
			require.Len(t, hits, 2)
			assert.Equal(t, 1, hits[0].Position)
			assert.Equal(t, 2, hits[1].Position)

			all, err := idx.Query(ctx, []float32{1, 0}, 10)
			require.NoError(t, err)
			positions := make([]int, len(all))
			for i, h := range all {
				positions[i] = h.Position
			}
			assert.Equal(t, []int{1, 2, 4, 0, 3}, positions)
		})
	}
}

func TestIndex_Empty(t *testing.T) {
	ctx := context.Background()
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			idx, err := Build(ctx, kind, 8, nil)
			require.NoError(t, err)
			assert.Equal(t, 0, idx.Len())

			hits, err := idx.Query(ctx, make([]float32, 8), 5)
			require.NoError(t, err)
			assert.Empty(t, hits)
		})
	}
}

func TestIndex_ZeroVectors(t *testing.T) {
	ctx := context.Background()
	vectors := [][]float32{{0, 0}, {1, 0}, {0, 0}}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			idx, err := Build(ctx, kind, 2, vectors)
			require.NoError(t, err)

			hits, err := idx.Query(ctx, []float32{1, 0}, 3)
			require.NoError(t, err)
			assert.Equal(t, []Hit{{1, 1}, {0, 0}, {2, 0}}, hits)

			hits, err = idx.Query(ctx, []float32{0, 0}, 2)
			require.NoError(t, err)
			assert.Equal(t, []Hit{{0, 0}, {1, 0}}, hits)
		})
	}
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			_, err := Build(ctx, kind, 3, [][]float32{{1, 2, 3}, {1, 2}})
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
			assert.Equal(t, types.StageIndexing, types.StageOf(err))

			idx, err := Build(ctx, kind, 3, [][]float32{{1, 2, 3}})
			require.NoError(t, err)
			_, err = idx.Query(ctx, []float32{1, 2}, 1)
			assert.Equal(t, types.StageIndexing, types.StageOf(err))
		})
	}
}

func TestBuild_UnknownKind(t *testing.T) {
	_, err := Build(context.Background(), "hnsw", 2, nil)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestCosine(t *testing.T) {
	assert.Equal(t, 0.6, Cosine([]float32{1, 0}, []float32{3, 4}))
	assert.InDelta(t, 1.0, Cosine([]float32{2, 2}, []float32{5, 5}), 1e-12)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-2, 0}), 1e-12)
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
}
