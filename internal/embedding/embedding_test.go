package embedding

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smart-applier/internal/types"
)

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func TestHashProvider_Deterministic(t *testing.T) {
	ctx := context.Background()
	p, err := NewHash(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultHashDimension, p.Dimension())

	a, err := p.Embed(ctx, "python sql tableau")
	require.NoError(t, err)
	b, err := p.Embed(ctx, "python sql tableau")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultHashDimension)
}

func TestHashProvider_UnitLength(t *testing.T) {
	p, err := NewHash(128)
	require.NoError(t, err)
	v, err := p.Embed(context.Background(), "distributed systems engineer")
	require.NoError(t, err)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestHashProvider_EmptyTextIsZero(t *testing.T) {
	p, err := NewHash(64)
	require.NoError(t, err)
	v, err := p.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 64), v)
}

func TestHashProvider_Similarity(t *testing.T) {
	ctx := context.Background()
	p, err := NewHash(0)
	require.NoError(t, err)

	embed := func(s string) []float32 {
		v, err := p.Embed(ctx, s)
		require.NoError(t, err)
		return v
	}

	assert.InDelta(t, 1.0, cosine(embed("python"), embed("python")), 1e-5)
	assert.Less(t, cosine(embed("python"), embed("java")), 0.5)
	assert.Greater(t, cosine(embed("python sql"), embed("python tableau")),
		cosine(embed("python sql"), embed("java")))
}

func TestHashProvider_EmbedBatchOrder(t *testing.T) {
	ctx := context.Background()
	p, err := NewHash(0)
	require.NoError(t, err)

	texts := []string{"go", "", "docker"}
	batch, err := p.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	for i, text := range texts {
		single, err := p.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}

	empty, err := p.EmbedBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNewHash_TooSmall(t *testing.T) {
	_, err := NewHash(4)
	assert.ErrorIs(t, err, types.ErrModelUnavailable)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("default is hash", func(t *testing.T) {
		p, err := New(ctx, Config{})
		require.NoError(t, err)
		assert.IsType(t, &HashProvider{}, p)
	})

	t.Run("cache wraps provider", func(t *testing.T) {
		p, err := New(ctx, Config{Backend: BackendHash, CacheSize: 10})
		require.NoError(t, err)
		assert.IsType(t, &Cached{}, p)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(ctx, Config{Backend: "word2vec"})
		assert.ErrorIs(t, err, types.ErrModelUnavailable)
		assert.Equal(t, types.StageEmbedding, types.StageOf(err))
	})

	t.Run("gemini without key fails fast", func(t *testing.T) {
		_, err := New(ctx, Config{Backend: BackendGemini})
		assert.ErrorIs(t, err, types.ErrModelUnavailable)
	})

	t.Run("openai without key fails fast", func(t *testing.T) {
		_, err := New(ctx, Config{Backend: BackendOpenAI})
		assert.ErrorIs(t, err, types.ErrModelUnavailable)
	})
}

type countingProvider struct {
	mu    sync.Mutex
	calls int
	texts []string
	inner *HashProvider
}

func (c *countingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	c.calls++
	c.texts = append(c.texts, text)
	c.mu.Unlock()
	return c.inner.Embed(ctx, text)
}

func (c *countingProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	c.calls++
	c.texts = append(c.texts, texts...)
	c.mu.Unlock()
	return c.inner.EmbedBatch(ctx, texts)
}

func (c *countingProvider) Dimension() int { return c.inner.Dimension() }
func (c *countingProvider) Model() string  { return "counting" }

func TestCached(t *testing.T) {
	ctx := context.Background()
	h, err := NewHash(0)
	require.NoError(t, err)
	inner := &countingProvider{inner: h}
	c := NewCached(inner, 100)

	first, err := c.EmbedBatch(ctx, []string{"go", "rust"})
	require.NoError(t, err)
	second, err := c.EmbedBatch(ctx, []string{"rust", "go", "zig"})
	require.NoError(t, err)

	assert.Equal(t, first[0], second[1])
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, []string{"go", "rust", "zig"}, inner.texts)

	single, err := c.Embed(ctx, "zig")
	require.NoError(t, err)
	assert.Equal(t, second[2], single)
	assert.Equal(t, 2, inner.calls)

	hits, misses := c.Stats()
	assert.Equal(t, 3, hits)
	assert.Equal(t, 3, misses)
	assert.Equal(t, h.Dimension(), c.Dimension())
	assert.Equal(t, "counting", c.Model())
}

func TestCached_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	h, err := NewHash(0)
	require.NoError(t, err)
	c := NewCached(h, 100)

	v, err := c.Embed(ctx, "go")
	require.NoError(t, err)
	v[0] = 42

	again, err := c.Embed(ctx, "go")
	require.NoError(t, err)
	assert.NotEqual(t, float32(42), again[0])
}

func TestCached_ClearsAtLimit(t *testing.T) {
	ctx := context.Background()
	h, err := NewHash(0)
	require.NoError(t, err)
	inner := &countingProvider{inner: h}
	c := NewCached(inner, 1)

	_, err = c.Embed(ctx, "a")
	require.NoError(t, err)
	_, err = c.Embed(ctx, "b")
	require.NoError(t, err)
	_, err = c.Embed(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestScatter(t *testing.T) {
	nonEmpty, pos := splitEmpty([]string{"", "a", "", "b"})
	assert.Equal(t, []string{"a", "b"}, nonEmpty)
	assert.Equal(t, []int{1, 3}, pos)

	out := scatter(4, 2, pos, [][]float32{{1, 1}, {2, 2}})
	assert.Equal(t, [][]float32{{0, 0}, {1, 1}, {0, 0}, {2, 2}}, out)
}
