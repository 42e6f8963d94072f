package embedding

import (
	"context"
	"sync"
)

// Cached memoises another provider's vectors by exact text. When the cache
// reaches its size limit it is cleared wholesale.
type Cached struct {
	inner Provider
	limit int

	mu      sync.RWMutex
	vectors map[string][]float32
	hits    int
	misses  int
}

// NewCached wraps p with a cache holding at most limit vectors
func NewCached(p Provider, limit int) *Cached {
	return &Cached{
		inner:   p,
		limit:   limit,
		vectors: make(map[string][]float32),
	}
}

// Embed returns the cached vector for text or computes and stores it
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.get(text); ok {
		return v, nil
	}
	v, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(text, v)
	return clone(v), nil
}

// EmbedBatch embeds only the texts not already cached
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var (
		missing []string
		pos     []int
	)
	for i, t := range texts {
		if v, ok := c.get(t); ok {
			out[i] = v
			continue
		}
		missing = append(missing, t)
		pos = append(pos, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := c.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for i, v := range vecs {
		c.put(missing[i], v)
		out[pos[i]] = clone(v)
	}
	return out, nil
}

// Dimension returns the wrapped provider's dimension
func (c *Cached) Dimension() int { return c.inner.Dimension() }

// Model returns the wrapped provider's model name
func (c *Cached) Model() string { return c.inner.Model() }

// Stats returns the cache hit and miss counts
func (c *Cached) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *Cached) get(text string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vectors[text]
	if ok {
		c.hits++
		return clone(v), true
	}
	c.misses++
	return nil, false
}

func (c *Cached) put(text string, v []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.vectors) >= c.limit {
		c.vectors = make(map[string][]float32)
	}
	c.vectors[text] = clone(v)
}

func clone(v []float32) []float32 {
	return append([]float32(nil), v...)
}
