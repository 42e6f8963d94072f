// Package skillgap finds job skill terms a profile does not semantically
// cover and ranks them across a job corpus.
package skillgap

import (
	"context"
	"fmt"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/parsing"
	"github.com/jonathan/smart-applier/internal/types"
	"github.com/jonathan/smart-applier/internal/vectorindex"
)

// SkillSet is a de-duplicated list of skill terms with their embeddings,
// computed once and reused for every comparison.
type SkillSet struct {
	provider embedding.Provider
	terms    []string
	known    map[string]bool
	vectors  [][]float32
}

// NewSkillSet embeds the distinct skills of terms in one batch
func NewSkillSet(ctx context.Context, provider embedding.Provider, terms []string) (*SkillSet, error) {
	keys := parsing.DedupeTerms(terms)
	vecs, err := embedKeys(ctx, provider, keys)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[parsing.CanonicalSkill(k)] = true
	}
	return &SkillSet{provider: provider, terms: keys, known: known, vectors: vecs}, nil
}

// Terms returns the distinct skill terms in first-seen order
func (s *SkillSet) Terms() []string {
	return append([]string(nil), s.terms...)
}

// Len returns the number of distinct skills
func (s *SkillSet) Len() int { return len(s.terms) }

// BestSimilarities returns, for each distinct term of terms in first-seen
// order, the maximum cosine similarity against the set. Terms are compared
// under their canonical key and reported in their own wording; a term whose
// key is already in the set scores exactly 1.
func (s *SkillSet) BestSimilarities(ctx context.Context, terms []string) ([]types.SkillSimilarity, error) {
	keys := parsing.DedupeTerms(terms)
	if len(keys) == 0 {
		return []types.SkillSimilarity{}, nil
	}

	var (
		toEmbed []string
		pos     []int
	)
	out := make([]types.SkillSimilarity, len(keys))
	for i, k := range keys {
		out[i].Term = k
		if s.known[parsing.CanonicalSkill(k)] {
			out[i].Similarity = 1
			continue
		}
		toEmbed = append(toEmbed, k)
		pos = append(pos, i)
	}
	if len(toEmbed) == 0 {
		return out, nil
	}

	vecs, err := embedKeys(ctx, s.provider, toEmbed)
	if err != nil {
		return nil, err
	}
	for j, v := range vecs {
		out[pos[j]].Similarity = s.maxSimilarity(v)
	}
	return out, nil
}

func (s *SkillSet) maxSimilarity(v []float32) float64 {
	if len(s.vectors) == 0 {
		return 0
	}
	best := -1.0
	for _, u := range s.vectors {
		if len(u) != len(v) {
			continue
		}
		if sim := vectorindex.Cosine(u, v); sim > best {
			best = sim
		}
	}
	return best
}

func embedKeys(ctx context.Context, provider embedding.Provider, keys []string) ([][]float32, error) {
	if len(keys) == 0 {
		return [][]float32{}, nil
	}
	texts := make([]string, len(keys))
	for i, k := range keys {
		texts[i] = parsing.Normalize(parsing.CanonicalSkill(k))
	}
	vecs, err := provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, types.WrapStage(types.StageEmbedding, "embed skill terms", err)
	}
	if len(vecs) != len(keys) {
		return nil, types.NewStageError(types.StageEmbedding, nil,
			fmt.Sprintf("provider returned %d vectors for %d terms", len(vecs), len(keys)), nil)
	}
	for i, v := range vecs {
		if len(v) != provider.Dimension() {
			return nil, types.NewStageError(types.StageEmbedding, nil,
				fmt.Sprintf("vector %d has dimension %d, provider declares %d", i, len(v), provider.Dimension()), nil)
		}
	}
	return vecs, nil
}
