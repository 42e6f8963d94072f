package skillgap

import (
	"sort"

	"github.com/jonathan/smart-applier/internal/types"
)

// RankMissingSkills orders missing terms by how many jobs demand them, most
// first, then by mean similarity, lowest first, then by term. scores maps a
// term to its per-job best similarity. Mean values are reported rounded to 3
// decimals; ranking uses the unrounded means.
func RankMissingSkills(scores map[string][]float64) []types.MissingSkill {
	type entry struct {
		term  string
		count int
		mean  float64
	}
	entries := make([]entry, 0, len(scores))
	for term, s := range scores {
		if len(s) == 0 {
			continue
		}
		var sum float64
		for _, v := range s {
			sum += v
		}
		entries = append(entries, entry{term: term, count: len(s), mean: sum / float64(len(s))})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		if entries[i].mean != entries[j].mean {
			return entries[i].mean < entries[j].mean
		}
		return entries[i].term < entries[j].term
	})

	ranked := make([]types.MissingSkill, len(entries))
	for i, e := range entries {
		ranked[i] = types.MissingSkill{
			Term:           e.term,
			Occurrences:    e.count,
			MeanSimilarity: round(e.mean, similarityDecimals),
			MeanDeficit:    round(1-e.mean, similarityDecimals),
		}
	}
	return ranked
}
