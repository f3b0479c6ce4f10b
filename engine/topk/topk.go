// Package topk selects the highest-count entries from a merged
// mapping.
package topk

import (
	"sort"

	"keytop/engine/types"
)

// Select returns the k entries with the highest counts, ordered by
// count descending with ties broken by ascending key. The full entry
// set is sorted before truncation, so the output does not depend on
// the mapping's iteration order and Select(c, k1) is a prefix of
// Select(c, k2) for k1 < k2.
func Select(counts types.Counts, k int) []types.Entry {
	if k < 0 {
		k = 0
	}
	entries := make([]types.Entry, 0, len(counts))
	for key, n := range counts {
		entries = append(entries, types.Entry{Key: key, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}
