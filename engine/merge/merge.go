// Package merge combines per-partition partial counts into one total
// mapping. Folding is associative and commutative, so partials may be
// combined sequentially or pairwise in a reduction tree without
// changing the result.
package merge

import "keytop/engine/types"

// Fold adds every count of src into dst and returns dst. dst may be
// nil, in which case a fresh mapping is allocated. src is not modified.
func Fold(dst, src types.Counts) types.Counts {
	if dst == nil {
		dst = make(types.Counts, len(src))
	}
	for key, n := range src {
		dst.Add(key, n)
	}
	return dst
}

// Merge folds the partial mappings into a single mapping, left to
// right. No partials yields an empty mapping.
func Merge(partials []types.Counts) types.Counts {
	merged := make(types.Counts)
	for _, p := range partials {
		merged = Fold(merged, p)
	}
	return merged
}
