package merge

import (
	"sync"

	"keytop/engine/types"
)

// Tree folds the partial mappings arriving on in into a single mapping.
// Up to workers goroutines drain the channel concurrently, each folding
// into a local accumulator; the accumulators are then combined pairwise
// in rounds until one remains. Ownership of each partial transfers into
// the tree exactly once, and by associativity and commutativity of Fold
// the result is identical to a sequential Merge.
func Tree(in <-chan types.Counts, workers int) types.Counts {
	if workers < 1 {
		workers = 1
	}
	locals := make(chan types.Counts, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var local types.Counts
			for p := range in {
				local = Fold(local, p)
			}
			if local != nil {
				locals <- local
			}
		}()
	}
	wg.Wait()
	close(locals)

	parts := make([]types.Counts, 0, workers)
	for p := range locals {
		parts = append(parts, p)
	}
	return reduce(parts)
}

// reduce combines the mappings pairwise, halving the slice each round.
func reduce(parts []types.Counts) types.Counts {
	if len(parts) == 0 {
		return make(types.Counts)
	}
	for len(parts) > 1 {
		half := (len(parts) + 1) / 2
		next := make([]types.Counts, half)
		var wg sync.WaitGroup
		for i := 0; i < len(parts)/2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				next[i] = Fold(parts[2*i], parts[2*i+1])
			}(i)
		}
		if len(parts)%2 == 1 {
			next[half-1] = parts[len(parts)-1]
		}
		wg.Wait()
		parts = next
	}
	return parts[0]
}
