// Package driver orchestrates a counting run: partition discovery,
// parallel per-partition aggregation, merging, and top-K selection.
package driver

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"keytop/driver/taskmgr"
	"keytop/engine/aggregate"
	"keytop/engine/merge"
	"keytop/engine/topk"
	"keytop/engine/types"
	"keytop/utils"
)

// Config configures a run.
type Config struct {
	// K is the number of ranked entries to report.
	K int
	// Workers bounds how many partitions are aggregated at once and
	// how wide the merge tree fans in. 0 means GOMAXPROCS.
	Workers int
	// Aggregate carries the per-partition aggregation options.
	Aggregate aggregate.Options
}

// Run counts the keys of every partition in inputDir and returns the
// K most frequent ones, count descending with ascending-key ties.
// Partitions are aggregated in parallel and their partial counts are
// handed to the merge tree as they complete. The first partition
// failure aborts the run: unstarted partitions are skipped and nothing
// is returned.
func Run(inputDir string, cfg Config) ([]types.Entry, error) {
	partitions, err := discover(inputDir)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	parts := partitions.Items()
	log.Printf("[driver] %d partitions in %s, %d workers", len(parts), inputDir, workers)

	// The merge tree consumes partials while aggregation is still
	// running. Each partial is sent exactly once; the buffer lets
	// aggregation finish even if merging lags.
	partials := make(chan types.Counts, len(parts))
	mergedCh := make(chan types.Counts, 1)
	go func() {
		mergedCh <- merge.Tree(partials, workers)
	}()

	mgr := taskmgr.NewTaskManager(workers, func(path string) error {
		counts, err := aggregate.Partition(path, cfg.Aggregate)
		if err != nil {
			return &PartitionError{Partition: path, Err: err}
		}
		log.Printf("[driver] partition %s: %d distinct keys", path, len(counts))
		partials <- counts
		return nil
	})
	for _, path := range parts {
		mgr.AddTask(path)
	}
	err = mgr.Run()
	close(partials)
	merged := <-mergedCh
	if err != nil {
		return nil, err
	}
	return topk.Select(merged, cfg.K), nil
}

// discover enumerates the partition files of inputDir, each exactly
// once, in name order. The returned list is the single source of truth
// for which partitions the run processes.
func discover(inputDir string) (*utils.OrderedList[string], error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputDir)
		}
		return nil, err
	}
	partitions := utils.NewOrderedList[string]()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		partitions.Add(filepath.Join(inputDir, entry.Name()))
	}
	if partitions.Len() == 0 {
		return nil, fmt.Errorf("%w: no partitions in %s", ErrInputNotFound, inputDir)
	}
	return partitions, nil
}
