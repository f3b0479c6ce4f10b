// Package aggregate builds per-partition key counts. Each call to
// Partition owns its mapping exclusively until it is handed to the
// merge stage; partitions share no state and may run concurrently.
package aggregate

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"unicode/utf8"

	"keytop/engine/extract"
	"keytop/engine/types"
)

// Options configures a per-partition aggregation.
type Options struct {
	// SpillKeys is the number of distinct keys held in memory before
	// the mapping is spilled to a disk segment. 0 disables spilling.
	SpillKeys int
	// SpillDir is where spill segments are written. Empty means the
	// system temp directory.
	SpillDir string
	// MinFree is the minimum free space, in bytes, the spill volume
	// must have for a spill to be attempted.
	MinFree uint64
}

// maxRecordSize bounds a single record line.
const maxRecordSize = 1024 * 1024

// Partition consumes the partition file at path, record by record, and
// returns the mapping from extracted key to occurrence count. Records
// that are not valid UTF-8 are skipped with a warning; any I/O failure
// aborts the partition. An empty partition yields an empty mapping.
func Partition(path string, opts Options) (types.Counts, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var sp *spiller
	if opts.SpillKeys > 0 {
		sp = newSpiller(opts)
		defer sp.cleanup()
	}

	counts := make(types.Counts)
	skipped := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxRecordSize)
	for scanner.Scan() {
		record := scanner.Text()
		if !utf8.ValidString(record) {
			skipped++
			continue
		}
		key, ok := extract.FirstField(record)
		if !ok {
			continue
		}
		counts.Add(key, 1)
		if sp != nil && len(counts) >= opts.SpillKeys {
			if err := sp.flush(counts); err != nil {
				return nil, fmt.Errorf("spill partition %s: %w", path, err)
			}
			counts = make(types.Counts)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if skipped > 0 {
		log.Printf("[aggregate] partition %s: skipped %d records with invalid encoding", path, skipped)
	}
	if sp == nil || len(sp.segments) == 0 {
		return counts, nil
	}
	return sp.merge(counts)
}
