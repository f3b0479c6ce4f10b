package aggregate

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/sys/unix"

	"keytop/engine/types"
	"keytop/segment"
	"keytop/utils"
)

var (
	errSegmentHashMismatch = errors.New("spill segment hash mismatch")
	errSpillSpace          = errors.New("not enough free space to spill")
)

type segmentInfo struct {
	path string
	hash string
}

// spiller writes overflowing mappings as key-sorted segment files and
// merges them back once the partition is exhausted. Segments are
// hashed at write time and verified before the merge-back read.
type spiller struct {
	dir      string
	minFree  uint64
	segments []segmentInfo
}

func newSpiller(opts Options) *spiller {
	dir := opts.SpillDir
	if dir == "" {
		dir = os.TempDir()
	}
	return &spiller{dir: dir, minFree: opts.MinFree}
}

// freespace returns the free space of the spill volume
// it only support Unix-like system
func (s *spiller) freespace() (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.dir, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// flush writes counts as a key-sorted segment file and records its
// hash for later verification.
func (s *spiller) flush(counts types.Counts) error {
	if s.minFree > 0 {
		free, err := s.freespace()
		if err != nil {
			return err
		}
		if free < s.minFree {
			return fmt.Errorf("%w: %d bytes available on %s", errSpillSpace, free, s.dir)
		}
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	file, err := os.CreateTemp(s.dir, "keytop-segment-*")
	if err != nil {
		return err
	}
	w := segment.NewWriter(file)
	for _, key := range keys {
		if err := w.Append(key, counts[key]); err != nil {
			file.Close()
			os.Remove(file.Name())
			return err
		}
	}
	hash, err := w.Flush()
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(file.Name())
		return err
	}
	s.segments = append(s.segments, segmentInfo{path: file.Name(), hash: hash})
	return nil
}

// verify re-hashes the segment file and compares it against the hash
// recorded at write time.
func (s *spiller) verify(seg segmentInfo) error {
	file, err := os.Open(seg.path)
	if err != nil {
		return err
	}
	defer file.Close()
	hash, err := utils.HashReader(file)
	if err != nil {
		return err
	}
	if hash != seg.hash {
		return fmt.Errorf("%w: segment %s", errSegmentHashMismatch, seg.path)
	}
	return nil
}

type segmentEntry struct {
	key   string
	count uint64
	idx   int
}

type segmentHeap []segmentEntry

func (h segmentHeap) Len() int           { return len(h) }
func (h segmentHeap) Less(i, j int) bool { return h[i].key < h[j].key }
func (h segmentHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *segmentHeap) Push(x any) {
	*h = append(*h, x.(segmentEntry))
}

func (h *segmentHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// merge flushes the residual mapping as a final segment, then k-way
// merges every segment back into a single mapping.
func (s *spiller) merge(residual types.Counts) (types.Counts, error) {
	if len(residual) > 0 {
		if err := s.flush(residual); err != nil {
			return nil, err
		}
	}
	readers := make([]*segment.Reader, len(s.segments))
	files := make([]*os.File, len(s.segments))
	defer func() {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
	}()

	h := &segmentHeap{}
	heap.Init(h)
	for i, seg := range s.segments {
		if err := s.verify(seg); err != nil {
			return nil, err
		}
		file, err := os.Open(seg.path)
		if err != nil {
			return nil, err
		}
		files[i] = file
		readers[i] = segment.NewReader(file)
		if err := pushNext(h, readers[i], i); err != nil {
			return nil, err
		}
	}

	counts := make(types.Counts)
	for h.Len() > 0 {
		entry := heap.Pop(h).(segmentEntry)
		counts.Add(entry.key, entry.count)
		if err := pushNext(h, readers[entry.idx], entry.idx); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// pushNext reads the next record of the segment and pushes it onto the
// heap. Exhausted segments are left out.
func pushNext(h *segmentHeap, r *segment.Reader, idx int) error {
	key, count, err := r.Next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	heap.Push(h, segmentEntry{key: key, count: count, idx: idx})
	return nil
}

// cleanup removes all spill segments.
func (s *spiller) cleanup() {
	for _, seg := range s.segments {
		os.Remove(seg.path)
	}
}
