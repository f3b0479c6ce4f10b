package types

// Counts is a mapping from key to occurrence count. A Counts value is
// owned by exactly one goroutine at a time: an aggregator while its
// partition is being consumed, then the merger once it has been handed
// over. It MUST be defined in a shared package imported by the
// aggregation, merge and selection stages so they agree on the type.
type Counts map[string]uint64

// Add increments the count for key by n.
func (c Counts) Add(key string, n uint64) {
	c[key] += n
}

// Total returns the sum of all counts, i.e. the number of extraction
// events the mapping was built from.
func (c Counts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += n
	}
	return total
}

// Clone returns a copy of the mapping.
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, n := range c {
		out[k] = n
	}
	return out
}

// Entry is one ranked result record: a key and its merged count.
type Entry struct {
	Key   string
	Count uint64
}
