package segment

import (
	"bytes"
	"io"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	entries := []struct {
		key   string
		count uint64
	}{
		{"alpha", 1},
		{"beta", 1 << 40},
		{"", 7},
		{"multi word key", 3},
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, e := range entries {
		if err := w.Append(e.key, e.count); err != nil {
			t.Fatalf("Append(%q, %d): %v", e.key, e.count, err)
		}
	}
	hash, err := w.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if hash == "" {
		t.Fatal("Flush returned empty hash")
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))
	for i, e := range entries {
		key, count, err := r.Next()
		if err != nil {
			t.Fatalf("Next record %d: %v", i, err)
		}
		if key != e.key || count != e.count {
			t.Errorf("record %d = (%q, %d); want (%q, %d)", i, key, count, e.key, e.count)
		}
	}
	if _, _, err := r.Next(); err != io.EOF {
		t.Errorf("Next after last record = %v; want io.EOF", err)
	}
}

func TestHashStable(t *testing.T) {
	write := func() string {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.Append("key", 42); err != nil {
			t.Fatal(err)
		}
		hash, err := w.Flush()
		if err != nil {
			t.Fatal(err)
		}
		return hash
	}
	if a, b := write(), write(); a != b {
		t.Errorf("hashes of identical segments differ: %s vs %s", a, b)
	}
}

func TestTruncatedSegment(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Append("abcdefgh", 99); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	r := NewReader(bytes.NewReader(data[:len(data)-3]))
	if _, _, err := r.Next(); err == nil || err == io.EOF {
		t.Errorf("Next on truncated segment = %v; want parse error", err)
	}
}
