package merge

import (
	"fmt"
	"reflect"
	"testing"

	"keytop/engine/types"
)

func TestMergeSinglePartial(t *testing.T) {
	p := types.Counts{"a": 2, "b": 1}
	got := Merge([]types.Counts{p})
	if !reflect.DeepEqual(got, p) {
		t.Errorf("Merge([p]) = %v; want %v", got, p)
	}
}

func TestMergeCommutative(t *testing.T) {
	p1 := types.Counts{"x": 2, "y": 1}
	p2 := types.Counts{"y": 2, "z": 1}
	ab := Merge([]types.Counts{p1, p2})
	ba := Merge([]types.Counts{p2, p1})
	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("merge order changed the result: %v vs %v", ab, ba)
	}
}

func TestMergeAssociative(t *testing.T) {
	p1 := types.Counts{"a": 1, "b": 2}
	p2 := types.Counts{"b": 3, "c": 4}
	p3 := types.Counts{"a": 5, "c": 6}
	left := Merge([]types.Counts{Merge([]types.Counts{p1, p2}), p3})
	right := Merge([]types.Counts{p1, Merge([]types.Counts{p2, p3})})
	if !reflect.DeepEqual(left, right) {
		t.Errorf("merge grouping changed the result: %v vs %v", left, right)
	}
}

func TestMergeConservesCounts(t *testing.T) {
	partials := []types.Counts{
		{"a": 3, "b": 1},
		{"b": 2, "c": 7},
		{},
		{"a": 1},
	}
	var want uint64
	for _, p := range partials {
		want += p.Total()
	}
	merged := Merge(partials)
	if got := merged.Total(); got != want {
		t.Errorf("merged total = %d; want %d", got, want)
	}
}

func TestMergeNoPartials(t *testing.T) {
	got := Merge(nil)
	if len(got) != 0 {
		t.Errorf("Merge(nil) = %v; want empty", got)
	}
}

func TestFoldDoesNotModifySource(t *testing.T) {
	src := types.Counts{"a": 1}
	Fold(types.Counts{"a": 5}, src)
	if src["a"] != 1 {
		t.Errorf("Fold modified src: %v", src)
	}
}

func TestTreeMatchesSequentialMerge(t *testing.T) {
	partials := make([]types.Counts, 0, 17)
	for i := 0; i < 17; i++ {
		p := make(types.Counts)
		p.Add(fmt.Sprintf("k%d", i%5), uint64(i+1))
		p.Add("common", 1)
		partials = append(partials, p)
	}
	want := Merge(partials)
	for _, workers := range []int{1, 2, 4, 8} {
		in := make(chan types.Counts, len(partials))
		for _, p := range partials {
			in <- p
		}
		close(in)
		got := Tree(in, workers)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Tree with %d workers = %v; want %v", workers, got, want)
		}
	}
}

func TestTreeNoPartials(t *testing.T) {
	in := make(chan types.Counts)
	close(in)
	got := Tree(in, 4)
	if len(got) != 0 {
		t.Errorf("Tree on closed empty channel = %v; want empty", got)
	}
}
