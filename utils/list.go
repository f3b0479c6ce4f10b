package utils

import (
	"cmp"
	"slices"
)

// OrderedList is a sorted list with no duplicates. The driver uses it
// as the single source of truth for partition enumeration: every
// discovered partition is recorded exactly once, in a stable order.
type OrderedList[T cmp.Ordered] struct {
	list []T
}

func NewOrderedList[T cmp.Ordered]() *OrderedList[T] {
	return &OrderedList[T]{
		list: make([]T, 0),
	}
}

func (o *OrderedList[T]) Len() int {
	return len(o.list)
}

// Add inserts the item at its sorted position. Duplicates are dropped.
func (o *OrderedList[T]) Add(item T) *OrderedList[T] {
	i, found := slices.BinarySearch(o.list, item)
	if found {
		return o
	}
	// Make room for new value and add it
	o.list = append(o.list, *new(T))
	copy(o.list[i+1:], o.list[i:])
	o.list[i] = item
	return o
}

// Contains reports whether the item is in the list.
func (o *OrderedList[T]) Contains(item T) bool {
	_, found := slices.BinarySearch(o.list, item)
	return found
}

// Items returns the underlying sorted list.
// take care of the returned list
func (o *OrderedList[T]) Items() []T {
	return o.list
}
