package store

import "slices"

// Apply filters items with pred and sorts the survivors with cmp.
// The input slice is not modified.
func Apply[T any](items []T, pred Predicate[T], cmp Comparator[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred == nil || pred(it) {
			out = append(out, it)
		}
	}
	if cmp != nil {
		slices.SortFunc(out, cmp)
	}
	return out
}
