// Package views derives display state from fetched lists. Filtering happens
// in two stages: server parameters select what is fetched, client predicates
// narrow the fetched slice in memory.
package views

// Predicate reports whether an item should be shown.
type Predicate[T any] func(T) bool

// Pipeline pairs the arguments sent to the server with the predicates applied
// to the response.
type Pipeline[A, T any] struct {
	Server A
	Client []Predicate[T]
}

// Apply runs the client stage over items.
func (p Pipeline[A, T]) Apply(items []T) []T {
	return Filter(items, p.Client...)
}

// Filter returns the items matching every predicate. Nil predicates are
// skipped. The input slice is not modified.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchAll[T any](item T, preds []Predicate[T]) bool {
	for _, pred := range preds {
		if pred != nil && !pred(item) {
			return false
		}
	}
	return true
}

// Count returns how many items match pred.
func Count[T any](items []T, pred Predicate[T]) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}
