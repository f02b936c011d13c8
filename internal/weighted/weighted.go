// Package weighted picks one entry from a table of conditional, weighted
// candidates.
package weighted

import "github.com/tatianab/library-of-memories/internal/rng"

// Entry is one candidate. A nil When is always eligible.
type Entry[C, V any] struct {
	Weight int
	When   func(C) bool
	Value  V
}

// Eligible reports whether the entry may be chosen for ctx.
func (e Entry[C, V]) Eligible(ctx C) bool {
	return e.When == nil || e.When(ctx)
}

// Choose filters entries by eligibility, draws r in [0,total) from src and
// returns the first eligible entry whose cumulative weight exceeds r. When
// nothing is selected it falls back to the first unconditional entry. The
// boolean is false only if no entry could be returned at all.
func Choose[C, V any](src rng.Source, entries []Entry[C, V], ctx C) (V, bool) {
	eligible := make([]Entry[C, V], 0, len(entries))
	total := 0
	for _, e := range entries {
		if e.Eligible(ctx) {
			eligible = append(eligible, e)
			total += e.Weight
		}
	}

	if len(eligible) > 0 && total > 0 {
		r := src.Float64() * float64(total)
		cumulative := 0
		for _, e := range eligible {
			cumulative += e.Weight
			if r < float64(cumulative) {
				return e.Value, true
			}
		}
	}

	for _, e := range entries {
		if e.When == nil {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}
