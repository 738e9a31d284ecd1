package feed

import (
	"slices"
)

// Accumulator owns the run-wide identifier set and item collection. It is
// not safe for concurrent use; a single goroutine folds candidates into it
// in source order.
type Accumulator struct {
	seen       map[string]struct{}
	items      []Item
	duplicates int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		seen: make(map[string]struct{}),
	}
}

// Add normalizes and stores c unless its identifier was already seen.
func (a *Accumulator) Add(c Candidate, rule Rule) bool {
	if _, ok := a.seen[c.GUID]; ok {
		a.duplicates++
		return false
	}

	a.seen[c.GUID] = struct{}{}
	a.items = append(a.items, Normalize(c, rule))
	return true
}

func (a *Accumulator) Len() int {
	return len(a.items)
}

func (a *Accumulator) Duplicates() int {
	return a.duplicates
}

// Items returns the collected items newest first, truncated to maxItems
// when maxItems is positive. Items with equal publish times keep the
// order they were added in.
func (a *Accumulator) Items(maxItems int) []Item {
	items := slices.Clone(a.items)
	slices.SortStableFunc(items, func(x, y Item) int {
		return y.PublishedAt.Compare(x.PublishedAt)
	})

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}
