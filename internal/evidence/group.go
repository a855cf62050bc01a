// Package evidence provides containers for genomically located evidence.
package evidence

import (
	"errors"
	"iter"
)

// ErrEmptyGroup is returned when a group is built from no evidence.
var ErrEmptyGroup = errors.New("evidence group must have at least one item")

// Locatable is anything positioned on a reference contig.
// Coordinates are 1-based and inclusive.
type Locatable interface {
	Contig() string
	Start() int64
	End() int64
}

// Group bundles several evidence items (e.g. the reads of one fragment)
// and exposes a single bounding span for all of them.
//
// The span is computed once at construction. Items on other contigs than the
// first are not rejected; the group reports the first item's contig.
type Group[E Locatable] struct {
	items  []E
	contig string
	start  int64
	end    int64
}

// NewGroup creates a group from a non-empty list of items.
// The items are copied, so later changes to the slice do not affect the group.
func NewGroup[E Locatable](items []E) (*Group[E], error) {
	if len(items) == 0 {
		return nil, ErrEmptyGroup
	}

	g := &Group[E]{
		items:  make([]E, len(items)),
		contig: items[0].Contig(),
		start:  items[0].Start(),
		end:    items[0].End(),
	}
	copy(g.items, items)

	for _, it := range items[1:] {
		if s := it.Start(); s < g.start {
			g.start = s
		}
		if e := it.End(); e > g.end {
			g.end = e
		}
	}

	return g, nil
}

// Contig returns the contig of the first item.
func (g *Group[E]) Contig() string { return g.contig }

// Start returns the smallest start coordinate of the items.
func (g *Group[E]) Start() int64 { return g.start }

// End returns the largest end coordinate of the items.
func (g *Group[E]) End() int64 { return g.end }

// Len returns the number of items.
func (g *Group[E]) Len() int { return len(g.items) }

// At returns the i-th item in insertion order.
func (g *Group[E]) At(i int) E { return g.items[i] }

// Items returns a copy of the items in insertion order.
func (g *Group[E]) Items() []E {
	out := make([]E, len(g.items))
	copy(out, g.items)
	return out
}

// All iterates over the items in insertion order.
func (g *Group[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		for i, it := range g.items {
			if !yield(i, it) {
				return
			}
		}
	}
}
