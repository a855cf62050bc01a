package evidence

import "sort"

// Index provides overlap queries over locatable items using a sorted-slice
// approach. Items are indexed once and never modified after build.
type Index[E Locatable] struct {
	byContig map[string]*contigIndex[E]
}

type contigIndex[E Locatable] struct {
	items  []E
	maxEnd []int64 // maxEnd[i] = max(End) for items[:i+1]
}

// BuildIndex creates an index over the given items.
func BuildIndex[E Locatable](items []E) *Index[E] {
	idx := &Index[E]{byContig: make(map[string]*contigIndex[E])}

	for _, it := range items {
		ci := idx.byContig[it.Contig()]
		if ci == nil {
			ci = &contigIndex[E]{}
			idx.byContig[it.Contig()] = ci
		}
		ci.items = append(ci.items, it)
	}

	for _, ci := range idx.byContig {
		sort.SliceStable(ci.items, func(i, j int) bool {
			return ci.items[i].Start() < ci.items[j].Start()
		})

		// Prefix-max array: maxEnd[i] = max(end) for items[:i+1]
		ci.maxEnd = make([]int64, len(ci.items))
		for i, it := range ci.items {
			ci.maxEnd[i] = it.End()
			if i > 0 && ci.maxEnd[i-1] > ci.maxEnd[i] {
				ci.maxEnd[i] = ci.maxEnd[i-1]
			}
		}
	}

	return idx
}

// Len returns the number of indexed items.
func (idx *Index[E]) Len() int {
	n := 0
	for _, ci := range idx.byContig {
		n += len(ci.items)
	}
	return n
}

// FindOverlaps returns all items on contig whose [Start, End] range overlaps
// [start, end]. Results are ordered by start position.
func (idx *Index[E]) FindOverlaps(contig string, start, end int64) []E {
	ci := idx.byContig[contig]
	if ci == nil || len(ci.items) == 0 {
		return nil
	}

	// Candidates must have start <= end; hi is the first index past them.
	hi := sort.Search(len(ci.items), func(i int) bool {
		return ci.items[i].Start() > end
	})

	// maxEnd is non-decreasing, so skip the prefix that ends before start.
	lo := sort.Search(hi, func(i int) bool {
		return ci.maxEnd[i] >= start
	})

	var result []E
	for i := lo; i < hi; i++ {
		if ci.items[i].End() >= start {
			result = append(result, ci.items[i])
		}
	}
	return result
}
