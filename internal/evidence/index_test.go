package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex[span](nil)
	assert.Empty(t, idx.FindOverlaps("chr1", 1, 100))
	assert.Equal(t, 0, idx.Len())
}

func TestIndex_Boundaries(t *testing.T) {
	idx := BuildIndex([]span{{"chr1", 100, 200}})

	assert.Len(t, idx.FindOverlaps("chr1", 150, 150), 1)
	assert.Len(t, idx.FindOverlaps("chr1", 100, 100), 1, "start boundary inclusive")
	assert.Len(t, idx.FindOverlaps("chr1", 200, 200), 1, "end boundary inclusive")
	assert.Empty(t, idx.FindOverlaps("chr1", 99, 99), "before start")
	assert.Empty(t, idx.FindOverlaps("chr1", 201, 201), "after end")
	assert.Len(t, idx.FindOverlaps("chr1", 50, 100), 1, "range touching start")
	assert.Empty(t, idx.FindOverlaps("chr2", 150, 150), "other contig")
}

func TestIndex_Overlapping(t *testing.T) {
	idx := BuildIndex([]span{
		{"chr1", 200, 400},
		{"chr1", 100, 300},
		{"chr1", 150, 250},
		{"chr2", 100, 300},
	})
	assert.Equal(t, 4, idx.Len())

	got := idx.FindOverlaps("chr1", 175, 175)
	assert.Equal(t, []span{{"chr1", 100, 300}, {"chr1", 150, 250}}, got)

	assert.Len(t, idx.FindOverlaps("chr1", 250, 250), 3)
	assert.Equal(t, []span{{"chr1", 200, 400}}, idx.FindOverlaps("chr1", 350, 500))
}

func TestIndex_LongIntervalBeforeShortOnes(t *testing.T) {
	idx := BuildIndex([]span{
		{"chr1", 1, 1000},
		{"chr1", 10, 20},
		{"chr1", 30, 40},
	})

	got := idx.FindOverlaps("chr1", 500, 600)
	assert.Equal(t, []span{{"chr1", 1, 1000}}, got)
}
