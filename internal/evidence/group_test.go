package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct {
	contig     string
	start, end int64
}

func (s span) Contig() string { return s.contig }
func (s span) Start() int64   { return s.start }
func (s span) End() int64     { return s.end }

func TestNewGroup_Empty(t *testing.T) {
	g, err := NewGroup[span](nil)
	require.ErrorIs(t, err, ErrEmptyGroup)
	assert.Nil(t, g)

	_, err = NewGroup([]span{})
	require.ErrorIs(t, err, ErrEmptyGroup)
}

func TestNewGroup_StartAndContig(t *testing.T) {
	g, err := NewGroup([]span{
		{"chr1", 5, 20},
		{"chr1", 10, 15},
		{"chr1", 7, 9},
	})
	require.NoError(t, err)

	assert.Equal(t, "chr1", g.Contig())
	assert.Equal(t, int64(5), g.Start())
	assert.Equal(t, 3, g.Len())
}

func TestNewGroup_EndUsesItemEnds(t *testing.T) {
	g, err := NewGroup([]span{
		{"chr1", 5, 120},
		{"chr1", 10, 60},
		{"chr1", 7, 300},
	})
	require.NoError(t, err)

	// Largest end, not largest start (10).
	assert.Equal(t, int64(300), g.End())
}

func TestNewGroup_FirstContigWins(t *testing.T) {
	g, err := NewGroup([]span{
		{"chr1", 5, 5},
		{"chr1", 10, 10},
		{"chr1", 7, 7},
		{"chr2", 1, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "chr1", g.Contig())
	assert.Equal(t, int64(1), g.Start())
	assert.Equal(t, 4, g.Len())
}

func TestNewGroup_OrderPreservedAndCopied(t *testing.T) {
	items := []span{{"chr1", 30, 40}, {"chr1", 10, 20}}
	g, err := NewGroup(items)
	require.NoError(t, err)

	items[0] = span{"chrX", 1, 1}
	assert.Equal(t, span{"chr1", 30, 40}, g.At(0))
	assert.Equal(t, span{"chr1", 10, 20}, g.At(1))

	out := g.Items()
	out[1] = span{"chrY", 1, 1}
	assert.Equal(t, span{"chr1", 10, 20}, g.At(1))

	var starts []int64
	for _, it := range g.All() {
		starts = append(starts, it.Start())
	}
	assert.Equal(t, []int64{30, 10}, starts)
}

func TestGroup_IsLocatable(t *testing.T) {
	inner, err := NewGroup([]span{{"chr3", 100, 150}})
	require.NoError(t, err)

	outer, err := NewGroup([]*Group[span]{inner})
	require.NoError(t, err)
	assert.Equal(t, "chr3", outer.Contig())
	assert.Equal(t, int64(100), outer.Start())
	assert.Equal(t, int64(150), outer.End())
}
