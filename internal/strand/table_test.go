package strand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-sb/internal/likelihood"
	"github.com/inodb/vibe-sb/internal/vcf"
)

var (
	refSupport = []float64{-0.1, -5.0}
	altSupport = []float64{-5.0, -0.1}
	noSupport  = []float64{-1.0, -1.05}
)

func addReads(t *testing.T, m *likelihood.Matrix, sample string, n int, reverse bool, lks []float64) {
	t.Helper()
	for i := range n {
		r := &likelihood.Read{Name: sample, Chrom: "1", Pos: int64(i + 1), EndPos: int64(i + 100), Reverse: reverse}
		require.NoError(t, m.Add(sample, r, lks))
	}
}

func TestTable_CountsByAlleleAndStrand(t *testing.T) {
	m := likelihood.NewMatrix([]string{"C", "A"})
	addReads(t, m, "S1", 23, false, refSupport)
	addReads(t, m, "S1", 30, true, refSupport)
	addReads(t, m, "S1", 33, false, altSupport)
	addReads(t, m, "S1", 18, true, altSupport)
	addReads(t, m, "S1", 7, false, noSupport)
	addReads(t, m, "S2", 5, false, altSupport)

	v := &vcf.Variant{Chrom: "1", Pos: 50, Ref: "C", Alt: "A"}

	assert.Equal(t, [][]int{{23, 30}, {33, 18}}, Table(m, v, 0, []string{"S1"}))
	assert.Equal(t, [][]int{{23, 30}, {38, 18}}, Table(m, v, 0, []string{"S1", "S2"}))
	assert.Equal(t, [][]int{{0, 0}, {0, 0}}, Table(m, v, 0, []string{"S3"}))
}

func TestTable_MinCount(t *testing.T) {
	m := likelihood.NewMatrix([]string{"C", "A"})
	addReads(t, m, "S1", 3, false, altSupport)
	addReads(t, m, "S2", 10, true, refSupport)
	v := &vcf.Variant{Ref: "C", Alt: "A"}

	assert.Equal(t, [][]int{{0, 10}, {0, 0}}, Table(m, v, 3, []string{"S1", "S2"}),
		"a sample at exactly minCount is dropped")
}

func TestTable_OtherAllelesIgnored(t *testing.T) {
	m := likelihood.NewMatrix([]string{"C", "A", "G"})
	for i := range 4 {
		r := &likelihood.Read{Name: "g", Chrom: "1", Pos: 1, EndPos: 100, Reverse: i%2 == 1}
		require.NoError(t, m.Add("S1", r, []float64{-5, -5, 0}))
	}
	addReads(t, m, "S1", 2, true, []float64{-5, 0, -5})
	v := &vcf.Variant{Ref: "C", Alt: "A,G"}

	assert.Equal(t, [][]int{{0, 0}, {0, 2}}, Table(m, v, 0, []string{"S1"}))
}

func TestTable_NilInputs(t *testing.T) {
	assert.Equal(t, [][]int{{0, 0}, {0, 0}}, Table(nil, &vcf.Variant{}, 0, []string{"S1"}))
}

func TestFlatten(t *testing.T) {
	flat, err := Flatten([][]int{{23, 30}, {33, 18}})
	require.NoError(t, err)
	assert.Equal(t, []int{23, 30, 33, 18}, flat)

	for _, w := range []int{0, 1, 9} {
		for _, z := range []int{0, 4} {
			flat, err := Flatten([][]int{{w, 2}, {3, z}})
			require.NoError(t, err)
			assert.Equal(t, []int{w, 2, 3, z}, flat)
		}
	}
}

func TestFlatten_Malformed(t *testing.T) {
	tables := map[string][][]int{
		"3x2":        {{1, 2}, {3, 4}, {5, 6}},
		"2x3":        {{1, 2, 3}, {4, 5, 6}},
		"ragged":     {{1, 2}, {3}},
		"empty":      {},
		"single row": {{1, 2}},
		"nil":        nil,
	}
	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			flat, err := Flatten(table)
			require.ErrorIs(t, err, ErrMalformedTable)
			assert.Nil(t, flat)
		})
	}
}

func TestFlattenedAccessors(t *testing.T) {
	flat := []int{1, 2, 3, 4}
	assert.Equal(t, 3, AltForwardCount(flat))
	assert.Equal(t, 4, AltReverseCount(flat))

	flat = []int{23, 30, 33, 18}
	assert.Equal(t, 33, AltForwardCount(flat))
	assert.Equal(t, 18, AltReverseCount(flat))
}
