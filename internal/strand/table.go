// Package strand builds allele-by-strand read count tables.
//
// A table has two rows, reference and alternate allele, and two columns,
// forward and reverse strand. Its flattened form is
// [refForward, refReverse, altForward, altReverse].
package strand

import (
	"errors"
	"fmt"

	"github.com/inodb/vibe-sb/internal/likelihood"
	"github.com/inodb/vibe-sb/internal/vcf"
)

// Dim is the number of rows and columns of a strand table.
const Dim = 2

// Row and column indices.
const (
	Ref     = 0
	Alt     = 1
	Forward = 0
	Reverse = 1
)

// ErrMalformedTable is returned when a table is not Dim x Dim.
var ErrMalformedTable = errors.New("malformed strand bias table")

// Table counts informative reads by allele and strand for the given samples
// at site v. Reads whose best allele is neither the reference nor v's primary
// alternate allele are ignored. A sample contributes only when its total
// count exceeds minCount.
func Table(lk *likelihood.Matrix, v *vcf.Variant, minCount int, samples []string) [][]int {
	table := [][]int{make([]int, Dim), make([]int, Dim)}
	if lk == nil || v == nil {
		return table
	}

	refIdx := lk.AlleleIndex(v.Ref)
	altIdx := lk.AlleleIndex(v.PrimaryAlt())

	for _, sample := range samples {
		var st [Dim][Dim]int
		total := 0
		for _, ba := range lk.BestAlleles(sample) {
			if !ba.IsInformative() {
				continue
			}
			var row int
			switch ba.Allele {
			case refIdx:
				row = Ref
			case altIdx:
				row = Alt
			default:
				continue
			}
			col := Forward
			if ba.Read.Reverse {
				col = Reverse
			}
			st[row][col]++
			total++
		}

		if total <= minCount {
			continue
		}
		for r := range Dim {
			for c := range Dim {
				table[r][c] += st[r][c]
			}
		}
	}

	return table
}

// Flatten turns a 2x2 table into [refForward, refReverse, altForward, altReverse].
func Flatten(table [][]int) ([]int, error) {
	if len(table) != Dim {
		return nil, fmt.Errorf("%w: expecting a %dx%d table, got %d rows", ErrMalformedTable, Dim, Dim, len(table))
	}
	out := make([]int, 0, Dim*Dim)
	for i, row := range table {
		if len(row) != Dim {
			return nil, fmt.Errorf("%w: expecting a %dx%d table, row %d has %d columns", ErrMalformedTable, Dim, Dim, i, len(row))
		}
		out = append(out, row...)
	}
	return out, nil
}

// AltForwardCount returns the alternate-allele forward-strand count of a
// flattened table.
func AltForwardCount(flat []int) int {
	return flat[Alt*Dim+Forward]
}

// AltReverseCount returns the alternate-allele reverse-strand count of a
// flattened table.
func AltReverseCount(flat []int) int {
	return flat[Alt*Dim+Reverse]
}
