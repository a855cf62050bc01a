// Package likelihood holds per-read allele likelihood evidence for a site.
package likelihood

import (
	"fmt"
	"math"

	"github.com/inodb/vibe-sb/internal/evidence"
)

// InformativeThreshold is the minimum log10 likelihood difference between the
// best and second-best allele for a read to count as support.
const InformativeThreshold = 0.2

// Read is a sequencing read used as allele evidence.
type Read struct {
	Name    string
	Chrom   string
	Pos     int64 // 1-based alignment start
	EndPos  int64 // 1-based inclusive alignment end
	Reverse bool  // read aligned to the reverse strand
}

// Contig returns the read's contig.
func (r *Read) Contig() string { return r.Chrom }

// Start returns the read's alignment start.
func (r *Read) Start() int64 { return r.Pos }

// End returns the read's alignment end.
func (r *Read) End() int64 { return r.EndPos }

// Matrix stores log10 likelihoods of each read supporting each allele,
// organized by sample. Allele index 0 is the reference allele.
type Matrix struct {
	alleles  []string
	samples  []string
	bySample map[string]*sampleEvidence
}

type sampleEvidence struct {
	reads  []*Read
	values [][]float64 // values[read][allele]
}

// BestAllele is the most likely allele for a single read.
type BestAllele struct {
	Read       *Read
	Allele     int     // index into Matrix.Alleles
	Likelihood float64 // log10 likelihood of the best allele
	Confidence float64 // best minus second-best log10 likelihood
}

// IsInformative reports whether the read discriminates between alleles.
func (b BestAllele) IsInformative() bool {
	return b.Confidence > InformativeThreshold
}

// NewMatrix creates an empty matrix over the given alleles.
func NewMatrix(alleles []string) *Matrix {
	return &Matrix{
		alleles:  append([]string(nil), alleles...),
		bySample: make(map[string]*sampleEvidence),
	}
}

// Alleles returns the allele list; index 0 is the reference.
func (m *Matrix) Alleles() []string { return m.alleles }

// AlleleIndex returns the index of allele, or -1 if absent.
func (m *Matrix) AlleleIndex(allele string) int {
	for i, a := range m.alleles {
		if a == allele {
			return i
		}
	}
	return -1
}

// Samples returns the sample names in the order they were first added.
func (m *Matrix) Samples() []string { return m.samples }

// Reads returns the reads recorded for sample.
func (m *Matrix) Reads(sample string) []*Read {
	se := m.bySample[sample]
	if se == nil {
		return nil
	}
	return se.reads
}

// Add records the per-allele log10 likelihoods of read for sample.
func (m *Matrix) Add(sample string, read *Read, lks []float64) error {
	if len(lks) != len(m.alleles) {
		return fmt.Errorf("read %s: got %d likelihoods for %d alleles", read.Name, len(lks), len(m.alleles))
	}
	m.addRow(sample, read, append([]float64(nil), lks...))
	return nil
}

func (m *Matrix) addRow(sample string, read *Read, lks []float64) {
	se := m.bySample[sample]
	if se == nil {
		se = &sampleEvidence{}
		m.bySample[sample] = se
		m.samples = append(m.samples, sample)
	}
	se.reads = append(se.reads, read)
	se.values = append(se.values, lks)
}

// BestAlleles returns the best allele of every read of sample.
// Ties are broken toward the lower allele index.
func (m *Matrix) BestAlleles(sample string) []BestAllele {
	se := m.bySample[sample]
	if se == nil {
		return nil
	}

	result := make([]BestAllele, len(se.reads))
	for r, row := range se.values {
		best, second := -1, -1
		for a, v := range row {
			switch {
			case best < 0 || v > row[best]:
				second = best
				best = a
			case second < 0 || v > row[second]:
				second = a
			}
		}

		ba := BestAllele{Read: se.reads[r], Allele: best, Confidence: math.Inf(1)}
		if best >= 0 {
			ba.Likelihood = row[best]
		}
		if second >= 0 {
			ba.Confidence = row[best] - row[second]
		}
		result[r] = ba
	}
	return result
}

// RetainOverlapping returns a new matrix holding only the reads of fragments
// that overlap [start, end] on contig. Reads sharing a name within a sample
// form one fragment; a fragment is kept or dropped as a whole.
func (m *Matrix) RetainOverlapping(contig string, start, end int64) *Matrix {
	out := NewMatrix(m.alleles)

	for _, sample := range m.samples {
		se := m.bySample[sample]

		var names []string
		rowsByName := make(map[string][]int)
		for i, r := range se.reads {
			if _, ok := rowsByName[r.Name]; !ok {
				names = append(names, r.Name)
			}
			rowsByName[r.Name] = append(rowsByName[r.Name], i)
		}

		fragments := make([]*fragment, 0, len(names))
		for _, name := range names {
			rows := rowsByName[name]
			reads := make([]*Read, len(rows))
			for i, row := range rows {
				reads[i] = se.reads[row]
			}
			// reads is never empty here
			g, _ := evidence.NewGroup(reads)
			fragments = append(fragments, &fragment{Group: g, rows: rows})
		}

		idx := evidence.BuildIndex(fragments)
		for _, f := range idx.FindOverlaps(contig, start, end) {
			for _, row := range f.rows {
				out.addRow(sample, se.reads[row], se.values[row])
			}
		}
	}

	return out
}

type fragment struct {
	*evidence.Group[*Read]
	rows []int
}
