// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"strconv"
	"strings"
)

// Variant represents a single VCF record together with its sample genotypes.
type Variant struct {
	Chrom     string                 // Chromosome name (e.g., "12", "chr12")
	Pos       int64                  // 1-based genomic position
	ID        string                 // Variant identifier (e.g., rs ID)
	Ref       string                 // Reference allele
	Alt       string                 // Alternate alleles, comma-separated
	Qual      float64                // Quality score
	Filter    string                 // Filter status (PASS or filter name)
	Info      map[string]interface{} // INFO field key-value pairs
	RawInfo   string                 // INFO column as read
	Format    []string               // FORMAT keys as read
	Genotypes []*Genotype            // one per sample column
}

// Alts returns the alternate alleles.
func (v *Variant) Alts() []string {
	if v.Alt == "" || v.Alt == "." {
		return nil
	}
	return strings.Split(v.Alt, ",")
}

// PrimaryAlt returns the alternate allele with the highest INFO AC count.
// Without a usable AC it returns the first alternate allele.
func (v *Variant) PrimaryAlt() string {
	alts := v.Alts()
	if len(alts) == 0 {
		return ""
	}
	if len(alts) == 1 {
		return alts[0]
	}

	ac, ok := v.Info["AC"].(string)
	if !ok {
		return alts[0]
	}
	counts := strings.Split(ac, ",")
	if len(counts) != len(alts) {
		return alts[0]
	}

	best, bestCount := 0, int64(-1)
	for i, c := range counts {
		n, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return alts[0]
		}
		if n > bestCount {
			best, bestCount = i, n
		}
	}
	return alts[best]
}

// Genotype returns the genotype of the named sample, or nil.
func (v *Variant) Genotype(sample string) *Genotype {
	for _, g := range v.Genotypes {
		if g.Sample == sample {
			return g
		}
	}
	return nil
}

// SampleNames returns the sample names of the record's genotypes.
func (v *Variant) SampleNames() []string {
	names := make([]string, len(v.Genotypes))
	for i, g := range v.Genotypes {
		names[i] = g.Sample
	}
	return names
}
