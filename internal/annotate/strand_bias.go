package annotate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-sb/internal/likelihood"
	"github.com/inodb/vibe-sb/internal/strand"
	"github.com/inodb/vibe-sb/internal/vcf"
)

// TableBuilder builds an allele-by-strand table for samples at site v.
type TableBuilder func(lk *likelihood.Matrix, v *vcf.Variant, minCount int, samples []string) [][]int

// StrandBiasBySample records the number of forward and reverse reads that
// support the reference and alternate alleles, as the SB FORMAT field:
//
//	GT:AD:SB  0/1:53,51:23,30,33,18
//
// Here the reference allele has 23 forward and 30 reverse reads, and the
// alternate allele 33 forward and 18 reverse reads.
type StrandBiasBySample struct {
	tables TableBuilder
	logger *zap.Logger
}

// NewStrandBiasBySample creates the annotation using strand.Table.
func NewStrandBiasBySample() *StrandBiasBySample {
	return &StrandBiasBySample{
		tables: strand.Table,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for skipped genotypes.
func (s *StrandBiasBySample) SetLogger(l *zap.Logger) {
	s.logger = l
}

// SetTableBuilder replaces the table builder.
func (s *StrandBiasBySample) SetTableBuilder(b TableBuilder) {
	s.tables = b
}

// Annotate implements GenotypeAnnotation. Genotypes that are not called, or
// sites without evidence, are left untouched.
func (s *StrandBiasBySample) Annotate(_ *ReferenceContext, v *vcf.Variant, g *vcf.Genotype, gb *vcf.GenotypeBuilder, lk *likelihood.Matrix) error {
	switch {
	case v == nil:
		return fmt.Errorf("%w: variant", ErrNilArgument)
	case g == nil:
		return fmt.Errorf("%w: genotype", ErrNilArgument)
	case gb == nil:
		return fmt.Errorf("%w: genotype builder", ErrNilArgument)
	}

	if lk == nil || !g.IsCalled() {
		s.logger.Warn("annotation will not be calculated, genotype is not called or likelihoods are missing",
			zap.String("key", vcf.KeyStrandBiasBySample),
			zap.String("chrom", v.Chrom),
			zap.Int64("pos", v.Pos),
			zap.String("sample", g.Sample),
			zap.Bool("called", g.IsCalled()),
			zap.Bool("has_likelihoods", lk != nil))
		return nil
	}

	table := s.tables(lk, v, 0, []string{g.Sample})
	flat, err := strand.Flatten(table)
	if err != nil {
		return fmt.Errorf("%s:%d sample %s: %w", v.Chrom, v.Pos, g.Sample, err)
	}

	gb.Attribute(vcf.KeyStrandBiasBySample, flat)
	return nil
}

// KeyNames implements GenotypeAnnotation.
func (s *StrandBiasBySample) KeyNames() []string {
	return []string{vcf.KeyStrandBiasBySample}
}

// Descriptions implements GenotypeAnnotation.
func (s *StrandBiasBySample) Descriptions() []vcf.FormatHeaderLine {
	return []vcf.FormatHeaderLine{vcf.StrandBiasBySampleLine}
}
