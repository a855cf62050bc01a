package annotate

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-sb/internal/likelihood"
	"github.com/inodb/vibe-sb/internal/vcf"
)

// LikelihoodLookup finds the read evidence recorded for a biallelic site.
type LikelihoodLookup interface {
	Lookup(chrom string, pos int64, ref, alt string) *likelihood.Matrix
}

// Annotator runs genotype annotations over every sample of a variant.
type Annotator struct {
	lookup      LikelihoodLookup
	annotations []GenotypeAnnotation
	workers     int
	logger      *zap.Logger
}

// NewAnnotator creates an annotator that reads evidence from lookup.
// A nil lookup means no site has evidence.
func NewAnnotator(lookup LikelihoodLookup, annotations ...GenotypeAnnotation) *Annotator {
	return &Annotator{
		lookup:      lookup,
		annotations: annotations,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// SetWorkers sets the number of annotation workers used by AnnotateAll.
// Zero or less uses runtime.NumCPU().
func (a *Annotator) SetWorkers(n int) {
	a.workers = n
}

// HeaderLines returns the FORMAT header lines of all annotations.
func (a *Annotator) HeaderLines() []vcf.FormatHeaderLine {
	var lines []vcf.FormatHeaderLine
	for _, ann := range a.annotations {
		lines = append(lines, ann.Descriptions()...)
	}
	return lines
}

// Annotate runs every annotation for every genotype of v and returns a copy
// of v with the rebuilt genotypes. v itself is not modified.
func (a *Annotator) Annotate(v *vcf.Variant) (*vcf.Variant, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: variant", ErrNilArgument)
	}

	var lk *likelihood.Matrix
	end := v.Pos + int64(len(v.Ref)) - 1
	if a.lookup != nil {
		lk = a.lookup.Lookup(v.Chrom, v.Pos, v.Ref, v.PrimaryAlt())
	}
	if lk != nil {
		lk = lk.RetainOverlapping(v.Chrom, v.Pos, end)
	}

	ref := &ReferenceContext{Contig: v.Chrom, Start: v.Pos, End: end, Bases: v.Ref}

	out := *v
	out.Genotypes = make([]*vcf.Genotype, len(v.Genotypes))
	for i, g := range v.Genotypes {
		gb := vcf.NewGenotypeBuilder(g)
		for _, ann := range a.annotations {
			if err := ann.Annotate(ref, v, g, gb, lk); err != nil {
				return nil, err
			}
		}
		if gb.Len() == 0 {
			out.Genotypes[i] = g
			continue
		}
		out.Genotypes[i] = gb.Make()
	}

	return &out, nil
}

// AnnotateAll annotates all variants from a parser and writes them in input
// order. The first annotation error stops the run.
func (a *Annotator) AnnotateAll(parser vcf.VariantParser, writer VariantWriter) error {
	items := make(chan WorkItem, 2*runtime.NumCPU())
	done := make(chan struct{})
	var parseErr error
	variantCount := 0

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			select {
			case items <- WorkItem{Seq: seq, Variant: v}:
			case <-done:
				return
			}
			variantCount++
			seq++
		}
	}()

	results := a.ParallelAnnotate(items, a.workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		err := r.Err
		if err != nil {
			err = fmt.Errorf("annotate %s:%d: %w", r.Variant.Chrom, r.Variant.Pos, err)
		} else if werr := writer.Write(r.Annotated); werr != nil {
			err = fmt.Errorf("write variant: %w", werr)
		}
		if err != nil {
			// stop reading input; OrderedCollect drains what is in flight
			close(done)
		}
		return err
	}); err != nil {
		return err
	}

	if parseErr != nil {
		return parseErr
	}

	if variantCount == 0 {
		a.logger.Info("0 variants processed")
	} else {
		a.logger.Info("annotation finished", zap.Int("variants", variantCount))
	}

	return writer.Flush()
}

// VariantWriter defines the interface for writing annotated variants.
type VariantWriter interface {
	WriteHeader() error
	Write(v *vcf.Variant) error
	Flush() error
}
