// Package annotate computes per-sample FORMAT annotations for variants.
package annotate

import (
	"errors"

	"github.com/inodb/vibe-sb/internal/likelihood"
	"github.com/inodb/vibe-sb/internal/vcf"
)

// ErrNilArgument is returned when a required argument is nil.
var ErrNilArgument = errors.New("nil argument")

// ReferenceContext is the reference sequence spanned by a site.
type ReferenceContext struct {
	Contig string
	Start  int64
	End    int64
	Bases  string
}

// GenotypeAnnotation adds FORMAT attributes for one sample at one site.
type GenotypeAnnotation interface {
	// Annotate writes attributes for g to gb. lk may be nil when the site
	// has no read evidence.
	Annotate(ref *ReferenceContext, v *vcf.Variant, g *vcf.Genotype, gb *vcf.GenotypeBuilder, lk *likelihood.Matrix) error

	// KeyNames lists the FORMAT keys the annotation can produce.
	KeyNames() []string

	// Descriptions returns the header lines for KeyNames.
	Descriptions() []vcf.FormatHeaderLine
}
