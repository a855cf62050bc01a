package vcf

import "fmt"

// Standard FORMAT keys.
const (
	KeyGenotype           = "GT"
	KeyAlleleDepth        = "AD"
	KeyDepth              = "DP"
	KeyGenotypeQuality    = "GQ"
	KeyPhredLikelihoods   = "PL"
	KeyStrandBiasBySample = "SB"
)

// FormatHeaderLine describes a FORMAT field in the VCF header.
type FormatHeaderLine struct {
	ID          string
	Number      string // count, or one of A, R, G, .
	Type        string // Integer, Float, Character, String
	Description string
}

// String renders the line as it appears in a VCF header.
func (h FormatHeaderLine) String() string {
	return fmt.Sprintf("##FORMAT=<ID=%s,Number=%s,Type=%s,Description=%q>",
		h.ID, h.Number, h.Type, h.Description)
}

// StrandBiasBySampleLine declares the per-sample SB field.
var StrandBiasBySampleLine = FormatHeaderLine{
	ID:          KeyStrandBiasBySample,
	Number:      "4",
	Type:        "Integer",
	Description: "Per-sample component statistics which comprise the Fisher's Exact Test to detect strand bias.",
}

var formatLines = map[string]FormatHeaderLine{
	KeyGenotype:           {KeyGenotype, "1", "String", "Genotype"},
	KeyAlleleDepth:        {KeyAlleleDepth, "R", "Integer", "Allelic depths for the ref and alt alleles in the order listed"},
	KeyDepth:              {KeyDepth, "1", "Integer", "Approximate read depth (reads with MQ=255 or with bad mates are filtered)"},
	KeyGenotypeQuality:    {KeyGenotypeQuality, "1", "Integer", "Genotype Quality"},
	KeyPhredLikelihoods:   {KeyPhredLikelihoods, "G", "Integer", "Normalized, Phred-scaled likelihoods for genotypes as defined in the VCF specification"},
	KeyStrandBiasBySample: StrandBiasBySampleLine,
}

// FormatLine returns the standard header line for a FORMAT key.
func FormatLine(id string) (FormatHeaderLine, bool) {
	h, ok := formatLines[id]
	return h, ok
}
