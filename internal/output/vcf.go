package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-sb/internal/vcf"
)

// VCFWriter writes annotated variants in VCF format.
// The input header is copied and FORMAT lines for the annotation keys are
// inserted before #CHROM unless the header already declares them.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // original VCF header lines (## and #CHROM)
	formatLines []vcf.FormatHeaderLine
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// SetFormatLines registers FORMAT header lines for annotated keys.
func (vw *VCFWriter) SetFormatLines(lines []vcf.FormatHeaderLine) {
	vw.formatLines = lines
}

// WriteHeader writes the original VCF header lines with the FORMAT lines
// inserted.
func (vw *VCFWriter) WriteHeader() error {
	declared := make(map[string]bool)
	for _, line := range vw.headerLines {
		if id, ok := formatID(line); ok {
			declared[id] = true
		}
	}

	for _, line := range vw.headerLines {
		if strings.HasPrefix(line, "#CHROM") {
			for _, h := range vw.formatLines {
				if declared[h.ID] {
					continue
				}
				declared[h.ID] = true
				if _, err := vw.w.WriteString(h.String() + "\n"); err != nil {
					return err
				}
			}
		}
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// formatID extracts the ID of a ##FORMAT header line.
func formatID(line string) (string, bool) {
	const prefix = "##FORMAT=<ID="
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	rest := line[len(prefix):]
	if i := strings.IndexAny(rest, ",>"); i >= 0 {
		return rest[:i], true
	}
	return rest, true
}

// Write writes one VCF record.
func (vw *VCFWriter) Write(v *vcf.Variant) error {
	var lb strings.Builder
	lb.Grow(256)

	lb.WriteString(v.Chrom)
	lb.WriteByte('\t')
	lb.WriteString(strconv.FormatInt(v.Pos, 10))
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.ID))
	lb.WriteByte('\t')
	lb.WriteString(v.Ref)
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.Alt))
	lb.WriteByte('\t')
	if v.Qual != 0 {
		lb.WriteString(strconv.FormatFloat(v.Qual, 'g', -1, 64))
	} else {
		lb.WriteByte('.')
	}
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.Filter))
	lb.WriteByte('\t')
	lb.WriteString(orDot(v.RawInfo))

	if len(v.Format) > 0 || len(v.Genotypes) > 0 {
		keys := formatKeys(v)
		lb.WriteByte('\t')
		lb.WriteString(strings.Join(keys, ":"))
		for _, g := range v.Genotypes {
			lb.WriteByte('\t')
			for i, key := range keys {
				if i > 0 {
					lb.WriteByte(':')
				}
				val, ok := g.Get(key)
				if !ok || val == "" {
					val = "."
				}
				lb.WriteString(val)
			}
		}
	}

	lb.WriteByte('\n')
	_, err := vw.w.WriteString(lb.String())
	return err
}

// Flush flushes the underlying writer.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}

// formatKeys returns the record's FORMAT keys followed by keys added to any
// genotype, with GT first when present.
func formatKeys(v *vcf.Variant) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	hasGT := false
	for _, k := range v.Format {
		if k == vcf.KeyGenotype {
			hasGT = true
		}
	}
	for _, g := range v.Genotypes {
		if len(g.Alleles) > 0 {
			hasGT = true
		}
	}
	if hasGT {
		add(vcf.KeyGenotype)
	}

	for _, k := range v.Format {
		add(k)
	}
	for _, g := range v.Genotypes {
		for _, k := range g.Keys {
			add(k)
		}
	}
	return keys
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}
