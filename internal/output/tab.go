// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-sb/internal/vcf"
)

// TabWriter writes one tab-delimited row per sample and site with the
// strand counts split into columns.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#CHROM",
			"POS",
			"REF",
			"ALT",
			"SAMPLE",
			"GT",
			"REF_FWD",
			"REF_REV",
			"ALT_FWD",
			"ALT_REV",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a row for every genotype of v. Genotypes without strand
// counts get "." in the count columns.
func (tw *TabWriter) Write(v *vcf.Variant) error {
	for _, g := range v.Genotypes {
		counts := []string{".", ".", ".", "."}
		if sb, ok := g.Get(vcf.KeyStrandBiasBySample); ok {
			if parts := strings.Split(sb, ","); len(parts) == len(counts) {
				counts = parts
			}
		}

		fields := []string{
			v.Chrom,
			strconv.FormatInt(v.Pos, 10),
			v.Ref,
			v.Alt,
			g.Sample,
			g.GT(),
		}
		fields = append(fields, counts...)

		if _, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
