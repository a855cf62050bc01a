package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-sb/internal/vcf"
)

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "#CHROM\tPOS\tREF\tALT\tSAMPLE\tGT\tREF_FWD\tREF_REV\tALT_FWD\tALT_REV\n", buf.String())
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	v := &vcf.Variant{
		Chrom: "12",
		Pos:   25245351,
		Ref:   "C",
		Alt:   "A",
		Genotypes: []*vcf.Genotype{
			{Sample: "TUMOR", Alleles: []string{"0", "1"}, Keys: []string{"SB"}, Fields: map[string]string{"SB": "23,30,33,18"}},
			{Sample: "NORMAL", Alleles: []string{".", "."}, Fields: map[string]string{}},
		},
	}

	require.NoError(t, w.Write(v))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "12\t25245351\tC\tA\tTUMOR\t0/1\t23\t30\t33\t18", lines[0])
	assert.Equal(t, "12\t25245351\tC\tA\tNORMAL\t./.\t.\t.\t.\t.", lines[1])
}
