package vcf

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testVCF = `##fileformat=VCFv4.2
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=AD,Number=R,Type=Integer,Description="Allelic depths">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	TUMOR	NORMAL
12	25245351	rs121913529	C	A	1758.6	PASS	DP=104;SOMATIC	GT:AD	0/1:53,51	0/0:60,0
7	140753336	.	A	T,G	.	.	AC=1,3	GT:AD	./.:.	1|2
`

func TestParser_Variants(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(testVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	if got := parser.SampleNames(); len(got) != 2 || got[0] != "TUMOR" || got[1] != "NORMAL" {
		t.Fatalf("unexpected sample names %v", got)
	}
	if len(parser.Header()) != 4 {
		t.Errorf("Expected 4 header lines, got %d", len(parser.Header()))
	}

	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if v == nil {
		t.Fatal("Expected a variant, got nil")
	}

	if v.Chrom != "12" || v.Pos != 25245351 || v.Ref != "C" || v.Alt != "A" {
		t.Errorf("unexpected site %s:%d %s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
	}
	if v.Qual != 1758.6 {
		t.Errorf("Expected qual 1758.6, got %v", v.Qual)
	}
	if v.Info["DP"] != "104" || v.Info["SOMATIC"] != true {
		t.Errorf("unexpected INFO %v", v.Info)
	}
	if v.RawInfo != "DP=104;SOMATIC" {
		t.Errorf("unexpected raw INFO %q", v.RawInfo)
	}
	if len(v.Genotypes) != 2 {
		t.Fatalf("Expected 2 genotypes, got %d", len(v.Genotypes))
	}

	tumor := v.Genotype("TUMOR")
	if tumor == nil || !tumor.IsCalled() || tumor.GT() != "0/1" {
		t.Errorf("unexpected tumor genotype %+v", tumor)
	}
	if ad, _ := tumor.Get(KeyAlleleDepth); ad != "53,51" {
		t.Errorf("Expected AD 53,51, got %s", ad)
	}

	v, err = parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if got := v.Alts(); len(got) != 2 {
		t.Errorf("Expected 2 alts, got %v", got)
	}
	if v.PrimaryAlt() != "G" {
		t.Errorf("Expected primary alt G (highest AC), got %s", v.PrimaryAlt())
	}
	if v.Genotypes[0].IsCalled() {
		t.Error("./. should not be called")
	}
	if !v.Genotypes[1].Phased || v.Genotypes[1].GT() != "1|2" {
		t.Errorf("unexpected phased genotype %+v", v.Genotypes[1])
	}
	if ad, ok := v.Genotypes[1].Get(KeyAlleleDepth); !ok || ad != "." {
		t.Errorf("dropped trailing field should read as '.', got %q", ad)
	}

	v, err = parser.Next()
	if err != nil {
		t.Fatalf("Error checking for more variants: %v", err)
	}
	if v != nil {
		t.Error("Expected no more variants")
	}
	if parser.LineNumber() != 6 {
		t.Errorf("Expected line number 6, got %d", parser.LineNumber())
	}
}

func TestParser_Gzipped(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(testVCF)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "test.vcf.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	parser, err := NewParser(path)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	v, err := parser.Next()
	if err != nil || v == nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if v.Pos != 25245351 {
		t.Errorf("Expected pos 25245351, got %d", v.Pos)
	}
}

func TestParser_SampleColumnMismatch(t *testing.T) {
	input := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t100\t.\tA\tT\t.\t.\t.\tGT\t0/1\t1/1\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, err = parser.Next()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("Expected line 2, got %d", pe.Line)
	}
}

func TestParser_NoTrailingNewline(t *testing.T) {
	input := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t100\t.\tA\tT\t.\t.\t.\tGT\t0/1\n" +
		"1\t200\t.\tG\tC\t.\t.\t.\tGT\t1/1"

	parser, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	var positions []int64
	for {
		v, err := parser.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if v == nil {
			break
		}
		positions = append(positions, v.Pos)
	}

	if len(positions) != 2 || positions[1] != 200 {
		t.Fatalf("Expected positions [100 200], got %v", positions)
	}
	if g := parser.LineNumber(); g != 3 {
		t.Errorf("Expected line number 3, got %d", g)
	}
}

func TestParser_HeaderWithoutNewline(t *testing.T) {
	input := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1"

	parser, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	if got := parser.SampleNames(); len(got) != 1 || got[0] != "S1" {
		t.Errorf("SampleNames() = %v", got)
	}

	v, err := parser.Next()
	if err != nil || v != nil {
		t.Errorf("Next() = %v, %v; want nil, nil", v, err)
	}
}

func TestParser_MissingHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("1\t100\t.\tA\tT\t.\t.\t.\n"))
	if err == nil {
		t.Fatal("Expected error for missing #CHROM line")
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{Line: 42, Message: "test error"}
	expected := "vcf parse error at line 42: test error"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
