package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Genotype is one sample's FORMAT data at a site.
type Genotype struct {
	Sample  string
	Alleles []string // GT allele tokens, e.g. ["0", "1"]; "." for no-call
	Phased  bool
	Keys    []string          // FORMAT keys other than GT, in order
	Fields  map[string]string // raw FORMAT values by key
}

// IsCalled reports whether at least one allele is called. A partial call
// such as 0/. counts as called.
func (g *Genotype) IsCalled() bool {
	for _, a := range g.Alleles {
		if a != "." && a != "" {
			return true
		}
	}
	return false
}

// GT returns the genotype as written in the GT field.
func (g *Genotype) GT() string {
	if len(g.Alleles) == 0 {
		return "."
	}
	sep := "/"
	if g.Phased {
		sep = "|"
	}
	return strings.Join(g.Alleles, sep)
}

// Get returns the raw value of a FORMAT field.
func (g *Genotype) Get(key string) (string, bool) {
	if key == KeyGenotype {
		return g.GT(), len(g.Alleles) > 0
	}
	v, ok := g.Fields[key]
	return v, ok
}

// parseGenotype builds a genotype from FORMAT keys and one sample column.
// Trailing fields may be dropped in the sample column, as VCF allows.
func parseGenotype(sample string, format []string, column string) *Genotype {
	g := &Genotype{Sample: sample, Fields: make(map[string]string)}
	values := strings.Split(column, ":")

	for i, key := range format {
		val := "."
		if i < len(values) {
			val = values[i]
		}
		if key == KeyGenotype {
			g.Alleles, g.Phased = parseGT(val)
			continue
		}
		g.Keys = append(g.Keys, key)
		g.Fields[key] = val
	}
	return g
}

func parseGT(s string) ([]string, bool) {
	if s == "" {
		return nil, false
	}
	if strings.Contains(s, "|") {
		return strings.Split(s, "|"), true
	}
	return strings.Split(s, "/"), false
}

// GenotypeBuilder creates a modified copy of a genotype.
// Attributes set on the builder are added after the genotype's existing
// fields, replacing any existing value with the same key.
type GenotypeBuilder struct {
	base  *Genotype
	keys  []string
	attrs map[string]any
}

// NewGenotypeBuilder starts a builder from g.
func NewGenotypeBuilder(g *Genotype) *GenotypeBuilder {
	return &GenotypeBuilder{base: g, attrs: make(map[string]any)}
}

// Attribute sets a FORMAT attribute on the genotype being built.
func (b *GenotypeBuilder) Attribute(key string, value any) *GenotypeBuilder {
	if _, ok := b.attrs[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.attrs[key] = value
	return b
}

// Attr returns an attribute previously set on the builder.
func (b *GenotypeBuilder) Attr(key string) (any, bool) {
	v, ok := b.attrs[key]
	return v, ok
}

// Len returns the number of attributes set on the builder.
func (b *GenotypeBuilder) Len() int { return len(b.keys) }

// Make returns the new genotype. The base genotype is not modified.
func (b *GenotypeBuilder) Make() *Genotype {
	g := &Genotype{
		Sample:  b.base.Sample,
		Alleles: append([]string(nil), b.base.Alleles...),
		Phased:  b.base.Phased,
		Keys:    append([]string(nil), b.base.Keys...),
		Fields:  make(map[string]string, len(b.base.Fields)+len(b.keys)),
	}
	for k, v := range b.base.Fields {
		g.Fields[k] = v
	}

	for _, key := range b.keys {
		if _, exists := g.Fields[key]; !exists {
			g.Keys = append(g.Keys, key)
		}
		g.Fields[key] = FormatValue(b.attrs[key])
	}
	return g
}

// FormatValue renders an attribute value as VCF text. Lists are
// comma-separated and nil renders as ".".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "."
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	default:
		return fmt.Sprint(x)
	}
}
