package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vibe-sb/internal/annotate"
	"github.com/inodb/vibe-sb/internal/duckdb"
	"github.com/inodb/vibe-sb/internal/vcf"
)

const recordBatchSize = 10000

// recordingWriter passes variants through to another writer and stores the
// SB values of each genotype in the result cache.
type recordingWriter struct {
	annotate.VariantWriter
	store   *duckdb.Store
	pending []duckdb.StrandCountResult
}

func newRecordingWriter(w annotate.VariantWriter, store *duckdb.Store) *recordingWriter {
	return &recordingWriter{VariantWriter: w, store: store}
}

func (rw *recordingWriter) Write(v *vcf.Variant) error {
	if err := rw.VariantWriter.Write(v); err != nil {
		return err
	}

	for _, g := range v.Genotypes {
		raw, ok := g.Get(vcf.KeyStrandBiasBySample)
		if !ok {
			continue
		}
		counts, err := parseCounts(raw)
		if err != nil {
			return fmt.Errorf("%s:%d sample %s: %w", v.Chrom, v.Pos, g.Sample, err)
		}
		rw.pending = append(rw.pending, duckdb.StrandCountResult{
			Chrom:  v.Chrom,
			Pos:    v.Pos,
			Ref:    v.Ref,
			Alt:    v.PrimaryAlt(),
			Sample: g.Sample,
			Counts: counts,
		})
	}

	if len(rw.pending) >= recordBatchSize {
		return rw.flushPending()
	}
	return nil
}

func (rw *recordingWriter) Flush() error {
	if err := rw.flushPending(); err != nil {
		return err
	}
	return rw.VariantWriter.Flush()
}

func (rw *recordingWriter) flushPending() error {
	if err := rw.store.WriteStrandCounts(rw.pending); err != nil {
		return fmt.Errorf("cache strand counts: %w", err)
	}
	rw.pending = rw.pending[:0]
	return nil
}

func parseCounts(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	counts := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid SB value %q", raw)
		}
		counts[i] = n
	}
	return counts, nil
}
