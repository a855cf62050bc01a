package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-sb/internal/strand"
)

// StrandCountResult is the SB annotation of one sample at one site.
type StrandCountResult struct {
	Chrom  string
	Pos    int64
	Ref    string
	Alt    string
	Sample string
	Counts []int // [refFwd, refRev, altFwd, altRev]
}

// resultKey is the composite key for deduplicating results before writing.
type resultKey struct {
	chrom, ref, alt, sample string
	pos                     int64
}

// WriteStrandCounts batch-inserts results into DuckDB using the Appender API.
// Duplicate (chrom, pos, ref, alt, sample) entries keep the first result.
// Rows already stored under a key in the batch are replaced.
func (s *Store) WriteStrandCounts(results []StrandCountResult) error {
	if len(results) == 0 {
		return nil
	}

	seen := make(map[resultKey]bool, len(results))
	deduped := make([]StrandCountResult, 0, len(results))
	for _, r := range results {
		if len(r.Counts) != strand.Dim*strand.Dim {
			return fmt.Errorf("%s:%d sample %s: expected %d counts, got %d",
				r.Chrom, r.Pos, r.Sample, strand.Dim*strand.Dim, len(r.Counts))
		}
		k := resultKey{r.Chrom, r.Ref, r.Alt, r.Sample, r.Pos}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, r)
		}
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if err := deleteKeys(ctx, conn, deduped); err != nil {
		return err
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "strand_counts")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		c := r.Counts
		if err := appender.AppendRow(
			r.Chrom, r.Pos, r.Ref, r.Alt, r.Sample,
			int32(c[0]), int32(c[1]), int32(c[2]), int32(c[3]),
		); err != nil {
			return fmt.Errorf("append strand counts: %w", err)
		}
	}

	return appender.Flush()
}

// deleteKeys removes stored rows whose key appears in results.
func deleteKeys(ctx context.Context, conn *sql.Conn, results []StrandCountResult) error {
	stmt, err := conn.PrepareContext(ctx,
		"DELETE FROM strand_counts WHERE chrom=? AND pos=? AND ref=? AND alt=? AND sample=?")
	if err != nil {
		return fmt.Errorf("prepare delete: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, r.Chrom, r.Pos, r.Ref, r.Alt, r.Sample); err != nil {
			return fmt.Errorf("delete strand counts: %w", err)
		}
	}
	return nil
}

// ClearStrandCounts removes all cached results.
func (s *Store) ClearStrandCounts() error {
	_, err := s.db.Exec("DELETE FROM strand_counts")
	return err
}

// LookupStrandCounts returns the cached results for a site, ordered by
// sample. A non-empty sample restricts the lookup to that sample.
func (s *Store) LookupStrandCounts(chrom string, pos int64, ref, alt, sample string) ([]StrandCountResult, error) {
	query := `SELECT sample, ref_fwd, ref_rev, alt_fwd, alt_rev
		FROM strand_counts
		WHERE chrom=? AND pos=? AND ref=? AND alt=?`
	args := []any{chrom, pos, ref, alt}
	if sample != "" {
		query += " AND sample=?"
		args = append(args, sample)
	}
	query += " ORDER BY sample"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query strand counts: %w", err)
	}
	defer rows.Close()

	var results []StrandCountResult
	for rows.Next() {
		r := StrandCountResult{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt, Counts: make([]int, 4)}
		if err := rows.Scan(&r.Sample, &r.Counts[0], &r.Counts[1], &r.Counts[2], &r.Counts[3]); err != nil {
			return nil, fmt.Errorf("scan strand counts: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strand counts: %w", err)
	}
	return results, nil
}

// CountStrandCounts returns the number of cached results.
func (s *Store) CountStrandCounts() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM strand_counts").Scan(&n)
	return n, err
}
