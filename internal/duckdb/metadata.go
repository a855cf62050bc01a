package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Source returns the fingerprint of the evidence file the cached results
// were computed from. ok is false when none is recorded.
func (s *Store) Source() (fp FileFingerprint, ok bool, err error) {
	var nanos int64
	err = s.db.QueryRow(`SELECT path, size, mod_time FROM evidence_source LIMIT 1`).
		Scan(&fp.Path, &fp.Size, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return FileFingerprint{}, false, nil
	}
	if err != nil {
		return FileFingerprint{}, false, fmt.Errorf("query evidence source: %w", err)
	}
	fp.ModTime = time.Unix(0, nanos)
	return fp, true, nil
}

// SetSource records fp as the evidence file of the cached results.
func (s *Store) SetSource(fp FileFingerprint) error {
	if _, err := s.db.Exec(`DELETE FROM evidence_source`); err != nil {
		return fmt.Errorf("clear evidence source: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO evidence_source VALUES (?, ?, ?)`,
		fp.Path, fp.Size, fp.ModTime.UnixNano()); err != nil {
		return fmt.Errorf("record evidence source: %w", err)
	}
	return nil
}

// SourceMatches reports whether fp matches the recorded evidence file.
// Size and modification time are compared; the path may differ.
func (s *Store) SourceMatches(fp FileFingerprint) (bool, error) {
	got, ok, err := s.Source()
	if err != nil || !ok {
		return false, err
	}
	return got.Size == fp.Size && got.ModTime.Equal(fp.ModTime), nil
}
