package likelihood

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Columns of the evidence file, in order.
var columns = []string{
	"chrom", "pos", "ref", "alt",
	"sample", "read", "contig", "start", "end", "strand",
	"ref_lk", "alt_lk",
}

// SiteKey identifies a biallelic site.
type SiteKey struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
}

// Set holds likelihood matrices for many sites.
type Set struct {
	sites map[SiteKey]*Matrix
	reads int
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{sites: make(map[SiteKey]*Matrix)}
}

// Lookup returns the matrix for a site, or nil when no evidence was recorded.
func (s *Set) Lookup(chrom string, pos int64, ref, alt string) *Matrix {
	if s == nil {
		return nil
	}
	return s.sites[SiteKey{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt}]
}

// Put stores m as the evidence for key, replacing any previous matrix.
func (s *Set) Put(key SiteKey, m *Matrix) {
	s.sites[key] = m
}

// SiteCount returns the number of sites with evidence.
func (s *Set) SiteCount() int { return len(s.sites) }

// ReadCount returns the number of evidence rows loaded.
func (s *Set) ReadCount() int { return s.reads }

// Load reads an evidence file. Gzipped files are detected by magic bytes.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open evidence file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		return LoadFromReader(gz)
	}

	return LoadFromReader(br)
}

// LoadFromReader reads tab-separated evidence rows from r.
// The first non-comment line must be the header.
func LoadFromReader(r io.Reader) (*Set, error) {
	set := NewSet()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNumber := 0
	headerSeen := false
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if !headerSeen {
			if err := checkHeader(fields); err != nil {
				return nil, &ParseError{Line: lineNumber, Message: err.Error()}
			}
			headerSeen = true
			continue
		}

		if err := set.addLine(fields); err != nil {
			return nil, &ParseError{Line: lineNumber, Message: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read evidence: %w", err)
	}
	if !headerSeen {
		return nil, &ParseError{Line: lineNumber, Message: "no header line found"}
	}

	return set, nil
}

func checkHeader(fields []string) error {
	if len(fields) != len(columns) {
		return fmt.Errorf("expected %d header columns, found %d", len(columns), len(fields))
	}
	for i, want := range columns {
		if strings.ToLower(fields[i]) != want {
			return fmt.Errorf("header column %d: expected %q, found %q", i+1, want, fields[i])
		}
	}
	return nil
}

func (s *Set) addLine(fields []string) error {
	if len(fields) != len(columns) {
		return fmt.Errorf("expected %d columns, found %d", len(columns), len(fields))
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid position: %s", fields[1])
	}
	start, err := strconv.ParseInt(fields[7], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid read start: %s", fields[7])
	}
	end, err := strconv.ParseInt(fields[8], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid read end: %s", fields[8])
	}
	if end < start {
		return fmt.Errorf("read end %d before start %d", end, start)
	}

	var reverse bool
	switch fields[9] {
	case "+":
	case "-":
		reverse = true
	default:
		return fmt.Errorf("invalid strand: %s", fields[9])
	}

	refLk, err := strconv.ParseFloat(fields[10], 64)
	if err != nil {
		return fmt.Errorf("invalid ref likelihood: %s", fields[10])
	}
	altLk, err := strconv.ParseFloat(fields[11], 64)
	if err != nil {
		return fmt.Errorf("invalid alt likelihood: %s", fields[11])
	}

	key := SiteKey{Chrom: fields[0], Pos: pos, Ref: fields[2], Alt: fields[3]}
	m := s.sites[key]
	if m == nil {
		m = NewMatrix([]string{key.Ref, key.Alt})
		s.sites[key] = m
	}

	read := &Read{
		Name:    fields[5],
		Chrom:   fields[6],
		Pos:     start,
		EndPos:  end,
		Reverse: reverse,
	}
	if err := m.Add(fields[4], read, []float64{refLk, altLk}); err != nil {
		return err
	}
	s.reads++
	return nil
}

// ParseError represents an error during evidence parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("evidence parse error at line %d: %s", e.Line, e.Message)
}
