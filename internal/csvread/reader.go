// Package csvread reads the semicolon-separated SUS extract files (claim
// line-items and the supplier registry). All cells are read as text; typing
// and coercion happen in the normalize package.
package csvread

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// File is a fully-materialized delimited file: a header index plus raw rows.
// Inputs are filtered per-program extracts, small enough to hold in memory,
// which is what the single-pass detectors require anyway.
type File struct {
	Path    string
	Columns []string

	rows  [][]string
	index map[string]int
}

// Open reads the whole file. Semicolon separator, UTF-8 with optional BOM,
// lazy quotes, variable field counts (short rows read as empty cells).
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := br.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	r := csv.NewReader(br)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	out := &File{Path: path, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(h)
		header[i] = h
		if _, dup := out.index[h]; !dup {
			out.index[h] = i
		}
	}
	out.Columns = header

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", path, len(out.rows)+2, err)
		}
		out.rows = append(out.rows, rec)
	}
	return out, nil
}

// Len returns the number of data rows.
func (f *File) Len() int {
	return len(f.rows)
}

// HasColumn reports whether the header contains the named column.
func (f *File) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Field returns the raw cell at (row, column). Absent columns and short
// rows read as "".
func (f *File) Field(row int, column string) string {
	idx, ok := f.index[column]
	if !ok || row < 0 || row >= len(f.rows) {
		return ""
	}
	rec := f.rows[row]
	if idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
