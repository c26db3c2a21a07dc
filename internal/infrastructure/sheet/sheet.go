// Package sheet reads tabular spreadsheets (CSV or XLSX) into header + rows.
package sheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
)

// Table is a spreadsheet with its first row split off as the header.
// Every row has exactly len(Header) cells. Lines holds the 1-based source
// line of each row, so blank rows that were dropped still count.
type Table struct {
	Header []string
	Rows   [][]string
	Lines  []int
}

// Line returns the source line of row i. Without recorded lines the header
// is assumed to be line 1 and rows to follow without gaps.
func (t Table) Line(i int) int {
	if i >= 0 && i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

type Options struct {
	// Sheet selects an XLSX worksheet by name; empty means the first one.
	Sheet string
	// Encoding of CSV input: utf-8 (default), windows-1252 or iso-8859-1.
	Encoding string
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string, opts Options) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errs.Wrapf(err, "open spreadsheet %q", path)
	}
	defer f.Close()

	return Read(f, path, opts)
}

// Read picks the format from name's extension.
func Read(r io.Reader, name string, opts Options) (Table, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		return ReadCSV(r, opts.Encoding)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, opts.Sheet)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Column returns the index of the first header matching any alias, compared
// without accents, case or repeated whitespace.
func (t Table) Column(aliases []string) (int, bool) {
	folded := make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		key := safety.FoldKey(name)
		if _, seen := folded[key]; !seen {
			folded[key] = i
		}
	}
	for _, alias := range aliases {
		if idx, ok := folded[safety.FoldKey(alias)]; ok {
			return idx, true
		}
	}
	return -1, false
}

// Cell returns the trimmed value at idx, or "" for a missing column.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// newTable splits off the header. lines gives the source line of each
// record; nil means records are consecutive lines starting at 1.
func newTable(records [][]string, lines []int) (Table, error) {
	if len(records) == 0 {
		return Table{}, errs.Wrap(ErrEmpty, "read header")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([][]string, 0, len(records)-1)
	rowLines := make([]int, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)

		line := i + 2
		if i+1 < len(lines) {
			line = lines[i+1]
		}
		rowLines = append(rowLines, line)
	}
	return Table{Header: header, Rows: rows, Lines: rowLines}, nil
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
