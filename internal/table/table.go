// Package table loads ground-truth and submission peak tables from CSV into
// typed rows. Column presence and cell types are checked once here so the
// scoring engine never sees a half-formed row.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("table: missing required column")
	// ErrInvalidValue is returned when a required cell cannot be parsed.
	ErrInvalidValue = errors.New("table: invalid value")
)

// missingValues are the cell spellings treated as empty, matching the
// defaults of the spreadsheet tooling submissions are exported from.
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a cell holds no value.
func IsMissing(cell string) bool {
	_, ok := missingValues[strings.TrimSpace(cell)]
	return ok
}

// Table is a parsed CSV with a header row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// ReadCSV loads the CSV file at path.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer f.Close()
	return Parse(path, f)
}

// Parse reads a CSV stream; name is used in error messages.
func Parse(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Short rows are allowed; Cell reads their absent fields as empty.
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", name, err)
	}
	t := &Table{Name: name, index: map[string]int{}}
	if len(records) == 0 {
		return t, nil
	}
	t.Header = records[0]
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		t.Header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	t.Rows = records[1:]
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table carries column col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Cell returns the trimmed value of col in row i.
func (t *Table) Cell(i int, col string) string {
	j, ok := t.index[col]
	if !ok || j >= len(t.Rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][j])
}

// Require returns ErrMissingColumn naming every absent column.
func (t *Table) Require(cols ...string) error {
	missing := t.Missing(cols...)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w in %s: %s", ErrMissingColumn, t.Name, strings.Join(missing, ", "))
}

// Missing lists the columns of cols that the table lacks.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Float parses col in row i as a required number.
func (t *Table) Float(i int, col string) (float64, error) {
	cell := t.Cell(i, col)
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w in %s: column %s line %d: %q is not a number", ErrInvalidValue, t.Name, col, i+2, cell)
	}
	return v, nil
}

// OptionalFloat parses col in row i as a number, returning NaN for an empty
// cell.
func (t *Table) OptionalFloat(i int, col string) (float64, error) {
	if IsMissing(t.Cell(i, col)) {
		return math.NaN(), nil
	}
	return t.Float(i, col)
}

// Int parses col in row i as an integer, returning def for an empty cell.
// Integral floats such as "2.0" are accepted.
func (t *Table) Int(i int, col string, def int) (int, error) {
	cell := t.Cell(i, col)
	if IsMissing(cell) {
		return def, nil
	}
	if v, err := strconv.Atoi(cell); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w in %s: column %s line %d: %q is not an integer", ErrInvalidValue, t.Name, col, i+2, cell)
	}
	return int(f), nil
}

// String returns col in row i, or nil when the cell is empty.
func (t *Table) String(i int, col string) *string {
	cell := t.Cell(i, col)
	if IsMissing(cell) {
		return nil
	}
	return &cell
}

// IsNumeric reports whether every present value of col parses as a number.
func (t *Table) IsNumeric(col string) bool {
	for i := range t.Rows {
		cell := t.Cell(i, col)
		if IsMissing(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return true
}

// IsInteger reports whether every value of col is a whole number. Empty cells
// disqualify the column.
func (t *Table) IsInteger(col string) bool {
	for i := range t.Rows {
		cell := t.Cell(i, col)
		if IsMissing(cell) {
			return false
		}
		if _, err := strconv.Atoi(cell); err != nil {
			return false
		}
	}
	return true
}

// MissingCount returns how many cells of col are empty.
func (t *Table) MissingCount(col string) int {
	n := 0
	for i := range t.Rows {
		if IsMissing(t.Cell(i, col)) {
			n++
		}
	}
	return n
}

// AllMissing reports whether col holds no values at all.
func (t *Table) AllMissing(col string) bool {
	for i := range t.Rows {
		if !IsMissing(t.Cell(i, col)) {
			return false
		}
	}
	return true
}
