// Package table reads loosely-specified tabular feeds and resolves semantic
// fields against ordered lists of accepted column names.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/gamblebot/internal/models"
)

// Slot is a semantic field and the column names accepted for it, in
// priority order.
type Slot struct {
	Field   string
	Aliases []string
}

// NewSlot builds a Slot.
func NewSlot(field string, aliases ...string) Slot {
	return Slot{Field: field, Aliases: aliases}
}

// Table is a header plus string rows.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// New builds a table from a header and rows.
func New(columns []string, rows [][]string) *Table {
	t := &Table{Columns: columns, Rows: rows}
	t.reindex()
	return t
}

// Empty returns a zero-row table with the given schema.
func Empty(columns ...string) *Table {
	return New(columns, nil)
}

// ReadCSV parses a CSV document whose first record is the header. Ragged
// rows are accepted.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rec)
	}
	return New(header, rows), nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Has reports whether the named column exists.
func (t *Table) Has(column string) bool {
	if t.index == nil {
		t.reindex()
	}
	_, ok := t.index[column]
	return ok
}

// Resolve returns the index of the first alias present in the header.
func (t *Table) Resolve(slot Slot) (int, bool) {
	if t.index == nil {
		t.reindex()
	}
	for _, alias := range slot.Aliases {
		if i, ok := t.index[alias]; ok {
			return i, true
		}
	}
	return -1, false
}

// MustResolve is Resolve for required fields.
func (t *Table) MustResolve(slot Slot) (int, error) {
	if i, ok := t.Resolve(slot); ok {
		return i, nil
	}
	return -1, &models.MissingColumnError{
		Field:     slot.Field,
		Tried:     append([]string(nil), slot.Aliases...),
		Available: append([]string(nil), t.Columns...),
	}
}

// String returns the trimmed cell, or "" when col is unresolved or the row
// is short.
func (t *Table) String(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	v := strings.TrimSpace(t.Rows[row][col])
	switch strings.ToLower(v) {
	case "na", "nan", "null", "none":
		return ""
	}
	return v
}

// Float parses the cell, defaulting to zero on anything unparseable.
func (t *Table) Float(row, col int) float64 {
	s := t.String(row, col)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if strings.HasSuffix(s, "%") {
		f /= 100
	}
	return f
}

// Int parses the cell as a number and truncates it.
func (t *Table) Int(row, col int) int {
	return int(t.Float(row, col))
}

// Filter returns a new table with the rows keep accepts.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := make([][]string, 0, len(t.Rows))
	for i := range t.Rows {
		if keep(i) {
			out = append(out, t.Rows[i])
		}
	}
	return New(t.Columns, out)
}

// Write emits the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
