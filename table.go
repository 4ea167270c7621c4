package gapfill

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Table is a header plus rows of raw cells, as read from a file.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates a Table whose rows are padded or truncated to the header width.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, errors.New("table has no header")
	}
	t := &Table{
		Header: header,
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, t.fit(row))
	}
	return t, nil
}

func (t *Table) fit(row []string) []string {
	if len(row) == len(t.Header) {
		return row
	}
	ret := make([]string, len(t.Header))
	copy(ret, row)
	return ret
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Header)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// String implements fmt.Stringer
func (t *Table) String() string {
	return fmt.Sprintf("[columns:%s rows:%d]", strings.Join(t.Header, ","), len(t.Rows))
}

// ParseValue converts a cell to a reading. Empty cells are Missing.
// Only finite numbers are readings, so "NaN" and "inf" are rejected.
func ParseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Missing, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", cell)
	}
	return v, nil
}

// FormatValue is the inverse of ParseValue.
func FormatValue(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// ReadTable loads a table from path. Spreadsheets are chosen by extension, everything else is read as CSV.
// timeLayout formats spreadsheet date cells.
func ReadTable(path string, sheet string, timeLayout string) (*Table, error) {
	if isSpreadsheet(path) {
		return ReadXLSX(path, sheet, timeLayout)
	}
	return ReadCSVFile(path)
}

// WriteTable stores t at path, choosing the format like ReadTable.
func WriteTable(path string, sheet string, t *Table) error {
	if isSpreadsheet(path) {
		return WriteXLSX(path, sheet, t)
	}
	return WriteCSVFile(path, t)
}
