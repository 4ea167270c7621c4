package gapfill

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ReadXLSX reads a table from a workbook sheet. An empty sheet name selects the first sheet.
// Cells are read by stored value, not by display text. Numbers styled as dates or times
// are converted with timeLayout.
func ReadXLSX(path string, sheet string, timeLayout string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("read %s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}
	log.Printf("[debug] read sheet `%s` from %s", sheet, path)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, errors.New("sheet is empty"))
	}
	dates := newDateCells(f, sheet, coalesceString(timeLayout, DefaultTimeFormat))
	for i, row := range rows[1:] {
		for j, cell := range row {
			v, err := dates.convert(j+1, i+2, cell)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			row[j] = v
		}
	}
	if dates.converted > 0 {
		log.Printf("[debug] %d date cell(s) formatted as `%s`", dates.converted, dates.layout)
	}
	return NewTable(rows[0], rows[1:])
}

type dateCells struct {
	f         *excelize.File
	sheet     string
	layout    string
	date1904  bool
	styles    map[int]bool
	converted int
}

func newDateCells(f *excelize.File, sheet string, layout string) *dateCells {
	d := &dateCells{
		f:      f,
		sheet:  sheet,
		layout: layout,
		styles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateCells) convert(col, row int, value string) (string, error) {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < 0 {
		return value, nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	isDate, err := d.isDateStyle(cell)
	if err != nil || !isDate {
		return value, err
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		log.Printf("[debug] cell %s: %s", cell, err)
		return value, nil
	}
	d.converted++
	return t.Format(d.layout), nil
}

func (d *dateCells) isDateStyle(cell string) (bool, error) {
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return false, err
	}
	if styleID == 0 {
		return false, nil
	}
	if isDate, ok := d.styles[styleID]; ok {
		return isDate, nil
	}
	style, err := d.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	d.styles[styleID] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id shows a date or a time.
func isDateNumFmt(id int) bool {
	switch {
	case 14 <= id && id <= 22:
	case 27 <= id && id <= 36:
	case 45 <= id && id <= 47:
	case 50 <= id && id <= 58:
	default:
		return false
	}
	return true
}

// isDateFormatCode reports whether a custom format code has date or time tokens
// outside quoted text, escapes and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			switch c {
			case 'y', 'Y', 'd', 'D', 'h', 'H', 'm', 'M', 's', 'S':
				return true
			}
		}
	}
	return false
}

// WriteXLSX stores t as the only sheet of a new workbook.
// Columns whose cells are all finite numbers are written as numbers, everything else as text.
func WriteXLSX(path string, sheet string, t *Table) error {
	if sheet == "" {
		sheet = defaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setSheetRow(f, sheet, 1, t.Header, nil); err != nil {
		return err
	}
	numeric := make([]bool, t.Width())
	for i := range numeric {
		numeric[i] = isNumberColumn(t, i)
	}
	for i, row := range t.Rows {
		if err := setSheetRow(f, sheet, i+2, row, numeric); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var leadingZero = regexp.MustCompile(`^[-+]?0[0-9]`)

// isNumberColumn reports whether every non-empty cell of the column survives being stored as a number.
// Identifiers such as "007" do not.
func isNumberColumn(t *Table, index int) bool {
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row[index])
		if cell == "" {
			continue
		}
		if leadingZero.MatchString(cell) {
			return false
		}
		if _, err := ParseValue(cell); err != nil {
			return false
		}
	}
	return true
}

func setSheetRow(f *excelize.File, sheet string, rowNum int, row []string, numeric []bool) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
		if i >= len(numeric) || !numeric[i] || strings.TrimSpace(v) == "" {
			continue
		}
		if n, err := ParseValue(v); err == nil {
			values[i] = n
		}
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
