package gapfill

import (
	"fmt"
	"log"
)

// DefaultSentinel marks a missing reading in the source data.
const DefaultSentinel = -1.0

// ColumnStat counts what happened to one numeric column during a sentinel fill.
type ColumnStat struct {
	Column    string `json:"column"`
	Sentinels int    `json:"sentinels"`
	Filled    int    `json:"filled"`
	Unfilled  int    `json:"unfilled"`
}

// String implements fmt.Stringer
func (s *ColumnStat) String() string {
	return fmt.Sprintf("column[%s] sentinels=%d filled=%d unfilled=%d", s.Column, s.Sentinels, s.Filled, s.Unfilled)
}

type sentinelColumn struct {
	index   int
	values  []float64
	missing []bool
	stat    *ColumnStat
}

// FillSentinel replaces sentinel values in numeric columns with linear interpolation
// over row position. When columns is empty every numeric column is processed.
// The input table is not modified.
func FillSentinel(t *Table, sentinel float64, columns []string) (*Table, []*ColumnStat, error) {
	indexes, err := sentinelTargets(t, columns)
	if err != nil {
		return nil, nil, err
	}
	out := &Table{
		Header: t.Header,
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}

	targets := make([]*sentinelColumn, 0, len(indexes))
	for _, index := range indexes {
		c := &sentinelColumn{
			index:   index,
			values:  make([]float64, len(t.Rows)),
			missing: make([]bool, len(t.Rows)),
			stat:    &ColumnStat{Column: t.Header[index]},
		}
		for i, row := range t.Rows {
			v, _ := ParseValue(row[index])
			if v == sentinel {
				v = Missing
				c.stat.Sentinels++
			}
			c.values[i] = v
			c.missing[i] = IsMissing(v)
		}
		log.Printf("[info] column[%s] %d value(s) equal to sentinel %s", c.stat.Column, c.stat.Sentinels, FormatValue(sentinel))
		targets = append(targets, c)
	}

	stats := make([]*ColumnStat, 0, len(targets))
	for _, c := range targets {
		c.stat.Filled = InterpolateLinear(c.values)
		for i, missing := range c.missing {
			if !missing {
				continue
			}
			out.Rows[i][c.index] = FormatValue(c.values[i])
			if IsMissing(c.values[i]) {
				c.stat.Unfilled++
			}
		}
		log.Printf("[debug] %s", c.stat)
		stats = append(stats, c.stat)
	}
	log.Printf("[info] sentinel values replaced by linear interpolation in %d column(s)", len(stats))
	return out, stats, nil
}

func sentinelTargets(t *Table, columns []string) ([]int, error) {
	if len(columns) == 0 {
		indexes := make([]int, 0, t.Width())
		for i := range t.Header {
			if isNumericColumn(t, i) {
				indexes = append(indexes, i)
			} else {
				log.Printf("[debug] column[%s] is not numeric, pass through", t.Header[i])
			}
		}
		return indexes, nil
	}
	indexes := make([]int, 0, len(columns))
	for _, name := range columns {
		i := t.ColumnIndex(name)
		if i < 0 {
			return nil, fmt.Errorf("column `%s` not found", name)
		}
		if !isNumericColumn(t, i) {
			log.Printf("[warn] column[%s] is not numeric, skip", name)
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}

// isNumericColumn reports whether every non-empty cell of the column parses as a number.
func isNumericColumn(t *Table, index int) bool {
	for _, row := range t.Rows {
		if _, err := ParseValue(row[index]); err != nil {
			return false
		}
	}
	return true
}
