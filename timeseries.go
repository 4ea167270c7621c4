package gapfill

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mashiike/gapfill/internal/timeutils"
)

// DefaultTimeFormat is the layout of the timestamp column.
const DefaultTimeFormat = "2006-01-02 15:04:05"

// Record is one timestamped row. Values hold every non-time column in header order.
type Record struct {
	Time   time.Time
	Values []float64

	raw []string
}

// Synthesized reports whether the record was created by FillGaps.
func (r *Record) Synthesized() bool {
	return r.raw == nil
}

// DerivedField recomputes the value field Target from Source after interpolation.
// Indexes count value fields only, the time column is not included.
type DerivedField struct {
	Target  int
	Source  int
	RoundTo float64
}

func (d *DerivedField) apply(values []float64) {
	if IsMissing(values[d.Source]) {
		return
	}
	values[d.Target] = RoundTo(values[d.Source], d.RoundTo)
}

// TimeSeries is the time_gap view of a Table.
type TimeSeries struct {
	header     []string
	timeColumn int
	layout     string
	records    []*Record
	dropped    int
}

// NewTimeSeries parses every row of t. Rows with a bad timestamp or a non-numeric value are dropped.
func NewTimeSeries(t *Table, timeColumn int, layout string) (*TimeSeries, error) {
	if timeColumn < 0 || timeColumn >= t.Width() {
		return nil, fmt.Errorf("time column index %d out of range", timeColumn)
	}
	if layout == "" {
		layout = DefaultTimeFormat
	}
	ts := &TimeSeries{
		header:     t.Header,
		timeColumn: timeColumn,
		layout:     layout,
		records:    make([]*Record, 0, t.Len()),
	}
	for i, row := range t.Rows {
		r, err := ts.parseRow(row)
		if err != nil {
			log.Printf("[debug] drop line %d: %s", i+2, err)
			ts.dropped++
			continue
		}
		ts.records = append(ts.records, r)
	}
	return ts, nil
}

func (ts *TimeSeries) parseRow(row []string) (*Record, error) {
	at, err := timeutils.ParseTime(ts.layout, row[ts.timeColumn])
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(row)-1)
	for i, cell := range row {
		if i == ts.timeColumn {
			continue
		}
		v, err := ParseValue(cell)
		if err != nil {
			return nil, fmt.Errorf("column `%s`: %w", ts.header[i], err)
		}
		values = append(values, v)
	}
	return &Record{Time: at, Values: values, raw: row}, nil
}

// Records returns the parsed rows in input order.
func (ts *TimeSeries) Records() []*Record {
	return ts.records
}

// Len returns the number of records.
func (ts *TimeSeries) Len() int {
	return len(ts.records)
}

// Dropped returns how many input rows could not be parsed.
func (ts *TimeSeries) Dropped() int {
	return ts.dropped
}

// FillGaps returns a new series with a synthesized record for every missing step
// between consecutive records. Values are interpolated by elapsed time, then each
// derived field is recomputed from its source.
func (ts *TimeSeries) FillGaps(step time.Duration, derived []*DerivedField) *TimeSeries {
	out := &TimeSeries{
		header:     ts.header,
		timeColumn: ts.timeColumn,
		layout:     ts.layout,
		records:    make([]*Record, 0, len(ts.records)),
		dropped:    ts.dropped,
	}
	if len(ts.records) == 0 {
		return out
	}
	first := ts.records[0].Time
	offset := first.Sub(timeutils.TruncTime(first, step))
	offGrid := 0
	for i, cur := range ts.records {
		out.records = append(out.records, cur)
		if !timeutils.OnGrid(cur.Time.Add(-offset), step) {
			offGrid++
		}
		if i+1 == len(ts.records) {
			break
		}
		next := ts.records[i+1]
		iter := timeutils.NewIterator(cur.Time, next.Time, step)
		n := iter.Steps()
		if n > 1 {
			log.Printf("[debug] gap %s ~ %s: %d step(s) missing", cur.Time.Format(ts.layout), next.Time.Format(ts.layout), n-1)
		}
		for iter.HasNext() {
			at, k := iter.Next()
			values := make([]float64, len(cur.Values))
			for j := range values {
				values[j] = LerpStep(cur.Values[j], next.Values[j], k, n)
			}
			for _, d := range derived {
				d.apply(values)
			}
			out.records = append(out.records, &Record{Time: at, Values: values})
		}
	}
	if offGrid > 0 {
		log.Printf("[warn] %d timestamp(s) are not aligned to the %s step", offGrid, timeutils.DurationString(step))
	}
	return out
}

// Table converts the series back to raw cells. Input rows keep their original text.
func (ts *TimeSeries) Table() *Table {
	rows := make([][]string, 0, len(ts.records))
	for _, r := range ts.records {
		if r.raw != nil {
			rows = append(rows, r.raw)
			continue
		}
		row := make([]string, len(ts.header))
		j := 0
		for i := range row {
			if i == ts.timeColumn {
				row[i] = r.Time.Format(ts.layout)
				continue
			}
			row[i] = FormatValue(r.Values[j])
			j++
		}
		rows = append(rows, row)
	}
	return &Table{Header: ts.header, Rows: rows}
}

// ResolveTimeColumn returns the index of the named time column. An empty name is the first column.
func ResolveTimeColumn(header []string, name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("time column `%s` not found", name)
}

// ResolveDerived binds derived field settings to value field indexes of header.
// A reference is a column name or a 1-based position among the value fields.
func ResolveDerived(header []string, timeColumn int, cfgs []*DerivedConfig) ([]*DerivedField, error) {
	fields := make([]*DerivedField, 0, len(cfgs))
	for _, cfg := range cfgs {
		target, err := valueFieldIndex(header, timeColumn, cfg.Column)
		if err == nil {
			var source int
			source, err = valueFieldIndex(header, timeColumn, cfg.Source)
			if err == nil {
				fields = append(fields, &DerivedField{
					Target:  target,
					Source:  source,
					RoundTo: cfg.RoundTo,
				})
				continue
			}
		}
		if cfg.optional {
			log.Printf("[warn] skip derived field %s: %s", cfg, err)
			continue
		}
		return nil, fmt.Errorf("derived field %s: %w", cfg, err)
	}
	return fields, nil
}

func valueFieldIndex(header []string, timeColumn int, ref string) (int, error) {
	if ref == "" {
		return -1, errors.New("empty field reference")
	}
	n := len(header) - 1
	if pos, err := strconv.Atoi(ref); err == nil {
		if pos < 1 || pos > n {
			return -1, fmt.Errorf("field position %d out of range 1..%d", pos, n)
		}
		return pos - 1, nil
	}
	j := 0
	for i, h := range header {
		if i == timeColumn {
			continue
		}
		if h == ref {
			return j, nil
		}
		j++
	}
	return -1, fmt.Errorf("column `%s` not found", ref)
}
