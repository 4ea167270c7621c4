package gapfill

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Songmu/flextime"
	"github.com/mashiike/gapfill/internal/timeutils"
)

// Report summarizes one run
type Report struct {
	Mode            Mode
	Input           string
	Output          string
	DryRun          bool
	GeneratedAt     time.Time
	Step            time.Duration
	InputRows       int
	DroppedRows     int
	SynthesizedRows int
	OutputRows      int
	Columns         []*ColumnStat
	Simulations     []*SimulationResult
	RunTime         time.Duration
}

func NewReport(mode Mode, input string, output string) *Report {
	return &Report{
		Mode:        mode,
		Input:       input,
		Output:      output,
		GeneratedAt: flextime.Now(),
		Columns:     make([]*ColumnStat, 0),
	}
}

// SentinelCount returns the number of sentinel values found over all columns.
func (r *Report) SentinelCount() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Sentinels
	}
	return n
}

// FilledCells returns the number of cells filled by interpolation.
func (r *Report) FilledCells() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Filled
	}
	return n
}

// UnfilledCells returns the number of cells still missing after interpolation.
func (r *Report) UnfilledCells() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Unfilled
	}
	return n
}

// String implements fmt.Stringer
func (r *Report) String() string {
	switch r.Mode {
	case ModeTimeGap:
		return fmt.Sprintf("mode[%s] %s -> %s step=%s input_rows=%d dropped_rows=%d synthesized_rows=%d output_rows=%d", r.Mode, r.Input, r.Output, timeutils.DurationString(r.Step), r.InputRows, r.DroppedRows, r.SynthesizedRows, r.OutputRows)
	default:
		return fmt.Sprintf("mode[%s] %s -> %s rows=%d sentinels=%d filled=%d unfilled=%d", r.Mode, r.Input, r.Output, r.OutputRows, r.SentinelCount(), r.FilledCells(), r.UnfilledCells())
	}
}

// MarshalJSON implements json.Marshaler
func (r *Report) MarshalJSON() ([]byte, error) {
	d := struct {
		Mode            Mode                `json:"mode"`
		Input           string              `json:"input"`
		Output          string              `json:"output"`
		DryRun          bool                `json:"dry_run"`
		GeneratedAt     time.Time           `json:"generated_at"`
		Step            string              `json:"step,omitempty"`
		InputRows       int                 `json:"input_rows"`
		DroppedRows     int                 `json:"dropped_rows"`
		SynthesizedRows int                 `json:"synthesized_rows"`
		OutputRows      int                 `json:"output_rows"`
		Columns         []*ColumnStat       `json:"columns,omitempty"`
		FilledCells     int                 `json:"filled_cells"`
		UnfilledCells   int                 `json:"unfilled_cells"`
		Simulations     []*SimulationResult `json:"simulations,omitempty"`
		RunTime         float64             `json:"run_time_seconds"`
	}{
		Mode:            r.Mode,
		Input:           r.Input,
		Output:          r.Output,
		DryRun:          r.DryRun,
		GeneratedAt:     r.GeneratedAt,
		InputRows:       r.InputRows,
		DroppedRows:     r.DroppedRows,
		SynthesizedRows: r.SynthesizedRows,
		OutputRows:      r.OutputRows,
		Columns:         r.Columns,
		FilledCells:     r.FilledCells(),
		UnfilledCells:   r.UnfilledCells(),
		Simulations:     r.Simulations,
		RunTime:         r.RunTime.Seconds(),
	}
	if r.Step > 0 {
		d.Step = timeutils.DurationString(r.Step)
	}
	return json.Marshal(d)
}

// WriteFile stores the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	bs, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(bs, '\n'), 0644)
}
