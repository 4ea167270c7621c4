package gapfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Songmu/flextime"
)

//App manages life cycle
type App struct {
	cfg    *Config
	stdout io.Writer
}

//New creates an app
func New(cfg *Config) (*App, error) {
	return NewWithWriter(cfg, os.Stdout)
}

//NewWithWriter is there to capture dry-run output.
func NewWithWriter(cfg *Config, stdout io.Writer) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.Restrict(); err != nil {
		return nil, err
	}
	app := &App{
		cfg:    cfg,
		stdout: stdout,
	}
	return app, nil
}

//Run reads the input table, fills it according to the configured mode and writes the result.
func (app *App) Run(ctx context.Context, optFns ...func(*Options)) error {
	log.Printf("[info] start run")
	opts := &Options{}
	for _, optFn := range optFns {
		optFn(opts)
	}
	input := coalesceString(opts.input, app.cfg.Input)
	output := opts.output
	if output == "" {
		if opts.input != "" {
			output = DefaultOutputPath(opts.input)
		} else {
			output = app.cfg.Output
		}
	}
	if !opts.dryRun && filepath.Clean(input) == filepath.Clean(output) {
		return errors.New("input and output must be different files")
	}
	now := flextime.Now()

	log.Printf("[info] read table from %s", input)
	table, err := ReadTable(input, app.cfg.Sheet, app.cfg.TimeGap.TimeFormat)
	if err != nil {
		return fmt.Errorf("read input failed: %w", err)
	}
	log.Println("[debug] read table", table)
	if err := ctx.Err(); err != nil {
		return err
	}

	report := NewReport(app.cfg.Mode, input, output)
	report.DryRun = opts.dryRun
	report.InputRows = table.Len()
	var result *Table
	switch app.cfg.Mode {
	case ModeTimeGap:
		result, err = app.fillTimeGaps(table, report)
	case ModeSentinel:
		result, err = app.fillSentinels(table, report)
	default:
		err = fmt.Errorf("mode `%s` is unknown", app.cfg.Mode)
	}
	if err != nil {
		return fmt.Errorf("mode[%s] interpolate failed: %w", app.cfg.Mode, err)
	}
	report.OutputRows = result.Len()
	if err := ctx.Err(); err != nil {
		return err
	}

	if opts.dryRun {
		log.Printf("[info] dryrun! output stdout")
		if err := result.WriteCSV(app.stdout); err != nil {
			return fmt.Errorf("output stdout failed: %w", err)
		}
	} else {
		log.Printf("[info] write table to %s", output)
		if err := WriteTable(output, app.cfg.Sheet, result); err != nil {
			return fmt.Errorf("write output failed: %w", err)
		}
	}
	if app.cfg.Simulate.Enabled {
		log.Printf("[info] simulate hydrogen storage over %d row(s)", result.Len())
		report.Simulations, err = SimulateStorage(result, &app.cfg.Simulate)
		if err != nil {
			return fmt.Errorf("simulate failed: %w", err)
		}
	}
	report.RunTime = flextime.Now().Sub(now)
	log.Printf("[info] %s", report)
	if opts.report != "" {
		log.Printf("[info] write report to %s", opts.report)
		if err := report.WriteFile(opts.report); err != nil {
			return fmt.Errorf("write report failed: %w", err)
		}
	}
	log.Printf("[info] run successes. run time:%s\n", report.RunTime)
	return nil
}

func (app *App) fillTimeGaps(table *Table, report *Report) (*Table, error) {
	cfg := &app.cfg.TimeGap
	timeColumn, err := ResolveTimeColumn(table.Header, cfg.TimeColumn)
	if err != nil {
		return nil, err
	}
	derived, err := ResolveDerived(table.Header, timeColumn, cfg.Derived)
	if err != nil {
		return nil, err
	}
	series, err := NewTimeSeries(table, timeColumn, cfg.TimeFormat)
	if err != nil {
		return nil, err
	}
	report.Step = cfg.DurationStep()
	report.DroppedRows = series.Dropped()
	if series.Dropped() > 0 {
		log.Printf("[info] dropped %d row(s) with unparseable timestamp or value", series.Dropped())
	}
	if series.Len() == 0 {
		log.Printf("[warn] %s has no valid rows, output header only", report.Input)
	}
	filled := series.FillGaps(report.Step, derived)
	report.SynthesizedRows = filled.Len() - series.Len()
	return filled.Table(), nil
}

func (app *App) fillSentinels(table *Table, report *Report) (*Table, error) {
	cfg := &app.cfg.Sentinel
	result, stats, err := FillSentinel(table, cfg.Value, cfg.Columns)
	if err != nil {
		return nil, err
	}
	report.Columns = stats
	return result, nil
}
