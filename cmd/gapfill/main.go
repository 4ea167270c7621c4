package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/mashiike/gapfill"
	"github.com/mashiike/gapfill/internal/logger"
	"github.com/urfave/cli/v2"
)

var Version = "current"

func main() {
	logger.Setup(os.Stderr, "info")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	defer cancel()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Println("[error]", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "gapfill",
		Usage:   "fill missing readings of a time-series table by linear interpolation",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path, can set multiple",
				EnvVars: []string{"GAPFILL_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "input table (.csv or .xlsx)",
				EnvVars: []string{"GAPFILL_INPUT"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output table, default <input>_Interpolated",
				EnvVars: []string{"GAPFILL_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "mode",
				Usage:   "time_gap or sentinel",
				EnvVars: []string{"GAPFILL_MODE"},
			},
			&cli.StringFlag{
				Name:    "sheet",
				Usage:   "sheet name for .xlsx tables",
				EnvVars: []string{"GAPFILL_SHEET"},
			},
			&cli.StringFlag{
				Name:    "report",
				Usage:   "write a JSON run report to this path",
				EnvVars: []string{"GAPFILL_REPORT"},
			},
			&cli.BoolFlag{
				Name:    "simulate",
				Usage:   "simulate hydrogen storage over the filled table",
				EnvVars: []string{"GAPFILL_SIMULATE"},
			},
			&cli.StringFlag{
				Name:    "unit",
				Usage:   "hydrogen unit of simulation logs (kWh, kg, mol)",
				EnvVars: []string{"GAPFILL_UNIT"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "print the interpolated table to stdout and do not write the output file",
				EnvVars: []string{"GAPFILL_DRY_RUN"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"GAPFILL_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "output debug log",
				EnvVars: []string{"GAPFILL_DEBUG"},
			},
		},
		Before: func(c *cli.Context) error {
			minLevel := c.String("log-level")
			if c.Bool("debug") {
				minLevel = "debug"
			}
			if !logger.ValidLevel(minLevel) {
				return fmt.Errorf("log-level `%s` is unknown", minLevel)
			}
			logger.Setup(os.Stderr, minLevel)
			log.Printf("[debug] gapfill version: %s, go runtime version: %s", Version, runtime.Version())
			return nil
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg := gapfill.NewDefaultConfig()
	if err := cfg.Load(c.StringSlice("config")...); err != nil {
		return err
	}
	if err := cfg.ValidateVersion(Version); err != nil {
		return err
	}
	if c.IsSet("mode") {
		cfg.Mode = gapfill.Mode(c.String("mode"))
	}
	if c.IsSet("sheet") {
		cfg.Sheet = c.String("sheet")
	}
	if c.IsSet("simulate") {
		cfg.Simulate.Enabled = c.Bool("simulate")
	}
	if c.IsSet("unit") {
		cfg.Simulate.Unit = c.String("unit")
	}
	app, err := gapfill.New(cfg)
	if err != nil {
		return err
	}
	return app.Run(
		c.Context,
		gapfill.DryRunOption(c.Bool("dry-run")),
		gapfill.InputOption(c.String("input")),
		gapfill.OutputOption(c.String("output")),
		gapfill.ReportOption(c.String("report")),
	)
}
