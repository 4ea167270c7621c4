package gapfill

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	gv "github.com/hashicorp/go-version"
	gc "github.com/kayac/go-config"
	"github.com/mashiike/gapfill/internal/timeutils"
)

// Mode selects which interpolator runs.
type Mode string

const (
	// ModeTimeGap inserts rows for missing time steps.
	ModeTimeGap Mode = "time_gap"
	// ModeSentinel replaces sentinel values column by column.
	ModeSentinel Mode = "sentinel"
)

// DefaultInput is read when no input is configured.
const DefaultInput = "TEST_RoscoeTimeWindPower_Hourly.csv"

// Config for App
type Config struct {
	RequiredVersion string `yaml:"required_version" json:"required_version"`

	Input    string         `yaml:"input" json:"input"`
	Output   string         `yaml:"output" json:"output"`
	Sheet    string         `yaml:"sheet" json:"sheet"`
	Mode     Mode           `yaml:"mode" json:"mode"`
	TimeGap  TimeGapConfig  `yaml:"time_gap" json:"time_gap"`
	Sentinel SentinelConfig `yaml:"sentinel" json:"sentinel"`
	Simulate SimulateConfig `yaml:"simulate" json:"simulate"`

	versionConstraints gv.Constraints
}

// TimeGapConfig configures the time_gap mode.
type TimeGapConfig struct {
	TimeColumn string           `yaml:"time_column" json:"time_column"`
	TimeFormat string           `yaml:"time_format" json:"time_format"`
	Step       string           `yaml:"step" json:"step"`
	Derived    []*DerivedConfig `yaml:"derived" json:"derived"`

	step time.Duration
}

// Restrict restricts a time_gap configuration.
func (c *TimeGapConfig) Restrict() error {
	c.TimeFormat = coalesceString(c.TimeFormat, DefaultTimeFormat)
	if c.Step == "" {
		return errors.New("step is required")
	}
	var err error
	c.step, err = timeutils.ParseDuration(c.Step)
	if err != nil {
		return fmt.Errorf("step is invalid format: %w", err)
	}
	if c.step < time.Second {
		return errors.New("step must over or equal 1s")
	}
	for i, d := range c.Derived {
		if err := d.Restrict(); err != nil {
			return fmt.Errorf("derived[%d] %w", i, err)
		}
	}
	return nil
}

// DurationStep converts Step as time.Duration
func (c *TimeGapConfig) DurationStep() time.Duration {
	if c.step == 0 {
		var err error
		c.step, err = timeutils.ParseDuration(c.Step)
		if err != nil {
			panic(err)
		}
	}
	return c.step
}

// DerivedConfig recomputes a column from another one after interpolation.
// Column and Source are header names or 1-based positions among the value fields.
type DerivedConfig struct {
	Column  string  `yaml:"column" json:"column"`
	Source  string  `yaml:"source" json:"source"`
	RoundTo float64 `yaml:"round_to" json:"round_to"`

	optional bool
}

// Restrict restricts a derived field configuration.
func (c *DerivedConfig) Restrict() error {
	if c.Column == "" {
		return errors.New("column is required")
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.RoundTo < 0 {
		return errors.New("round_to must be positive")
	}
	if c.RoundTo == 0 {
		c.RoundTo = 0.5
	}
	return nil
}

// String implements fmt.Stringer
func (c *DerivedConfig) String() string {
	return fmt.Sprintf("[%s=round(%s, %g)]", c.Column, c.Source, c.RoundTo)
}

// SentinelConfig configures the sentinel mode.
type SentinelConfig struct {
	Value   float64  `yaml:"value" json:"value"`
	Columns []string `yaml:"columns" json:"columns"`
}

// SimulateConfig configures the hydrogen storage simulation over the filled table.
type SimulateConfig struct {
	Enabled                bool    `yaml:"enabled" json:"enabled"`
	SuppliedColumn         string  `yaml:"supplied_column" json:"supplied_column"`
	ConsumedColumn         string  `yaml:"consumed_column" json:"consumed_column"`
	BaseTurbines           float64 `yaml:"base_turbines" json:"base_turbines"`
	Cases                  []int   `yaml:"cases" json:"cases"`
	ElectrolyzerEfficiency float64 `yaml:"electrolyzer_efficiency" json:"electrolyzer_efficiency"`
	FuelCellEfficiency     float64 `yaml:"fuel_cell_efficiency" json:"fuel_cell_efficiency"`
	Unit                   string  `yaml:"unit" json:"unit"`

	unit HydrogenUnit
}

// Restrict restricts a simulate configuration.
func (c *SimulateConfig) Restrict() error {
	c.SuppliedColumn = coalesceString(c.SuppliedColumn, "p_supplied_kw")
	c.ConsumedColumn = coalesceString(c.ConsumedColumn, "p_consumed_kw")
	if c.BaseTurbines < 0 {
		return errors.New("base_turbines must be positive")
	}
	if len(c.Cases) == 0 {
		c.Cases = []int{1}
	}
	for _, n := range c.Cases {
		if n < 1 || n > MaxCase {
			return fmt.Errorf("case %d out of range 1..%d", n, MaxCase)
		}
	}
	if c.ElectrolyzerEfficiency == 0 {
		c.ElectrolyzerEfficiency = DefaultElectrolyzerEfficiency
	}
	if c.FuelCellEfficiency == 0 {
		c.FuelCellEfficiency = DefaultFuelCellEfficiency
	}
	if c.ElectrolyzerEfficiency < 0 || c.ElectrolyzerEfficiency > 1 {
		return errors.New("electrolyzer_efficiency must be in (0, 1]")
	}
	if c.FuelCellEfficiency < 0 || c.FuelCellEfficiency > 1 {
		return errors.New("fuel_cell_efficiency must be in (0, 1]")
	}
	var err error
	c.unit, err = ParseHydrogenUnit(coalesceString(c.Unit, string(UnitKWh)))
	return err
}

func coalesceString(strs ...string) string {
	for _, str := range strs {
		if str != "" {
			return str
		}
	}
	return ""
}

// Load loads configuration file from file paths.
func (c *Config) Load(paths ...string) error {
	if err := gc.LoadWithEnv(c, paths...); err != nil {
		return err
	}
	return c.Restrict()
}

// Restrict restricts a configuration.
func (c *Config) Restrict() error {
	if c.RequiredVersion != "" {
		constraints, err := gv.NewConstraint(c.RequiredVersion)
		if err != nil {
			return fmt.Errorf("required_version has invalid format: %w", err)
		}
		c.versionConstraints = constraints
	}
	if c.Input == "" {
		return errors.New("input is required")
	}
	c.Output = coalesceString(c.Output, DefaultOutputPath(c.Input))
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return errors.New("input and output must be different files")
	}
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	switch c.Mode {
	case ModeTimeGap:
		if err := c.TimeGap.Restrict(); err != nil {
			return fmt.Errorf("time_gap has invalid: %w", err)
		}
	case ModeSentinel:
	case "":
		return errors.New("mode is required")
	default:
		return fmt.Errorf("mode `%s` is unknown, must be %s or %s", c.Mode, ModeTimeGap, ModeSentinel)
	}
	if c.Simulate.Enabled {
		if err := c.Simulate.Restrict(); err != nil {
			return fmt.Errorf("simulate has invalid: %w", err)
		}
	}
	return nil
}

// ValidateVersion validates a version satisfies required_version.
func (c *Config) ValidateVersion(version string) error {
	if c.versionConstraints == nil {
		log.Println("[debug] required_version is empty. Skip checking required_version.")
		return nil
	}
	versionParts := strings.SplitN(version, "-", 2)
	v, err := gv.NewVersion(versionParts[0])
	if err != nil {
		log.Printf("[warn]: Invalid version format \"%s\". Skip checking required_version.", version)
		// invalid version string (e.g. "current") always allowed
		return nil
	}
	if !c.versionConstraints.Check(v) {
		return fmt.Errorf("version %s does not satisfy constraints required_version: %s", version, c.versionConstraints)
	}
	return nil
}

// DefaultOutputPath returns input with `_Interpolated` appended before the extension.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_Interpolated" + ext
}

// NewDefaultConfig creates a default configuration.
// It reproduces the hourly wind power layout: the third value field is the first one rounded to 0.5.
func NewDefaultConfig() *Config {
	return &Config{
		Input: DefaultInput,
		Mode:  ModeTimeGap,
		TimeGap: TimeGapConfig{
			TimeFormat: DefaultTimeFormat,
			Step:       "1h",
			Derived: []*DerivedConfig{
				{
					Column:   "3",
					Source:   "1",
					RoundTo:  0.5,
					optional: true,
				},
			},
		},
		Sentinel: SentinelConfig{
			Value: DefaultSentinel,
		},
	}
}
