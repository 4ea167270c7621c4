package gapfill

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
)

const (
	// HydrogenEnergyDensity is the energy stored per kilogram of hydrogen, in kWh/kg.
	HydrogenEnergyDensity = 33.33
	// HydrogenMolarMass is in g/mol.
	HydrogenMolarMass = 2.016

	DefaultElectrolyzerEfficiency = 0.75
	DefaultFuelCellEfficiency     = 0.55

	// MaxCase is the case at which no turbine is running.
	MaxCase = 11
)

// HydrogenUnit is a display unit for hydrogen amounts.
type HydrogenUnit string

const (
	UnitKWh HydrogenUnit = "kWh"
	UnitKg  HydrogenUnit = "kg"
	UnitMol HydrogenUnit = "mol"
)

// Convert converts an amount in kWh into u.
func (u HydrogenUnit) Convert(kWh float64) float64 {
	switch u {
	case UnitKg:
		return kWh / HydrogenEnergyDensity
	case UnitMol:
		return kWh / HydrogenEnergyDensity * 1000 / HydrogenMolarMass
	default:
		return kWh
	}
}

// Format renders an amount in kWh in u. Moles have no decimals.
func (u HydrogenUnit) Format(kWh float64) string {
	if u == UnitMol {
		return fmt.Sprintf("%.0f %s", u.Convert(kWh), u)
	}
	return fmt.Sprintf("%.2f %s", u.Convert(kWh), u)
}

// ParseHydrogenUnit accepts kWh, kg or mol in any case.
func ParseHydrogenUnit(str string) (HydrogenUnit, error) {
	for _, u := range []HydrogenUnit{UnitKWh, UnitKg, UnitMol} {
		if strings.EqualFold(str, string(u)) {
			return u, nil
		}
	}
	return "", fmt.Errorf("hydrogen unit `%s` is unknown, must be kWh, kg or mol", str)
}

// HydrogenAmount is an amount of hydrogen in kWh. It marshals into every unit.
type HydrogenAmount float64

// MarshalJSON implements json.Marshaler
func (a HydrogenAmount) MarshalJSON() ([]byte, error) {
	kWh := float64(a)
	return json.Marshal(map[string]float64{
		"kwh": kWh,
		"kg":  UnitKg.Convert(kWh),
		"mol": UnitMol.Convert(kWh),
	})
}

// PowerSample is one row of supplied power per turbine and consumed power, in kW.
type PowerSample struct {
	Supplied float64
	Consumed float64
}

// PowerSamples reads the supplied and consumed columns of t in row order.
// Rows where either value is missing are skipped and counted.
func PowerSamples(t *Table, suppliedColumn, consumedColumn string) ([]PowerSample, int, error) {
	supplied := t.ColumnIndex(suppliedColumn)
	if supplied < 0 {
		return nil, 0, fmt.Errorf("column `%s` not found", suppliedColumn)
	}
	consumed := t.ColumnIndex(consumedColumn)
	if consumed < 0 {
		return nil, 0, fmt.Errorf("column `%s` not found", consumedColumn)
	}
	samples := make([]PowerSample, 0, t.Len())
	skipped := 0
	for i, row := range t.Rows {
		s, err := ParseValue(row[supplied])
		if err == nil && IsMissing(s) {
			err = errors.New("supplied power is missing")
		}
		var c float64
		if err == nil {
			c, err = ParseValue(row[consumed])
			if err == nil && IsMissing(c) {
				err = errors.New("consumed power is missing")
			}
		}
		if err != nil {
			log.Printf("[debug] simulate: skip row %d: %s", i+2, err)
			skipped++
			continue
		}
		samples = append(samples, PowerSample{Supplied: s, Consumed: c})
	}
	return samples, skipped, nil
}

// BaseTurbines returns the number of turbines needed to meet peak demand with average wind.
func BaseTurbines(samples []PowerSample) (float64, error) {
	if len(samples) == 0 {
		return 0, errors.New("no power samples")
	}
	var maxConsumed, sumSupplied float64
	for _, s := range samples {
		maxConsumed = math.Max(maxConsumed, s.Consumed)
		sumSupplied += s.Supplied
	}
	avgSupplied := sumSupplied / float64(len(samples))
	if avgSupplied <= 0 {
		return 0, errors.New("average supplied power is not positive")
	}
	return math.Ceil(maxConsumed / avgSupplied), nil
}

// CaseMultiplier scales the base turbine count: case 1 runs all of them, case 11 none.
func CaseMultiplier(c int) float64 {
	return float64(MaxCase-c) / 10
}

// StorageModel converts surplus power into hydrogen and covers deficits with a fuel cell.
type StorageModel struct {
	BaseTurbines           float64
	ElectrolyzerEfficiency float64
	FuelCellEfficiency     float64
}

// SimulationResult is the outcome of one case over the whole timespan. Amounts are in kWh.
type SimulationResult struct {
	Case          int            `json:"case"`
	Turbines      float64        `json:"turbines"`
	Samples       int            `json:"samples"`
	MaxStorage    HydrogenAmount `json:"max_storage"`
	MaxImportRate HydrogenAmount `json:"max_import_rate"`
	TotalImported HydrogenAmount `json:"total_imported"`
}

// Format renders r with amounts in unit.
func (r *SimulationResult) Format(unit HydrogenUnit) string {
	return fmt.Sprintf("case[%d] turbines=%.1f max_storage=%s max_import_rate=%s/h total_imported=%s",
		r.Case, r.Turbines, unit.Format(float64(r.MaxStorage)), unit.Format(float64(r.MaxImportRate)), unit.Format(float64(r.TotalImported)))
}

// String implements fmt.Stringer
func (r *SimulationResult) String() string {
	return r.Format(UnitKWh)
}

// Simulate runs one case over samples, one sample per step. Storage starts empty.
// A deficit the storage cannot cover empties it and imports the shortfall.
func (m *StorageModel) Simulate(samples []PowerSample, c int) *SimulationResult {
	turbines := m.BaseTurbines * CaseMultiplier(c)
	var storage, maxStorage, maxImportRate, totalImported float64
	for _, s := range samples {
		surplus := s.Supplied*turbines - s.Consumed
		switch {
		case surplus > 0:
			storage += surplus * m.ElectrolyzerEfficiency
		case surplus < 0:
			required := -surplus / m.FuelCellEfficiency
			if storage >= required {
				storage -= required
				break
			}
			shortfall := required - storage
			storage = 0
			totalImported += shortfall
			maxImportRate = math.Max(maxImportRate, shortfall)
		}
		maxStorage = math.Max(maxStorage, storage)
	}
	return &SimulationResult{
		Case:          c,
		Turbines:      turbines,
		Samples:       len(samples),
		MaxStorage:    HydrogenAmount(maxStorage),
		MaxImportRate: HydrogenAmount(maxImportRate),
		TotalImported: HydrogenAmount(totalImported),
	}
}

// SimulateStorage runs every configured case over the power columns of t.
func SimulateStorage(t *Table, cfg *SimulateConfig) ([]*SimulationResult, error) {
	samples, skipped, err := PowerSamples(t, cfg.SuppliedColumn, cfg.ConsumedColumn)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("[info] simulate: skipped %d row(s) without power readings", skipped)
	}
	base := cfg.BaseTurbines
	if base == 0 {
		base, err = BaseTurbines(samples)
		if err != nil {
			return nil, err
		}
		log.Printf("[info] simulate: %g turbine(s) meet peak demand with average wind", base)
	}
	model := &StorageModel{
		BaseTurbines:           base,
		ElectrolyzerEfficiency: cfg.ElectrolyzerEfficiency,
		FuelCellEfficiency:     cfg.FuelCellEfficiency,
	}
	results := make([]*SimulationResult, 0, len(cfg.Cases))
	for _, c := range cfg.Cases {
		r := model.Simulate(samples, c)
		log.Printf("[info] simulate: %s", r.Format(cfg.unit))
		results = append(results, r)
	}
	return results, nil
}
