package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one row of windowed simulation statistics. Per-species
// columns are fixed at three slots so the CSV header stays stable; runs
// with fewer species leave the extra columns at zero.
type WindowStats struct {
	Tick       int32 `csv:"tick"`
	Population int   `csv:"population"`

	PopSpecies0 int `csv:"pop_species0"`
	PopSpecies1 int `csv:"pop_species1"`
	PopSpecies2 int `csv:"pop_species2"`

	Births0 int `csv:"births_species0"`
	Births1 int `csv:"births_species1"`
	Births2 int `csv:"births_species2"`

	Deaths0 int `csv:"deaths_species0"`
	Deaths1 int `csv:"deaths_species1"`
	Deaths2 int `csv:"deaths_species2"`

	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	FoodMass     float64 `csv:"food_mass"`
	TrailMass    float64 `csv:"trail_mass"`
	FoodConsumed float64 `csv:"food_consumed"`
}

// SetPopulation stores a per-species population count.
func (w *WindowStats) SetPopulation(species, n int) {
	switch species {
	case 0:
		w.PopSpecies0 = n
	case 1:
		w.PopSpecies1 = n
	case 2:
		w.PopSpecies2 = n
	}
}

// SetBirths stores a per-species birth count.
func (w *WindowStats) SetBirths(species, n int) {
	switch species {
	case 0:
		w.Births0 = n
	case 1:
		w.Births1 = n
	case 2:
		w.Births2 = n
	}
}

// SetDeaths stores a per-species death count.
func (w *WindowStats) SetDeaths(species, n int) {
	switch species {
	case 0:
		w.Deaths0 = n
	case 1:
		w.Deaths1 = n
	case 2:
		w.Deaths2 = n
	}
}

// EnergyStats summarizes an energy distribution: mean, standard deviation,
// and the 10th/50th/90th percentiles. An empty input yields all zeros.
func EnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}
