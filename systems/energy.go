package systems

import (
	"github.com/pthm-cable/myxo/components"
	"github.com/pthm-cable/myxo/config"
)

// Habitability falloff widths. A cell one full tolerance away from the
// species preference scores zero on that axis.
const (
	tempTolerance  = 10.0
	moistTolerance = 0.5

	// extra metabolic drain at zero habitability (doubles the base rate)
	stressWeight = 1.0

	// movement never drops below this fraction of the species move speed
	minSpeedFactor = 0.1
)

// Habitability scores how well local conditions match a species preference:
// 1 at the preference point, falling linearly to 0 at the tolerance edge on
// each axis, combined multiplicatively.
func Habitability(temp, moist float32, sp *config.SpeciesConfig) float32 {
	dt := absf(temp-float32(sp.TemperaturePreference)) / tempTolerance
	dm := absf(moist-float32(sp.MoisturePreference)) / moistTolerance
	return (1 - clampUnit(dt)) * (1 - clampUnit(dm))
}

// SpeedFactor scales movement by environmental stress. Agents slow down
// outside their preferred range but never stall entirely from stress alone.
func SpeedFactor(habitability float32) float32 {
	return minSpeedFactor + (1-minSpeedFactor)*clampUnit(habitability)
}

// ApplyMetabolism drains one tick of energy. Stress outside the preferred
// temperature/moisture range drains up to stressWeight times faster.
func ApplyMetabolism(e *components.Energy, habitability float32, sp *config.SpeciesConfig) {
	drain := float32(sp.MetabolicRate) * (1 + stressWeight*(1-clampUnit(habitability)))
	e.Value -= drain
	clampEnergy(e, sp)
}

// ApplyForage converts this tick's consumed food into energy.
func ApplyForage(e *components.Energy, consumed float32, sp *config.SpeciesConfig) {
	if consumed <= 0 {
		return
	}
	e.Value += consumed * float32(sp.FoodToEnergy)
	clampEnergy(e, sp)
}

// clampEnergy keeps energy in [0, cap]; going below zero is a death signal
// handled by the caller, not an error.
func clampEnergy(e *components.Energy, sp *config.SpeciesConfig) {
	if e.Value < 0 {
		e.Value = 0
	}
	if cap := float32(sp.EnergyCap); e.Value > cap {
		e.Value = cap
	}
}
