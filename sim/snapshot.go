package sim

import (
	"github.com/pthm-cable/myxo/telemetry"
)

// AgentView is a read-only copy of one agent's state, for rendering and
// debug overlays.
type AgentView struct {
	X, Y    float32
	Heading float32
	Energy  float32
	Age     int32
	Species int
}

// Agents appends a view of every live agent to dst and returns the result.
// Pass a reused slice to avoid per-frame allocation.
func (s *Sim) Agents(dst []AgentView) []AgentView {
	query := s.filter.Query()
	for query.Next() {
		pos, hd, en, ag := query.Get()
		if !en.Alive {
			continue
		}
		dst = append(dst, AgentView{
			X: pos.X, Y: pos.Y,
			Heading: hd.Angle,
			Energy:  en.Value,
			Age:     en.Age,
			Species: int(ag.Species),
		})
	}
	return dst
}

// WindowStats builds a telemetry record for the window ending at the
// current tick, combining live population state with the collector's
// event counters. The collector is not reset; the caller owns that.
func (s *Sim) WindowStats(col *telemetry.Collector) telemetry.WindowStats {
	ws := telemetry.WindowStats{
		Tick:       s.tick,
		Population: s.Population(),
		FoodMass:   s.field.FoodMass(),
	}
	for i := range s.counts {
		ws.SetPopulation(i, s.counts[i])
		ws.TrailMass += s.field.TrailMass(i)
	}

	var energies []float64
	query := s.filter.Query()
	for query.Next() {
		_, _, en, _ := query.Get()
		if en.Alive {
			energies = append(energies, float64(en.Value))
		}
	}
	ws.EnergyMean, ws.EnergyStd, ws.EnergyP10, ws.EnergyP50, ws.EnergyP90 = telemetry.EnergyStats(energies)

	if col != nil {
		ws.FoodConsumed = col.FoodConsumed
		for i := 0; i < len(s.counts); i++ {
			ws.SetBirths(i, col.BirthCount(i))
			ws.SetDeaths(i, col.DeathCount(i))
		}
	}
	return ws
}
