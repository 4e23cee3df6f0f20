package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/myxo/components"
	"github.com/pthm-cable/myxo/systems"
)

// seedPopulation spawns the configured starting agents for every species,
// clustered around the field center.
func (s *Sim) seedPopulation() {
	cx := s.worldW / 2
	cy := s.worldH / 2
	spawnRadius := float32(s.cfg.Entity.SpawnRadius)

	for speciesIdx := range s.cfg.Species {
		sp := &s.cfg.Species[speciesIdx]
		energy := float32(s.cfg.Entity.InitialEnergy)
		if cap := float32(sp.EnergyCap); energy > cap {
			energy = cap
		}

		for i := 0; i < sp.SeedCount; i++ {
			x, y := s.freeSpawnPos(cx, cy, spawnRadius)
			heading := s.rng.Float32() * 2 * math.Pi
			s.spawnAgent(x, y, heading, uint8(speciesIdx), energy)
		}
	}
}

// freeSpawnPos picks a non-obstacle position within radius of (cx, cy),
// falling back to a grid scan if the area is walled off.
func (s *Sim) freeSpawnPos(cx, cy, radius float32) (float32, float32) {
	for attempt := 0; attempt < 32; attempt++ {
		angle := s.rng.Float32() * 2 * math.Pi
		r := s.rng.Float32() * radius
		x := clampPos(cx+float32(math.Cos(float64(angle)))*r, s.worldW)
		y := clampPos(cy+float32(math.Sin(float64(angle)))*r, s.worldH)
		if !s.field.IsObstacle(x, y) {
			return x, y
		}
	}

	// Degenerate terrain: take the first free cell anywhere.
	w, h := s.field.GridSize()
	for iy := 0; iy < h; iy++ {
		for ix := 0; ix < w; ix++ {
			x := float32(ix) + 0.5
			y := float32(iy) + 0.5
			if !s.field.IsObstacle(x, y) {
				return x, y
			}
		}
	}
	return cx, cy
}

// spawnAgent creates one live agent entity.
func (s *Sim) spawnAgent(x, y, heading float32, species uint8, energy float32) ecs.Entity {
	id := s.nextID
	s.nextID++

	pos := components.Position{X: x, Y: y}
	hd := components.Heading{Angle: heading}
	en := components.Energy{Value: energy, Age: 0, Alive: true}
	ag := components.Agent{ID: id, Species: species}

	entity := s.mapper.NewEntity(&pos, &hd, &en, &ag)
	s.counts[species]++
	return entity
}

// applyBirths inserts the reproductions queued during the sweep. Caps were
// already checked at queue time; the queue is drained either way.
func (s *Sim) applyBirths() {
	for _, b := range s.births {
		s.spawnAgent(b.x, b.y, b.heading, b.species, b.energy)
		if s.collector != nil {
			s.collector.RecordBirth(int(b.species))
		}
	}
	s.births = s.births[:0]
}

// applyDeaths removes every agent marked dead during the sweep. Two passes:
// collect while the query runs, remove after it finishes.
func (s *Sim) applyDeaths() {
	type deadInfo struct {
		entity  ecs.Entity
		species uint8
	}
	var toRemove []deadInfo

	query := s.filter.Query()
	for query.Next() {
		entity := query.Entity()
		_, _, en, ag := query.Get()

		if !en.Alive {
			toRemove = append(toRemove, deadInfo{entity: entity, species: ag.Species})
		}
	}

	for _, dead := range toRemove {
		s.mapper.Remove(dead.entity)
		s.counts[dead.species]--
		if s.collector != nil {
			s.collector.RecordDeath(int(dead.species))
		}
	}
}

// reinitialize rebuilds the field and the population from the configured
// starting state. The same seed regenerates the same world.
func (s *Sim) reinitialize() {
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		s.mapper.Remove(e)
	}

	s.rng.Seed(s.seed)
	s.field = systems.NewField(s.cfg, s.seed)
	for i := range s.counts {
		s.counts[i] = 0
	}
	for i := range s.enabled {
		s.enabled[i] = true
	}
	s.births = s.births[:0]
	s.tick = 0
	s.nextID = 0

	s.seedPopulation()
}
