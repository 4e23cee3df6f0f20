// Package sim orchestrates the slime mold simulation: the environment
// field, the agent population, and the per-tick update protocol.
package sim

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/myxo/components"
	"github.com/pthm-cable/myxo/config"
	"github.com/pthm-cable/myxo/systems"
	"github.com/pthm-cable/myxo/telemetry"
)

// State is the simulation clock state.
type State uint8

const (
	Running State = iota
	Paused
	ResetPending
)

// keeps clamped positions strictly inside the grid
const boundsEpsilon = 1e-3

// Options configures a new simulation.
type Options struct {
	Seed int64
}

// agentMapper and agentFilter carry the four components every agent has.
type agentMapper = ecs.Map4[components.Position, components.Heading, components.Energy, components.Agent]
type agentFilter = ecs.Filter4[components.Position, components.Heading, components.Energy, components.Agent]

// birthInfo is a queued reproduction, applied after the agent sweep.
type birthInfo struct {
	x, y, heading float32
	species       uint8
	energy        float32
}

// Sim owns the environment field and the agent population and advances both
// one tick at a time. A tick is single-threaded by design: agents are
// evaluated in iteration order against the live field, so deposits and
// consumption by earlier agents are visible to later agents within the same
// tick. Births and deaths are applied only after the full sweep, so the
// population is stable while it is being evaluated.
type Sim struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand
	seed  int64

	mapper *agentMapper
	filter *agentFilter

	field *systems.Field

	state   State
	enabled []bool // per-species evaluation toggle
	tick    int32
	nextID  uint32
	counts  []int // live agents per species

	births []birthInfo

	collector *telemetry.Collector

	worldW, worldH float32
}

// New builds a simulation from a validated configuration and seeds the
// starting population. A configuration that fails validation is rejected;
// the simulation must not start on malformed parameters.
func New(cfg *config.Config, opts Options) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	s := &Sim{
		cfg:     cfg,
		world:   world,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		seed:    opts.Seed,
		mapper:  ecs.NewMap4[components.Position, components.Heading, components.Energy, components.Agent](world),
		filter:  ecs.NewFilter4[components.Position, components.Heading, components.Energy, components.Agent](world),
		field:   systems.NewField(cfg, opts.Seed),
		enabled: make([]bool, len(cfg.Species)),
		counts:  make([]int, len(cfg.Species)),
		worldW:  float32(cfg.Field.Width),
		worldH:  float32(cfg.Field.Height),
	}
	for i := range s.enabled {
		s.enabled[i] = true
	}

	s.seedPopulation()

	return s, nil
}

// SetCollector attaches a telemetry collector; nil detaches it.
func (s *Sim) SetCollector(c *telemetry.Collector) {
	s.collector = c
}

// Field returns the environment field for read-only snapshot access.
// Mutating it between ticks breaks the single-writer discipline.
func (s *Sim) Field() *systems.Field {
	return s.field
}

// TickCount returns the number of completed simulation ticks.
func (s *Sim) TickCount() int32 {
	return s.tick
}

// State returns the clock state.
func (s *Sim) State() State {
	return s.state
}

// SetPaused suspends or resumes the simulation. A paused tick mutates
// nothing: no field step, no agent aging, no population change.
func (s *Sim) SetPaused(paused bool) {
	switch {
	case paused && s.state == Running:
		s.state = Paused
	case !paused && s.state == Paused:
		s.state = Running
	}
}

// Reset arms a reinitialization. The next Tick rebuilds the field and the
// population from the configured starting state and returns to Running.
func (s *Sim) Reset() {
	s.state = ResetPending
}

// SetSpeciesEnabled toggles per-tick evaluation of one species. Disabled
// agents are skipped by the sweep but stay alive and keep aging; their
// trails keep decaying with the field.
func (s *Sim) SetSpeciesEnabled(species int, enabled bool) {
	if species >= 0 && species < len(s.enabled) {
		s.enabled[species] = enabled
	}
}

// SpeciesEnabled reports whether a species is being evaluated.
func (s *Sim) SpeciesEnabled(species int) bool {
	return species >= 0 && species < len(s.enabled) && s.enabled[species]
}

// PlaceFood drops food onto the field at world coordinates, clamped to the
// grid. Valid in any clock state; this is the external collaborator's hook.
func (s *Sim) PlaceFood(x, y, amount float32) {
	s.field.PlaceFood(x, y, amount)
}

// PopulationCount returns the number of live agents of one species.
func (s *Sim) PopulationCount(species int) int {
	if species < 0 || species >= len(s.counts) {
		return 0
	}
	return s.counts[species]
}

// Population returns the total number of live agents.
func (s *Sim) Population() int {
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Tick advances the simulation by one step: field decay/diffusion, then the
// agent sweep (sense, steer, move, interact), then population bookkeeping.
// A paused tick is a no-op; an armed reset consumes the tick rebuilding.
func (s *Sim) Tick() {
	switch s.state {
	case Paused:
		return
	case ResetPending:
		s.reinitialize()
		s.state = Running
		return
	}

	s.field.Step()
	s.sweepAgents()
	s.applyDeaths()
	s.applyBirths()

	s.tick++
}

// sweepAgents runs sense->steer->move->interact for every live agent and
// queues reproduction. Deaths are only marked here; removal happens after
// the sweep so iteration order stays stable within the tick.
func (s *Sim) sweepAgents() {
	biteSize := float32(s.cfg.Entity.BiteSize)
	pending := make([]int, len(s.counts))

	query := s.filter.Query()
	for query.Next() {
		pos, hd, en, ag := query.Get()

		if !en.Alive {
			continue
		}
		en.Age++

		speciesIdx := int(ag.Species)
		if !s.enabled[speciesIdx] {
			continue
		}
		sp := &s.cfg.Species[speciesIdx]

		dec := systems.Evaluate(*pos, hd.Angle, *en, sp, speciesIdx, biteSize, s.field, s.rng)
		hd.Angle = dec.Heading

		// Habitability at the current position drives both stress drain
		// and the environmental slowdown.
		here := s.field.Sample(pos.X, pos.Y, speciesIdx)
		hab := systems.Habitability(here.Temperature, here.Moisture, sp)

		s.moveAgent(pos, hd.Angle, float32(sp.MoveSpeed)*systems.SpeedFactor(hab))

		s.field.DepositTrail(pos.X, pos.Y, speciesIdx, dec.Deposit)
		consumed := s.field.ConsumeFood(pos.X, pos.Y, dec.Bite)
		systems.ApplyForage(en, consumed, sp)
		systems.ApplyMetabolism(en, hab, sp)

		if s.collector != nil && consumed > 0 {
			s.collector.RecordFood(consumed)
		}

		if en.Value <= 0 {
			en.Alive = false
			continue
		}

		// Reproduction: one child per tick, skipped silently at the cap.
		if en.Value >= float32(sp.ReproductionThreshold) &&
			s.counts[speciesIdx]+pending[speciesIdx] < s.cfg.Population.MaxPerSpecies {
			en.Value -= float32(sp.ReproductionEnergyCost)
			if en.Value < 0 {
				en.Value = 0
			}
			s.queueBirth(pos, ag.Species, float32(sp.ReproductionEnergyCost)/2)
			pending[speciesIdx]++

			if en.Value <= 0 {
				en.Alive = false
			}
		}
	}
}

// moveAgent advances a position along the heading, clamped to the field
// bounds. A step that would enter an obstacle cell is cancelled: the agent
// stalls in place this tick, keeping its updated heading.
func (s *Sim) moveAgent(pos *components.Position, heading, speed float32) {
	nx := clampPos(pos.X+float32(math.Cos(float64(heading)))*speed, s.worldW)
	ny := clampPos(pos.Y+float32(math.Sin(float64(heading)))*speed, s.worldH)

	if s.field.IsObstacle(nx, ny) {
		return
	}
	pos.X = nx
	pos.Y = ny
}

// queueBirth records a reproduction for insertion after the sweep. The
// child spawns at the parent's position with a small random offset and a
// randomized heading; an offset landing in an obstacle falls back to the
// parent's cell.
func (s *Sim) queueBirth(parent *components.Position, species uint8, energy float32) {
	maxOffset := float32(s.cfg.Entity.ChildOffset)
	x := clampPos(parent.X+(s.rng.Float32()*2-1)*maxOffset, s.worldW)
	y := clampPos(parent.Y+(s.rng.Float32()*2-1)*maxOffset, s.worldH)
	if s.field.IsObstacle(x, y) {
		x, y = parent.X, parent.Y
	}

	s.births = append(s.births, birthInfo{
		x: x, y: y,
		heading: s.rng.Float32() * 2 * math.Pi,
		species: species,
		energy:  energy,
	})
}

// clampPos keeps a coordinate strictly inside [0, limit).
func clampPos(v, limit float32) float32 {
	if v < 0 {
		return 0
	}
	if max := limit - boundsEpsilon; v > max {
		return max
	}
	return v
}
