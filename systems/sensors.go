package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/myxo/components"
	"github.com/pthm-cable/myxo/config"
)

// Desirability weights. Obstacle penalty dominates any attainable trail or
// food score so an obstacle sensing point always loses.
const (
	foodWeight      = 6.0
	obstaclePenalty = -1000.0
	tieTolerance    = 1e-4

	// per-tick heading noise, small relative to any species turn speed
	headingJitter = 0.05

	// sensor reach stretch at zero energy (hungry agents scan further)
	hungerReach = 1.0
)

// Decision is the output of one sensor evaluation: the new heading plus the
// side-effect requests to apply at the agent's current position.
type Decision struct {
	Heading float32
	Deposit float32 // trail to lay
	Bite    float32 // food consumption to attempt
}

// Evaluate runs the three-ray sensing and steering algorithm for one agent.
// It is pure apart from draws on the provided rng: it reads the field and
// returns a Decision without mutating anything.
//
// Three points at sensorDistance ahead along heading-sensorAngle, heading,
// and heading+sensorAngle are scored; the agent turns toward the best one,
// bounded by the species turn speed. A strictly-best center (within a small
// tolerance) means straight ahead; left/right ties break randomly to avoid
// deterministic lock-in. A small jitter is added every tick regardless.
func Evaluate(
	pos components.Position,
	heading float32,
	energy components.Energy,
	sp *config.SpeciesConfig,
	species int,
	biteSize float32,
	field *Field,
	rng *rand.Rand,
) Decision {
	energyRatio := clampUnit(energy.Value / float32(sp.EnergyCap))
	hunger := 1 + (1 - energyRatio)

	// Hungry agents sense further, up to (1+hungerReach)x the base reach.
	dist := float32(sp.SensorDistance) * (1 + hungerReach*(1-energyRatio))
	angle := float32(sp.SensorAngle)

	left := senseScore(pos, heading-angle, dist, sp, species, hunger, field)
	center := senseScore(pos, heading, dist, sp, species, hunger, field)
	right := senseScore(pos, heading+angle, dist, sp, species, hunger, field)

	turnSpeed := float32(sp.TurnSpeed)
	var turn float32
	switch {
	case center >= left-tieTolerance && center >= right-tieTolerance:
		// straight ahead
	case absf(left-right) <= tieTolerance:
		if rng.Float32() < 0.5 {
			turn = -turnSpeed
		} else {
			turn = turnSpeed
		}
	case left > right:
		turn = -turnSpeed
	default:
		turn = turnSpeed
	}

	turn += (rng.Float32()*2 - 1) * headingJitter

	return Decision{
		Heading: normalizeAngle(heading + turn),
		Deposit: float32(sp.TrailDeposit),
		Bite:    biteSize,
	}
}

// senseScore samples one sensing point and scores its desirability.
func senseScore(pos components.Position, angle, dist float32, sp *config.SpeciesConfig, species int, hunger float32, field *Field) float32 {
	sx := pos.X + cosf(angle)*dist
	sy := pos.Y + sinf(angle)*dist
	return scorePoint(field.Sample(sx, sy, species), sp, hunger)
}

// scorePoint combines own-trail attraction, hunger-scaled food bonus and
// habitability into a single desirability value.
func scorePoint(s Sample, sp *config.SpeciesConfig, hunger float32) float32 {
	if s.Obstacle {
		return obstaclePenalty
	}
	score := s.Trail * float32(sp.TrailSensitivity)
	score += s.Food * foodWeight * hunger
	score += Habitability(s.Temperature, s.Moisture, sp)
	return score
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
