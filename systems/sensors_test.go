package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/myxo/components"
)

func sensorField() *Field {
	f := testField(32, 32)
	// match the test species preference so habitability is uniform
	for i := range f.Temp {
		f.Temp[i] = 25
		f.Moist[i] = 0.7
	}
	copy(f.baseTemp, f.Temp)
	copy(f.baseMoist, f.Moist)
	return f
}

func fullEnergy(sp float64) components.Energy {
	return components.Energy{Value: float32(sp), Alive: true}
}

func TestEvaluateSteersTowardFood(t *testing.T) {
	sp := testSpecies()
	f := sensorField()
	rng := rand.New(rand.NewSource(1))

	pos := components.Position{X: 16, Y: 16}
	heading := float32(0) // +x

	// Food at the left sensing point: distance 9 along heading - pi/4.
	fx := 16 + 9*float32(math.Cos(-math.Pi/4))
	fy := 16 + 9*float32(math.Sin(-math.Pi/4))
	f.PlaceFood(fx, fy, 2.0)

	dec := Evaluate(pos, heading, fullEnergy(sp.EnergyCap), sp, 0, 0.5, f, rng)

	turn := float64(dec.Heading - heading)
	wantTurn := -sp.TurnSpeed
	if math.Abs(turn-wantTurn) > headingJitter+1e-5 {
		t.Errorf("turn = %v, want about %v (toward the food)", turn, wantTurn)
	}
	if dec.Deposit != float32(sp.TrailDeposit) {
		t.Errorf("deposit = %v, want %v", dec.Deposit, sp.TrailDeposit)
	}
	if dec.Bite != 0.5 {
		t.Errorf("bite = %v, want 0.5", dec.Bite)
	}
}

func TestEvaluateFollowsOwnTrail(t *testing.T) {
	sp := testSpecies()
	f := sensorField()
	rng := rand.New(rand.NewSource(1))

	pos := components.Position{X: 16, Y: 16}
	heading := float32(0)

	// Strong trail at the right sensing point.
	tx := 16 + 9*float32(math.Cos(math.Pi/4))
	ty := 16 + 9*float32(math.Sin(math.Pi/4))
	f.DepositTrail(tx, ty, 0, 5.0)

	dec := Evaluate(pos, heading, fullEnergy(sp.EnergyCap), sp, 0, 0.5, f, rng)

	turn := float64(dec.Heading - heading)
	if math.Abs(turn-sp.TurnSpeed) > headingJitter+1e-5 {
		t.Errorf("turn = %v, want about %v (toward own trail)", turn, sp.TurnSpeed)
	}
}

func TestEvaluateAvoidsObstacles(t *testing.T) {
	sp := testSpecies()
	f := sensorField()
	rng := rand.New(rand.NewSource(1))

	pos := components.Position{X: 16, Y: 16}
	heading := float32(0)

	// Obstacles at the center and left sensing points leave only right open.
	cx := 16 + 9*float32(math.Cos(0))
	lx := 16 + 9*float32(math.Cos(-math.Pi/4))
	ly := 16 + 9*float32(math.Sin(-math.Pi/4))
	f.Obstacle[f.cellIndex(cx, 16)] = true
	f.Obstacle[f.cellIndex(lx, ly)] = true

	dec := Evaluate(pos, heading, fullEnergy(sp.EnergyCap), sp, 0, 0.5, f, rng)

	turn := float64(dec.Heading - heading)
	if math.Abs(turn-sp.TurnSpeed) > headingJitter+1e-5 {
		t.Errorf("turn = %v, want about %v (away from obstacles)", turn, sp.TurnSpeed)
	}
}

func TestEvaluateUniformGoesStraight(t *testing.T) {
	sp := testSpecies()
	f := sensorField()
	rng := rand.New(rand.NewSource(1))

	pos := components.Position{X: 16, Y: 16}
	heading := float32(0.3)

	dec := Evaluate(pos, heading, fullEnergy(sp.EnergyCap), sp, 0, 0.5, f, rng)

	// A uniform field scores all three points equally: straight ahead, only
	// the jitter remains.
	turn := float64(dec.Heading - heading)
	if math.Abs(turn) > headingJitter+1e-5 {
		t.Errorf("turn on uniform field = %v, want within jitter %v", turn, headingJitter)
	}
}

func TestEvaluateTurnBounded(t *testing.T) {
	sp := testSpecies()
	f := sensorField()
	rng := rand.New(rand.NewSource(99))

	// Scatter food and obstacles so every decision branch gets exercised.
	f.PlaceFood(10, 10, 3)
	f.PlaceFood(22, 20, 3)
	f.Obstacle[f.cellIndex(20, 16)] = true

	maxTurn := sp.TurnSpeed + headingJitter + 1e-5
	for i := 0; i < 200; i++ {
		pos := components.Position{
			X: rng.Float32()*28 + 2,
			Y: rng.Float32()*28 + 2,
		}
		heading := (rng.Float32()*2 - 1) * math.Pi

		dec := Evaluate(pos, heading, fullEnergy(sp.EnergyCap), sp, 0, 0.5, f, rng)

		diff := math.Abs(float64(normalizeAngle(dec.Heading - heading)))
		if diff > maxTurn {
			t.Fatalf("iteration %d: heading changed by %v, max is %v", i, diff, maxTurn)
		}
	}
}

func TestEvaluateHungerExtendsReach(t *testing.T) {
	sp := testSpecies()
	f := sensorField()

	pos := components.Position{X: 16, Y: 16}
	heading := float32(0)

	// Food on the left ray at 2x the base sensor distance: exactly where a
	// starving agent's stretched reach samples, far beyond a well-fed one's.
	farDist := float32(sp.SensorDistance) * 2
	fx := 16 + farDist*float32(math.Cos(-math.Pi/4))
	fy := 16 + farDist*float32(math.Sin(-math.Pi/4))
	f.PlaceFood(fx, fy, 3.0)

	full := Evaluate(pos, heading, fullEnergy(sp.EnergyCap), sp, 0, 0.5, f, rand.New(rand.NewSource(1)))
	if turn := math.Abs(float64(full.Heading - heading)); turn > headingJitter+1e-5 {
		t.Errorf("well-fed agent turned %v toward food beyond its reach", turn)
	}

	starving := components.Energy{Value: 0, Alive: true}
	hungry := Evaluate(pos, heading, starving, sp, 0, 0.5, f, rand.New(rand.NewSource(1)))
	turn := float64(hungry.Heading - heading)
	if math.Abs(turn-(-sp.TurnSpeed)) > headingJitter+1e-5 {
		t.Errorf("starving agent turn = %v, want about %v (stretched reach)", turn, -sp.TurnSpeed)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	sp := testSpecies()
	f := sensorField()
	f.PlaceFood(20, 12, 1)

	pos := components.Position{X: 16, Y: 16}
	en := fullEnergy(sp.EnergyCap)

	a := Evaluate(pos, 0.1, en, sp, 0, 0.5, f, rand.New(rand.NewSource(7)))
	b := Evaluate(pos, 0.1, en, sp, 0, 0.5, f, rand.New(rand.NewSource(7)))

	if a != b {
		t.Errorf("same seed gave different decisions: %+v vs %+v", a, b)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float32 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{2 * math.Pi, 0},
		{-2 * math.Pi, 0},
		{3 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := normalizeAngle(c.in)
		if math.Abs(float64(got-c.want)) > 1e-5 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
