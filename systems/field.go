package systems

import (
	"github.com/pthm-cable/myxo/config"
)

// Field is the environment grid: per-cell temperature, moisture, obstacle
// flag, food, and one pheromone trail layer per species.
//
// The grid is bounded, not toroidal. Out-of-bounds queries clamp to the
// nearest valid cell, and diffusion treats missing neighbors as absent, so
// the edges behave as insulating boundaries rather than sources or sinks.
type Field struct {
	W, H int

	Temp     []float32
	Moist    []float32
	Obstacle []bool
	Food     []float32

	// baseline for the slow environmental relaxation
	baseTemp  []float32
	baseMoist []float32

	trails [][]float32 // one layer per species

	TrailDecay   float32 // multiplicative per tick, in (0,1)
	TrailDiffuse float32 // stencil rate per tick
	EnvRelax     float32 // pull toward baseline per tick

	tmp []float32
}

// Sample is one sub-cell environment lookup.
// Scalar layers are bilinearly interpolated; the obstacle flag and the
// trail value of the requested species come with it so the sensor unit
// needs a single call per sensing point.
type Sample struct {
	Temperature float32
	Moisture    float32
	Food        float32
	Trail       float32
	Obstacle    bool
}

// maximum stable rate for the explicit 5-point diffusion stencil
const maxDiffusionRate = 0.2

// NewField generates a field from the configuration using coherent noise:
// temperature and moisture from independent fBm layers, obstacles and food
// from thresholded layers. The same seed reproduces the same field.
func NewField(cfg *config.Config, seed int64) *Field {
	w, h := cfg.Field.Width, cfg.Field.Height
	n := w * h

	f := &Field{
		W: w, H: h,
		Temp:      make([]float32, n),
		Moist:     make([]float32, n),
		Obstacle:  make([]bool, n),
		Food:      make([]float32, n),
		baseTemp:  make([]float32, n),
		baseMoist: make([]float32, n),
		trails:    make([][]float32, len(cfg.Species)),
		tmp:       make([]float32, n),

		TrailDecay:   float32(cfg.Field.TrailDecay),
		TrailDiffuse: float32(cfg.Field.TrailDiffusion),
		EnvRelax:     float32(cfg.Field.EnvRelaxRate),
	}
	for s := range f.trails {
		f.trails[s] = make([]float32, n)
	}

	octaves := cfg.Field.NoiseOctaves
	tempNoise := NewFBMNoise(seed, octaves)
	moistNoise := NewFBMNoise(seed+1, octaves)
	obstacleNoise := NewFBMNoise(seed+2, 2)
	foodNoise := NewFBMNoise(seed+3, octaves+1)

	scale := cfg.Field.NoiseScale
	foodAmount := float32(cfg.Field.FoodAmount)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			nx, ny := float64(x)*scale, float64(y)*scale

			// 20 degrees +- 10, like the biological range the species prefer
			f.Temp[i] = float32(tempNoise.Eval2(nx, ny)*10 + 20)
			f.Moist[i] = clampUnit(float32(moistNoise.Eval2(nx, ny)*0.5 + 0.5))

			if obstacleNoise.Eval2(nx, ny) > cfg.Field.ObstacleThreshold {
				f.Obstacle[i] = true
			}
			if foodNoise.Eval2(nx, ny) > cfg.Field.FoodThreshold {
				f.Food[i] = foodAmount
			}
		}
	}
	copy(f.baseTemp, f.Temp)
	copy(f.baseMoist, f.Moist)

	return f
}

// GridSize returns the grid dimensions.
func (f *Field) GridSize() (int, int) {
	return f.W, f.H
}

// NumSpecies returns the number of trail layers.
func (f *Field) NumSpecies() int {
	return len(f.trails)
}

// cellIndex returns the index of the cell containing (x, y), clamped to the grid.
func (f *Field) cellIndex(x, y float32) int {
	ix := clampInt(int(x), 0, f.W-1)
	iy := clampInt(int(y), 0, f.H-1)
	return iy*f.W + ix
}

// Sample looks up the environment at continuous world coordinates.
// Out-of-bounds coordinates clamp to the nearest valid cell; sampling is
// never an error.
func (f *Field) Sample(x, y float32, species int) Sample {
	cx := clampFloat(x, 0, float32(f.W-1))
	cy := clampFloat(y, 0, float32(f.H-1))

	x0 := int(cx)
	y0 := int(cy)
	x1 := clampInt(x0+1, 0, f.W-1)
	y1 := clampInt(y0+1, 0, f.H-1)
	tx := cx - float32(x0)
	ty := cy - float32(y0)

	i00 := y0*f.W + x0
	i10 := y0*f.W + x1
	i01 := y1*f.W + x0
	i11 := y1*f.W + x1

	s := Sample{
		Temperature: bilerp(f.Temp[i00], f.Temp[i10], f.Temp[i01], f.Temp[i11], tx, ty),
		Moisture:    bilerp(f.Moist[i00], f.Moist[i10], f.Moist[i01], f.Moist[i11], tx, ty),
		Food:        bilerp(f.Food[i00], f.Food[i10], f.Food[i01], f.Food[i11], tx, ty),
		Obstacle:    f.Obstacle[f.cellIndex(x, y)],
	}
	if species >= 0 && species < len(f.trails) {
		tr := f.trails[species]
		s.Trail = bilerp(tr[i00], tr[i10], tr[i01], tr[i11], tx, ty)
	}
	return s
}

// IsObstacle reports whether the cell containing (x, y) is an obstacle.
func (f *Field) IsObstacle(x, y float32) bool {
	return f.Obstacle[f.cellIndex(x, y)]
}

// DepositTrail adds pheromone to the species layer at the containing cell.
// Obstacle cells never accumulate deposits.
func (f *Field) DepositTrail(x, y float32, species int, amount float32) {
	if amount <= 0 || species < 0 || species >= len(f.trails) {
		return
	}
	i := f.cellIndex(x, y)
	if f.Obstacle[i] {
		return
	}
	f.trails[species][i] += amount
}

// ConsumeFood removes up to amount of food from the containing cell and
// returns what was actually available, never negative.
func (f *Field) ConsumeFood(x, y float32, amount float32) float32 {
	if amount <= 0 {
		return 0
	}
	i := f.cellIndex(x, y)
	take := amount
	if take > f.Food[i] {
		take = f.Food[i]
	}
	f.Food[i] -= take
	return take
}

// PlaceFood adds food to the containing cell.
func (f *Field) PlaceFood(x, y float32, amount float32) {
	if amount <= 0 {
		return
	}
	f.Food[f.cellIndex(x, y)] += amount
}

// Step advances the field by one tick: every trail layer diffuses and then
// decays, and temperature/moisture relax toward their generated baselines.
// Food never evolves on its own; only consumption and placement change it.
func (f *Field) Step() {
	for _, layer := range f.trails {
		f.diffuse(layer)
		decay := f.TrailDecay
		for i, v := range layer {
			layer[i] = v * decay
		}
	}

	if f.EnvRelax > 0 {
		k := f.EnvRelax
		for i := range f.Temp {
			f.Temp[i] += (f.baseTemp[i] - f.Temp[i]) * k
			f.Moist[i] += (f.baseMoist[i] - f.Moist[i]) * k
		}
	}
}

// diffuse applies the 5-point Laplacian stencil with insulating edges:
// neighbors outside the grid are simply absent, so no mass enters or leaves
// through the boundary. Trail still diffuses into obstacle cells; only
// deposits are excluded there.
func (f *Field) diffuse(layer []float32) {
	a := f.TrailDiffuse
	if a <= 0 {
		return
	}
	if a > maxDiffusionRate {
		a = maxDiffusionRate
	}

	w, h := f.W, f.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			c := layer[i]

			var sum float32
			var n float32
			if x > 0 {
				sum += layer[i-1]
				n++
			}
			if x < w-1 {
				sum += layer[i+1]
				n++
			}
			if y > 0 {
				sum += layer[i-w]
				n++
			}
			if y < h-1 {
				sum += layer[i+w]
				n++
			}

			f.tmp[i] = c + a*(sum-n*c)
		}
	}
	copy(layer, f.tmp)
}

// TrailData returns the raw trail layer of a species for drawing and debug
// overlays. The returned slice aliases live field state.
func (f *Field) TrailData(species int) []float32 {
	if species < 0 || species >= len(f.trails) {
		return nil
	}
	return f.trails[species]
}

// TrailMass returns the summed trail of one species over the whole grid.
func (f *Field) TrailMass(species int) float64 {
	if species < 0 || species >= len(f.trails) {
		return 0
	}
	var sum float64
	for _, v := range f.trails[species] {
		sum += float64(v)
	}
	return sum
}

// FoodMass returns the total food on the grid.
func (f *Field) FoodMass() float64 {
	var sum float64
	for _, v := range f.Food {
		sum += float64(v)
	}
	return sum
}

func bilerp(v00, v10, v01, v11, tx, ty float32) float32 {
	a := v00 + (v10-v00)*tx
	b := v01 + (v11-v01)*tx
	return a + (b-a)*ty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUnit(v float32) float32 {
	return clampFloat(v, 0, 1)
}
