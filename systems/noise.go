package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// FBMNoise layers OpenSimplex octaves into fractional Brownian motion,
// used to generate the coherent temperature, moisture, obstacle and food
// layers of the environment.
type FBMNoise struct {
	noise      opensimplex.Noise
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// NewFBMNoise creates a generator with the given seed and octave count.
func NewFBMNoise(seed int64, octaves int) *FBMNoise {
	if octaves < 1 {
		octaves = 1
	}
	return &FBMNoise{
		noise:      opensimplex.New(seed),
		Octaves:    octaves,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Eval2 returns layered noise at (x, y), normalized to roughly [-1, 1].
func (f *FBMNoise) Eval2(x, y float64) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := 1.0
	for o := 0; o < f.Octaves; o++ {
		sum += amp * f.noise.Eval2(x*freq, y*freq)
		norm += amp
		freq *= f.Lacunarity
		amp *= f.Gain
	}
	return sum / norm
}
