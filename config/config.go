// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Field      FieldConfig      `yaml:"field"`
	Entity     EntityConfig     `yaml:"entity"`
	Population PopulationConfig `yaml:"population"`
	Species    []SpeciesConfig  `yaml:"species"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// FieldConfig holds environment field dimensions and evolution parameters.
// The grid is bounded (insulating edges); one world unit is one cell.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Coherent-noise generation of the initial layers
	NoiseScale        float64 `yaml:"noise_scale"`        // base noise frequency
	NoiseOctaves      int     `yaml:"noise_octaves"`      // fBm octaves
	ObstacleThreshold float64 `yaml:"obstacle_threshold"` // noise above this is an obstacle
	FoodThreshold     float64 `yaml:"food_threshold"`     // noise above this seeds food
	FoodAmount        float64 `yaml:"food_amount"`        // food per seeded cell

	// Per-tick evolution
	TrailDecay     float64 `yaml:"trail_decay"`     // multiplicative, in (0,1)
	TrailDiffusion float64 `yaml:"trail_diffusion"` // 5-point stencil rate per tick
	EnvRelaxRate   float64 `yaml:"env_relax_rate"`  // temperature/moisture pull toward baseline
}

// EntityConfig holds agent creation and feeding parameters shared by all species.
type EntityConfig struct {
	InitialEnergy float64 `yaml:"initial_energy"` // energy of seeded agents
	BiteSize      float64 `yaml:"bite_size"`      // food consumption attempt per tick
	SpawnRadius   float64 `yaml:"spawn_radius"`   // initial cluster radius around field center
	ChildOffset   float64 `yaml:"child_offset"`   // max offset of a child from its parent
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	MaxPerSpecies int `yaml:"max_per_species"` // reproduction beyond this is dropped
}

// SpeciesConfig is one immutable species parameter profile.
// Species differ only by these values; the decision algorithm is shared.
type SpeciesConfig struct {
	Name string `yaml:"name"`

	// Sensing geometry
	SensorAngle    float64 `yaml:"sensor_angle"`    // radians off heading for left/right rays
	SensorDistance float64 `yaml:"sensor_distance"` // cells ahead

	// Movement
	TurnSpeed float64 `yaml:"turn_speed"` // max heading change per tick, radians
	MoveSpeed float64 `yaml:"move_speed"` // cells per tick

	// Trail behavior
	TrailDeposit     float64 `yaml:"trail_deposit"`     // pheromone laid per tick
	TrailSensitivity float64 `yaml:"trail_sensitivity"` // attraction to own trail

	// Environmental preference
	TemperaturePreference float64 `yaml:"temperature_preference"`
	MoisturePreference    float64 `yaml:"moisture_preference"`

	// Energy dynamics
	MetabolicRate           float64 `yaml:"metabolic_rate"`
	ReproductionThreshold   float64 `yaml:"reproduction_threshold"`
	ReproductionEnergyCost  float64 `yaml:"reproduction_energy_cost"`
	EnergyCap               float64 `yaml:"energy_cap"`
	FoodToEnergy            float64 `yaml:"food_to_energy"` // energy per unit of consumed food

	// Seeding
	SeedCount int `yaml:"seed_count"` // agents at simulation start
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per stats window
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated;
// a config that fails validation is never returned.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the simulation must refuse to
// start with. Out-of-range queries, population caps and numeric clamps are
// handled per tick; everything here is a hard startup error.
func (c *Config) Validate() error {
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		return fmt.Errorf("config: field dimensions must be positive, got %dx%d", c.Field.Width, c.Field.Height)
	}
	if c.Field.TrailDecay <= 0 || c.Field.TrailDecay >= 1 {
		return fmt.Errorf("config: trail_decay must be in (0,1), got %g", c.Field.TrailDecay)
	}
	if c.Field.TrailDiffusion < 0 {
		return fmt.Errorf("config: trail_diffusion must be non-negative, got %g", c.Field.TrailDiffusion)
	}
	if c.Field.EnvRelaxRate < 0 || c.Field.EnvRelaxRate > 1 {
		return fmt.Errorf("config: env_relax_rate must be in [0,1], got %g", c.Field.EnvRelaxRate)
	}
	if c.Field.FoodAmount < 0 {
		return fmt.Errorf("config: food_amount must be non-negative, got %g", c.Field.FoodAmount)
	}
	if c.Field.NoiseOctaves <= 0 {
		return fmt.Errorf("config: noise_octaves must be positive, got %d", c.Field.NoiseOctaves)
	}
	if c.Entity.InitialEnergy < 0 || c.Entity.BiteSize < 0 {
		return fmt.Errorf("config: initial_energy and bite_size must be non-negative")
	}
	if c.Population.MaxPerSpecies <= 0 {
		return fmt.Errorf("config: max_per_species must be positive, got %d", c.Population.MaxPerSpecies)
	}
	if len(c.Species) == 0 {
		return fmt.Errorf("config: species list is empty")
	}
	for i := range c.Species {
		if err := c.Species[i].validate(); err != nil {
			return fmt.Errorf("config: species %q (index %d): %w", c.Species[i].Name, i, err)
		}
	}
	return nil
}

func (sp *SpeciesConfig) validate() error {
	fields := map[string]float64{
		"sensor_angle":             sp.SensorAngle,
		"sensor_distance":          sp.SensorDistance,
		"turn_speed":               sp.TurnSpeed,
		"move_speed":               sp.MoveSpeed,
		"trail_deposit":            sp.TrailDeposit,
		"trail_sensitivity":        sp.TrailSensitivity,
		"temperature_preference":   sp.TemperaturePreference,
		"moisture_preference":      sp.MoisturePreference,
		"metabolic_rate":           sp.MetabolicRate,
		"reproduction_threshold":   sp.ReproductionThreshold,
		"reproduction_energy_cost": sp.ReproductionEnergyCost,
		"energy_cap":               sp.EnergyCap,
		"food_to_energy":           sp.FoodToEnergy,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite", name)
		}
	}
	switch {
	case sp.SensorDistance <= 0:
		return fmt.Errorf("sensor_distance must be positive, got %g", sp.SensorDistance)
	case sp.TurnSpeed < 0, sp.MoveSpeed < 0:
		return fmt.Errorf("turn_speed and move_speed must be non-negative")
	case sp.TrailDeposit < 0, sp.TrailSensitivity < 0:
		return fmt.Errorf("trail_deposit and trail_sensitivity must be non-negative")
	case sp.MetabolicRate < 0:
		return fmt.Errorf("metabolic_rate must be non-negative, got %g", sp.MetabolicRate)
	case sp.EnergyCap <= 0:
		return fmt.Errorf("energy_cap must be positive, got %g", sp.EnergyCap)
	case sp.ReproductionEnergyCost < 0, sp.ReproductionThreshold < 0:
		return fmt.Errorf("reproduction parameters must be non-negative")
	case sp.ReproductionEnergyCost > sp.ReproductionThreshold:
		return fmt.Errorf("reproduction_energy_cost %g exceeds reproduction_threshold %g",
			sp.ReproductionEnergyCost, sp.ReproductionThreshold)
	case sp.FoodToEnergy < 0:
		return fmt.Errorf("food_to_energy must be non-negative, got %g", sp.FoodToEnergy)
	case sp.SeedCount < 0:
		return fmt.Errorf("seed_count must be non-negative, got %d", sp.SeedCount)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
