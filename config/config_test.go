package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Field.Width <= 0 || cfg.Field.Height <= 0 {
		t.Errorf("default field size %dx%d, want positive", cfg.Field.Width, cfg.Field.Height)
	}
	if cfg.Field.TrailDecay <= 0 || cfg.Field.TrailDecay >= 1 {
		t.Errorf("default trail_decay = %v, want in (0,1)", cfg.Field.TrailDecay)
	}
	if len(cfg.Species) != 3 {
		t.Fatalf("default species count = %d, want 3", len(cfg.Species))
	}
	names := map[string]bool{}
	for _, sp := range cfg.Species {
		names[sp.Name] = true
		if sp.SensorDistance <= 0 {
			t.Errorf("species %q sensor_distance = %v, want positive", sp.Name, sp.SensorDistance)
		}
	}
	for _, want := range []string{"physarum", "dictyostelium", "fuligo"} {
		if !names[want] {
			t.Errorf("default species missing %q", want)
		}
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	content := `
field:
  width: 64
  height: 32
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}

	if cfg.Field.Width != 64 || cfg.Field.Height != 32 {
		t.Errorf("field size = %dx%d, want 64x32", cfg.Field.Width, cfg.Field.Height)
	}
	// Fields absent from the override keep their default values.
	if cfg.Field.TrailDecay != 0.985 {
		t.Errorf("trail_decay = %v, want default 0.985", cfg.Field.TrailDecay)
	}
	if len(cfg.Species) != 3 {
		t.Errorf("species count = %d, want default 3", len(cfg.Species))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("loading defaults: %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Field.Width = 0 }},
		{"negative height", func(c *Config) { c.Field.Height = -1 }},
		{"decay zero", func(c *Config) { c.Field.TrailDecay = 0 }},
		{"decay one", func(c *Config) { c.Field.TrailDecay = 1 }},
		{"negative diffusion", func(c *Config) { c.Field.TrailDiffusion = -0.1 }},
		{"relax above one", func(c *Config) { c.Field.EnvRelaxRate = 1.5 }},
		{"zero octaves", func(c *Config) { c.Field.NoiseOctaves = 0 }},
		{"zero cap", func(c *Config) { c.Population.MaxPerSpecies = 0 }},
		{"no species", func(c *Config) { c.Species = nil }},
		{"zero sensor distance", func(c *Config) { c.Species[0].SensorDistance = 0 }},
		{"negative move speed", func(c *Config) { c.Species[1].MoveSpeed = -1 }},
		{"zero energy cap", func(c *Config) { c.Species[2].EnergyCap = 0 }},
		{"nan metabolic rate", func(c *Config) { c.Species[0].MetabolicRate = math.NaN() }},
		{"inf food to energy", func(c *Config) { c.Species[0].FoodToEnergy = math.Inf(1) }},
		{"cost above threshold", func(c *Config) {
			c.Species[0].ReproductionThreshold = 10
			c.Species[0].ReproductionEnergyCost = 20
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if loaded.Field.Width != cfg.Field.Width || len(loaded.Species) != len(cfg.Species) {
		t.Error("written config should reload to the same values")
	}
	if loaded.Species[0].TemperaturePreference != cfg.Species[0].TemperaturePreference {
		t.Error("species parameters should survive the round trip")
	}
}
