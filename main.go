// Command myxo runs a headless slime mold foraging simulation and writes
// windowed statistics to CSV, SQLite, or the log.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/myxo/config"
	"github.com/pthm-cable/myxo/sim"
	"github.com/pthm-cable/myxo/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	seed := flag.Int64("seed", 42, "Simulation RNG seed")
	maxTicks := flag.Int("max-ticks", 100000, "Number of ticks to run")
	statsWindow := flag.Int("stats-window", 0, "Ticks per stats window (0 = config default)")
	outputDir := flag.String("output", "", "Output directory for CSV results (empty = disabled)")
	dbPath := flag.String("db", "", "SQLite stats database path (empty = disabled)")
	logStats := flag.Bool("log-stats", false, "Log window stats to stderr")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	window := *statsWindow
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	if window <= 0 {
		window = 1
	}

	s, err := sim.New(cfg, sim.Options{Seed: *seed})
	if err != nil {
		slog.Error("creating simulation", "error", err)
		os.Exit(1)
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("creating output", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("writing config", "error", err)
		os.Exit(1)
	}

	var sink *telemetry.SQLiteSink
	if *dbPath != "" {
		sink, err = telemetry.NewSQLiteSink(*dbPath)
		if err != nil {
			slog.Error("opening stats db", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
	}

	collector := telemetry.NewCollector(len(cfg.Species))
	s.SetCollector(collector)

	slog.Info("starting run",
		"seed", *seed,
		"max_ticks", *maxTicks,
		"stats_window", window,
		"field", []int{cfg.Field.Width, cfg.Field.Height},
		"species", len(cfg.Species),
	)

	for tick := 0; tick < *maxTicks; tick++ {
		s.Tick()

		if (tick+1)%window != 0 {
			continue
		}

		ws := s.WindowStats(collector)
		collector.Reset()

		if err := om.WriteTelemetry(ws); err != nil {
			slog.Error("writing telemetry", "error", err)
			os.Exit(1)
		}
		if err := sink.WriteWindow(ws); err != nil {
			slog.Error("writing stats db", "error", err)
			os.Exit(1)
		}
		if *logStats {
			slog.Info("window",
				"tick", ws.Tick,
				"population", ws.Population,
				"energy_mean", ws.EnergyMean,
				"food_mass", ws.FoodMass,
				"food_consumed", ws.FoodConsumed,
			)
		}

		if ws.Population == 0 {
			slog.Info("population extinct", "tick", ws.Tick)
			break
		}
	}

	slog.Info("run complete", "ticks", s.TickCount(), "population", s.Population())
}
