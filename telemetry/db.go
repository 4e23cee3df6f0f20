package telemetry

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const statsSchema = `
CREATE TABLE IF NOT EXISTS window_stats (
	tick           INTEGER NOT NULL,
	population     INTEGER NOT NULL,
	pop_species0   INTEGER NOT NULL,
	pop_species1   INTEGER NOT NULL,
	pop_species2   INTEGER NOT NULL,
	births_species0 INTEGER NOT NULL,
	births_species1 INTEGER NOT NULL,
	births_species2 INTEGER NOT NULL,
	deaths_species0 INTEGER NOT NULL,
	deaths_species1 INTEGER NOT NULL,
	deaths_species2 INTEGER NOT NULL,
	energy_mean    REAL NOT NULL,
	energy_std     REAL NOT NULL,
	energy_p10     REAL NOT NULL,
	energy_p50     REAL NOT NULL,
	energy_p90     REAL NOT NULL,
	food_mass      REAL NOT NULL,
	trail_mass     REAL NOT NULL,
	food_consumed  REAL NOT NULL,
	PRIMARY KEY (tick)
);
`

// SQLiteSink persists window stats to a SQLite database, for runs where a
// queryable record is more useful than CSV.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// stats table exists.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening stats db: %w", err)
	}
	// modernc sqlite is single-writer; avoid SQLITE_BUSY from pooling.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(statsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating stats schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// WriteWindow inserts one window stats row. A repeated tick (for example
// after a reset) replaces the earlier row.
func (s *SQLiteSink) WriteWindow(ws WindowStats) error {
	if s == nil {
		return nil
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO window_stats (
			tick, population,
			pop_species0, pop_species1, pop_species2,
			births_species0, births_species1, births_species2,
			deaths_species0, deaths_species1, deaths_species2,
			energy_mean, energy_std, energy_p10, energy_p50, energy_p90,
			food_mass, trail_mass, food_consumed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ws.Tick, ws.Population,
		ws.PopSpecies0, ws.PopSpecies1, ws.PopSpecies2,
		ws.Births0, ws.Births1, ws.Births2,
		ws.Deaths0, ws.Deaths1, ws.Deaths2,
		ws.EnergyMean, ws.EnergyStd, ws.EnergyP10, ws.EnergyP50, ws.EnergyP90,
		ws.FoodMass, ws.TrailMass, ws.FoodConsumed,
	)
	if err != nil {
		return fmt.Errorf("writing window stats: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
