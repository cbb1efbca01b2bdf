package sqlite

import (
	"database/sql"
)

const createRidesTable = `
CREATE TABLE IF NOT EXISTS rides (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    client TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    distance_km TEXT NOT NULL,
    invoiced BOOLEAN NOT NULL DEFAULT 0,
    normal_hours TEXT NOT NULL,
    night_hours TEXT NOT NULL,
    surplus_hours TEXT NOT NULL,
    total_hours TEXT NOT NULL,
    total_payment TEXT NOT NULL
);
`

const createRatesTable = `
CREATE TABLE IF NOT EXISTS rates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    effective_from TEXT NOT NULL,
    day_rate TEXT NOT NULL,
    night_rate TEXT NOT NULL,
    surplus_rate TEXT NOT NULL,
    km_rate TEXT NOT NULL
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(createRidesTable); err != nil {
		return err
	}
	if _, err := db.Exec(createRatesTable); err != nil {
		return err
	}
	return nil
}
