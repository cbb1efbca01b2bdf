package sqlite

import (
	"database/sql"
	"time"

	"ritten-bot/internal/domain"
)

type SqliteRateRepo struct {
	db *sql.DB
}

func NewSqliteRateRepo(db *sql.DB) *SqliteRateRepo {
	return &SqliteRateRepo{db: db}
}

// ListRates returns rates in insertion order; the resolver's tie-break on
// equal effective dates depends on it.
func (r *SqliteRateRepo) ListRates() ([]domain.Rate, error) {
	rows, err := r.db.Query(
		`SELECT id, effective_from, day_rate, night_rate, surplus_rate, km_rate FROM rates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []domain.Rate
	for rows.Next() {
		var rate domain.Rate
		var fromStr string
		if err := rows.Scan(&rate.ID, &fromStr, &rate.DayRate, &rate.NightRate, &rate.SurplusRate, &rate.KmRate); err != nil {
			return nil, err
		}
		rate.EffectiveFrom, err = time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}

func (r *SqliteRateRepo) AddRate(rate domain.Rate) error {
	_, err := r.db.Exec(
		`INSERT INTO rates (effective_from, day_rate, night_rate, surplus_rate, km_rate) VALUES (?, ?, ?, ?, ?)`,
		rate.EffectiveFrom.Format(dateLayout),
		rate.DayRate,
		rate.NightRate,
		rate.SurplusRate,
		rate.KmRate,
	)
	return err
}
