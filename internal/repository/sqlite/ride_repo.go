package sqlite

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"ritten-bot/internal/domain"
)

const dateLayout = "2006-01-02"

type SqliteRideRepo struct {
	db *sql.DB
}

func NewSqliteRideRepo(db *sql.DB) *SqliteRideRepo {
	return &SqliteRideRepo{db: db}
}

const rideColumns = `id, date, client, start_time, end_time, distance_km, invoiced,
	normal_hours, night_hours, surplus_hours, total_hours, total_payment`

// AddRide inserts the ride and returns the id the store assigned to it.
func (r *SqliteRideRepo) AddRide(ride domain.Ride) (int, error) {
	res, err := r.db.Exec(
		`INSERT INTO rides (date, client, start_time, end_time, distance_km, invoiced,
			normal_hours, night_hours, surplus_hours, total_hours, total_payment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ride.Date.Format(dateLayout),
		ride.Client,
		ride.StartTime,
		ride.EndTime,
		ride.DistanceKm.String(),
		ride.Invoiced,
		ride.NormalHours.String(),
		ride.NightHours.String(),
		ride.SurplusHours.String(),
		ride.TotalHours.String(),
		ride.TotalPayment.String(),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (r *SqliteRideRepo) GetRideByID(id int) (domain.Ride, error) {
	row := r.db.QueryRow(`SELECT `+rideColumns+` FROM rides WHERE id = ?`, id)
	return scanRide(row)
}

func (r *SqliteRideRepo) GetRides(from, to time.Time) ([]domain.Ride, error) {
	rows, err := r.db.Query(
		`SELECT `+rideColumns+` FROM rides WHERE date BETWEEN ? AND ? ORDER BY date, id`,
		from.Format(dateLayout),
		to.Format(dateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func (r *SqliteRideRepo) ListRides() ([]domain.Ride, error) {
	rows, err := r.db.Query(`SELECT ` + rideColumns + ` FROM rides ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func (r *SqliteRideRepo) UpdateRide(ride domain.Ride) error {
	_, err := r.db.Exec(
		`UPDATE rides SET date = ?, client = ?, start_time = ?, end_time = ?, distance_km = ?,
			invoiced = ?, normal_hours = ?, night_hours = ?, surplus_hours = ?,
			total_hours = ?, total_payment = ?
		WHERE id = ?`,
		ride.Date.Format(dateLayout),
		ride.Client,
		ride.StartTime,
		ride.EndTime,
		ride.DistanceKm.String(),
		ride.Invoiced,
		ride.NormalHours.String(),
		ride.NightHours.String(),
		ride.SurplusHours.String(),
		ride.TotalHours.String(),
		ride.TotalPayment.String(),
		ride.ID,
	)
	return err
}

func (r *SqliteRideRepo) DeleteRide(id int) error {
	_, err := r.db.Exec(`DELETE FROM rides WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (domain.Ride, error) {
	var ride domain.Ride
	var dateStr, distStr, normalStr, nightStr, surplusStr, totalStr, paymentStr string
	if err := row.Scan(
		&ride.ID, &dateStr, &ride.Client, &ride.StartTime, &ride.EndTime,
		&distStr, &ride.Invoiced, &normalStr, &nightStr, &surplusStr, &totalStr, &paymentStr,
	); err != nil {
		return domain.Ride{}, err
	}
	var err error
	if ride.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return domain.Ride{}, err
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&ride.DistanceKm, distStr},
		{&ride.NormalHours, normalStr},
		{&ride.NightHours, nightStr},
		{&ride.SurplusHours, surplusStr},
		{&ride.TotalHours, totalStr},
		{&ride.TotalPayment, paymentStr},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return domain.Ride{}, err
		}
	}
	return ride, nil
}

func collectRides(rows *sql.Rows) ([]domain.Ride, error) {
	var rides []domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}
