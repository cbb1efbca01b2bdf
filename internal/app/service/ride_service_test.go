package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ritten-bot/internal/domain"
	"ritten-bot/internal/pay"
)

type fakeRideRepo struct {
	rides  []domain.Ride
	nextID int
}

func (f *fakeRideRepo) AddRide(ride domain.Ride) (int, error) {
	f.nextID++
	ride.ID = f.nextID
	f.rides = append(f.rides, ride)
	return ride.ID, nil
}

func (f *fakeRideRepo) GetRideByID(id int) (domain.Ride, error) {
	for _, r := range f.rides {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Ride{}, errors.New("ride not found")
}

func (f *fakeRideRepo) GetRides(from, to time.Time) ([]domain.Ride, error) {
	var out []domain.Ride
	for _, r := range f.rides {
		if !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRideRepo) ListRides() ([]domain.Ride, error) { return f.rides, nil }

func (f *fakeRideRepo) UpdateRide(ride domain.Ride) error {
	for i, r := range f.rides {
		if r.ID == ride.ID {
			f.rides[i] = ride
			return nil
		}
	}
	return errors.New("ride not found")
}

func (f *fakeRideRepo) DeleteRide(id int) error {
	for i, r := range f.rides {
		if r.ID == id {
			f.rides = append(f.rides[:i], f.rides[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeRateRepo struct {
	rates []domain.Rate
}

func (f *fakeRateRepo) ListRates() ([]domain.Rate, error) { return f.rates, nil }

func (f *fakeRateRepo) AddRate(rate domain.Rate) error {
	rate.ID = len(f.rates) + 1
	f.rates = append(f.rates, rate)
	return nil
}

func seedRates() *fakeRateRepo {
	return &fakeRateRepo{rates: []domain.Rate{{
		ID:            1,
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DayRate:       "14.45",
		NightRate:     "15.57",
		SurplusRate:   "19.52",
		KmRate:        "0.29",
	}}}
}

func TestCreateRidePersistsBreakdown(t *testing.T) {
	rides := &fakeRideRepo{}
	svc := &RideServiceImpl{Rides: rides, Rates: seedRates()}

	ride, err := svc.CreateRide(domain.RideInput{
		Date:       time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Client:     "Bakkerij Jansen",
		StartTime:  "09:00",
		EndTime:    "17:00",
		DistanceKm: decimal.RequireFromString("50"),
	})
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}
	if !ride.TotalPayment.Equal(decimal.RequireFromString("130.10")) {
		t.Errorf("TotalPayment = %s, want 130.10", ride.TotalPayment)
	}
	if !ride.NormalHours.Equal(decimal.RequireFromString("8")) {
		t.Errorf("NormalHours = %s, want 8", ride.NormalHours)
	}
	if len(rides.rides) != 1 {
		t.Fatalf("persisted %d rides, want 1", len(rides.rides))
	}
	if !rides.rides[0].TotalPayment.Equal(ride.TotalPayment) {
		t.Errorf("stored breakdown does not match returned one")
	}
	// the returned ride carries the stored id, so it can drive a
	// follow-up edit or delete
	if ride.ID == 0 || ride.ID != rides.rides[0].ID {
		t.Errorf("returned ride id = %d, stored id = %d", ride.ID, rides.rides[0].ID)
	}
}

func TestCreateRideInvalidInputWritesNothing(t *testing.T) {
	rides := &fakeRideRepo{}
	svc := &RideServiceImpl{Rides: rides, Rates: seedRates()}

	_, err := svc.CreateRide(domain.RideInput{
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "nine",
		EndTime:   "17:00",
	})
	if !errors.Is(err, pay.ErrInvalidTimeFormat) {
		t.Fatalf("CreateRide error = %v, want %v", err, pay.ErrInvalidTimeFormat)
	}
	if len(rides.rides) != 0 {
		t.Errorf("invalid ride got persisted")
	}
}

func TestCreateRideNoRates(t *testing.T) {
	svc := &RideServiceImpl{Rides: &fakeRideRepo{}, Rates: &fakeRateRepo{}}

	_, err := svc.CreateRide(domain.RideInput{
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	if !errors.Is(err, pay.ErrNoRatesConfigured) {
		t.Errorf("CreateRide error = %v, want %v", err, pay.ErrNoRatesConfigured)
	}
}

func TestUpdateRideReprices(t *testing.T) {
	rides := &fakeRideRepo{}
	rates := seedRates()
	svc := &RideServiceImpl{Rides: rides, Rates: rates}

	created, err := svc.CreateRide(domain.RideInput{
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Client:    "Bakkerij Jansen",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	// a new rate takes effect in June; moving the ride there must repick it
	rates.rates = append(rates.rates, domain.Rate{
		ID:            2,
		EffectiveFrom: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		DayRate:       "20.00",
		NightRate:     "21.00",
		SurplusRate:   "25.00",
		KmRate:        "0.30",
	})
	updated, err := svc.UpdateRide(created.ID, domain.RideInput{
		Date:      time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Client:    "Bakkerij Jansen",
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("UpdateRide: %v", err)
	}
	if !updated.TotalPayment.Equal(decimal.RequireFromString("160")) {
		t.Errorf("TotalPayment after update = %s, want 160", updated.TotalPayment)
	}
	stored, _ := rides.GetRideByID(created.ID)
	if !stored.TotalPayment.Equal(updated.TotalPayment) {
		t.Errorf("stored ride not repriced")
	}
}

func TestUpdateRideUnknownID(t *testing.T) {
	svc := &RideServiceImpl{Rides: &fakeRideRepo{}, Rates: seedRates()}
	if _, err := svc.UpdateRide(42, domain.RideInput{
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "17:00",
	}); err == nil {
		t.Error("UpdateRide on unknown id should fail")
	}
}

func TestCalculateEarnings(t *testing.T) {
	rides := &fakeRideRepo{}
	svc := &RideServiceImpl{Rides: rides, Rates: seedRates()}

	for _, day := range []int{3, 12, 25} {
		if _, err := svc.CreateRide(domain.RideInput{
			Date:      time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00",
			EndTime:   "17:00",
		}); err != nil {
			t.Fatalf("CreateRide: %v", err)
		}
	}
	// outside the month
	if _, err := svc.CreateRide(domain.RideInput{
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "17:00",
	}); err != nil {
		t.Fatalf("CreateRide: %v", err)
	}

	total, err := svc.CalculateEarnings(
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("CalculateEarnings: %v", err)
	}
	// 3 * 8h * 14.45
	if !total.Equal(decimal.RequireFromString("346.80")) {
		t.Errorf("CalculateEarnings = %s, want 346.80", total)
	}
}
