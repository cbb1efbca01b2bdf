package service

import (
	"time"

	"github.com/shopspring/decimal"

	"ritten-bot/internal/domain"
	"ritten-bot/internal/pay"
)

type RideServiceImpl struct {
	Rides domain.RideRepo
	Rates domain.RateRepo
}

// CreateRide prices the input against the rate in force on the ride date and
// persists the raw fields together with the breakdown. On any pricing error
// nothing is written.
func (s *RideServiceImpl) CreateRide(input domain.RideInput) (domain.Ride, error) {
	ride, err := s.priceRide(input)
	if err != nil {
		return domain.Ride{}, err
	}
	id, err := s.Rides.AddRide(ride)
	if err != nil {
		return domain.Ride{}, err
	}
	ride.ID = id
	return ride, nil
}

// UpdateRide reprices the ride from scratch, against the rate for the new
// date, and overwrites the stored row.
func (s *RideServiceImpl) UpdateRide(id int, input domain.RideInput) (domain.Ride, error) {
	if _, err := s.Rides.GetRideByID(id); err != nil {
		return domain.Ride{}, err
	}
	ride, err := s.priceRide(input)
	if err != nil {
		return domain.Ride{}, err
	}
	ride.ID = id
	if err := s.Rides.UpdateRide(ride); err != nil {
		return domain.Ride{}, err
	}
	return ride, nil
}

func (s *RideServiceImpl) GetRide(id int) (domain.Ride, error) {
	return s.Rides.GetRideByID(id)
}

func (s *RideServiceImpl) DeleteRide(id int) error {
	return s.Rides.DeleteRide(id)
}

func (s *RideServiceImpl) GetRides(from, to time.Time) ([]domain.Ride, error) {
	return s.Rides.GetRides(from, to)
}

func (s *RideServiceImpl) ListRides() ([]domain.Ride, error) {
	return s.Rides.ListRides()
}

// CalculateEarnings sums the stored payment of every ride in the period.
func (s *RideServiceImpl) CalculateEarnings(from, to time.Time) (decimal.Decimal, error) {
	rides, err := s.Rides.GetRides(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, ride := range rides {
		total = total.Add(ride.TotalPayment)
	}
	return total, nil
}

// priceRide loads the rate table fresh on every call; the pay engine stays a
// pure function of what it is handed.
func (s *RideServiceImpl) priceRide(input domain.RideInput) (domain.Ride, error) {
	rates, err := s.Rates.ListRates()
	if err != nil {
		return domain.Ride{}, err
	}
	rate, err := pay.Resolve(rates, input.Date)
	if err != nil {
		return domain.Ride{}, err
	}
	breakdown, err := pay.Calculate(pay.ShiftInput{
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		DistanceKm: input.DistanceKm,
	}, rate)
	if err != nil {
		return domain.Ride{}, err
	}
	return domain.Ride{
		Date:         input.Date,
		Client:       input.Client,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		DistanceKm:   input.DistanceKm,
		Invoiced:     input.Invoiced,
		NormalHours:  breakdown.NormalHours,
		NightHours:   breakdown.NightHours,
		SurplusHours: breakdown.SurplusHours,
		TotalHours:   breakdown.TotalHours,
		TotalPayment: breakdown.TotalPayment,
	}, nil
}
