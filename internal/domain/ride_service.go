package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RideInput carries the raw fields of a ride form. Times are wall-clock
// HH:MM strings; an end time before the start time means the ride ran past
// midnight.
type RideInput struct {
	Date       time.Time
	Client     string
	StartTime  string
	EndTime    string
	DistanceKm decimal.Decimal
	Invoiced   bool
}

type RideService interface {
	CreateRide(input RideInput) (Ride, error)
	UpdateRide(id int, input RideInput) (Ride, error)
	DeleteRide(id int) error
	GetRide(id int) (Ride, error)
	GetRides(from, to time.Time) ([]Ride, error)
	ListRides() ([]Ride, error)
	CalculateEarnings(from, to time.Time) (decimal.Decimal, error)
}
