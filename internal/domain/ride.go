package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ride struct {
	ID           int
	Date         time.Time
	Client       string
	StartTime    string
	EndTime      string
	DistanceKm   decimal.Decimal
	Invoiced     bool
	NormalHours  decimal.Decimal
	NightHours   decimal.Decimal
	SurplusHours decimal.Decimal
	TotalHours   decimal.Decimal
	TotalPayment decimal.Decimal
}

type RideRepo interface {
	AddRide(ride Ride) (int, error)
	GetRideByID(id int) (Ride, error)
	GetRides(from, to time.Time) ([]Ride, error)
	ListRides() ([]Ride, error)
	UpdateRide(ride Ride) error
	DeleteRide(id int) error
}
