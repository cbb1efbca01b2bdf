package pay

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ritten-bot/internal/domain"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time, expected HH:MM")
	ErrNegativeDistance  = errors.New("distance cannot be negative")
)

const clockLayout = "15:04"

var (
	eightHours = decimal.NewFromInt(8)
	sixtyMin   = decimal.NewFromInt(60)
)

// ShiftInput is one ride as entered: start and end wall-clock times plus the
// distance driven. An end time before the start time means the shift ran
// past midnight.
type ShiftInput struct {
	StartTime  string
	EndTime    string
	DistanceKm decimal.Decimal
}

// Breakdown is the priced result of a shift, every field rounded to 2dp.
// NormalHours + NightHours + SurplusHours adds up to TotalHours.
type Breakdown struct {
	NormalHours  decimal.Decimal
	NightHours   decimal.Decimal
	SurplusHours decimal.Decimal
	TotalHours   decimal.Decimal
	TotalPayment decimal.Decimal
}

// Calculate prices a single shift against one rate record.
//
// Hours beyond the first 8 are surplus, taken from the tail of the duration
// rather than from the clock. Night hours are the part of the remaining
// (capped at 8) duration that falls in the 22:00-06:00 window; a shift lying
// entirely inside that window counts as night in full. Hours past 06:00 on a
// long overnight shift are deliberately not re-examined against the window,
// they fall back into normal hours.
func Calculate(shift ShiftInput, rate domain.Rate) (Breakdown, error) {
	start, err := parseClock(shift.StartTime)
	if err != nil {
		return Breakdown{}, err
	}
	end, err := parseClock(shift.EndTime)
	if err != nil {
		return Breakdown{}, err
	}
	if shift.DistanceKm.IsNegative() {
		return Breakdown{}, ErrNegativeDistance
	}

	rolled := end.Before(start)
	if rolled {
		end = end.Add(24 * time.Hour)
	}
	total := hoursBetween(start, end)

	surplus := total.Sub(eightHours)
	if surplus.IsNegative() {
		surplus = decimal.Zero
	}
	remaining := total.Sub(surplus)

	nightStart, _ := time.Parse(clockLayout, "22:00")
	nightEnd, _ := time.Parse(clockLayout, "06:00")
	nightEnd = nightEnd.Add(24 * time.Hour)

	// the 06:00 boundary on the day the shift actually ends; a daytime
	// shift must be measured against its own morning, not the next one
	morningEnd := nightEnd
	if !rolled {
		morningEnd = morningEnd.Add(-24 * time.Hour)
	}

	var night decimal.Decimal
	switch {
	case start.Before(nightStart) && end.After(nightStart):
		// started in daytime, ran into the window
		capped := end
		if nightEnd.Before(capped) {
			capped = nightEnd
		}
		night = hoursBetween(nightStart, capped)
	case !start.Before(nightStart) || !end.After(morningEnd):
		// whole shift inside the window
		night = remaining
	}
	if night.IsNegative() {
		night = decimal.Zero
	}
	if night.GreaterThan(remaining) {
		night = remaining
	}
	normal := remaining.Sub(night)

	dayRate, err := parseRate(rate.DayRate, "day rate")
	if err != nil {
		return Breakdown{}, err
	}
	nightRate, err := parseRate(rate.NightRate, "night rate")
	if err != nil {
		return Breakdown{}, err
	}
	surplusRate, err := parseRate(rate.SurplusRate, "surplus rate")
	if err != nil {
		return Breakdown{}, err
	}
	kmRate, err := parseRate(rate.KmRate, "km rate")
	if err != nil {
		return Breakdown{}, err
	}

	payment := normal.Mul(dayRate).
		Add(night.Mul(nightRate)).
		Add(surplus.Mul(surplusRate)).
		Add(shift.DistanceKm.Mul(kmRate))

	return Breakdown{
		NormalHours:  normal.Round(2),
		NightHours:   night.Round(2),
		SurplusHours: surplus.Round(2),
		TotalHours:   total.Round(2),
		TotalPayment: payment.Round(2),
	}, nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return t, nil
}

func hoursBetween(a, b time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(b.Sub(a) / time.Minute)).Div(sixtyMin)
}

// ParseAmount reads a money value as the row store delivers it, accepting
// both "," and "." as the decimal separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

func parseRate(s, field string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}
