package domain

import "time"

// Rate values stay as raw text the way the row store delivers them; the pay
// engine owns decimal parsing and separator normalization. EffectiveFrom is
// always a real date, never a normalized number.
type Rate struct {
	ID            int
	EffectiveFrom time.Time
	DayRate       string
	NightRate     string
	SurplusRate   string
	KmRate        string
}

type RateRepo interface {
	ListRates() ([]Rate, error)
	AddRate(rate Rate) error
}
