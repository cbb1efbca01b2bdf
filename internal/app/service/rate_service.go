package service

import (
	"errors"
	"fmt"
	"time"

	"ritten-bot/internal/domain"
	"ritten-bot/internal/pay"
)

var ErrDuplicateRate = errors.New("a rate with this effective date already exists")

type RateServiceImpl struct {
	Repo domain.RateRepo
}

func NewRateService(repo domain.RateRepo) *RateServiceImpl {
	return &RateServiceImpl{Repo: repo}
}

func (s *RateServiceImpl) ListRates() ([]domain.Rate, error) {
	return s.Repo.ListRates()
}

func (s *RateServiceImpl) CurrentRate(on time.Time) (domain.Rate, error) {
	rates, err := s.Repo.ListRates()
	if err != nil {
		return domain.Rate{}, err
	}
	return pay.Resolve(rates, on)
}

// AddRate rejects a second rate on the same effective date and refuses values
// the calculator would later choke on. The store itself does not enforce
// either.
func (s *RateServiceImpl) AddRate(rate domain.Rate) error {
	for _, f := range []struct{ name, value string }{
		{"day rate", rate.DayRate},
		{"night rate", rate.NightRate},
		{"surplus rate", rate.SurplusRate},
		{"km rate", rate.KmRate},
	} {
		if _, err := pay.ParseAmount(f.value); err != nil {
			return fmt.Errorf("invalid %s %q", f.name, f.value)
		}
	}

	existing, err := s.Repo.ListRates()
	if err != nil {
		return err
	}
	day := rate.EffectiveFrom.Format("2006-01-02")
	for _, r := range existing {
		if r.EffectiveFrom.Format("2006-01-02") == day {
			return ErrDuplicateRate
		}
	}
	return s.Repo.AddRate(rate)
}
