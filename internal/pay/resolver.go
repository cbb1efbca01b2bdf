package pay

import (
	"errors"
	"time"

	"ritten-bot/internal/domain"
)

var ErrNoRatesConfigured = errors.New("no rates configured")

// Resolve picks the rate in force on the given date: the latest rate whose
// effective date is on or before it. Rates arrive in insertion order, so on
// equal effective dates the last appended one wins. When every known rate
// lies in the future the earliest one is returned instead of failing.
func Resolve(rates []domain.Rate, on time.Time) (domain.Rate, error) {
	if len(rates) == 0 {
		return domain.Rate{}, ErrNoRatesConfigured
	}
	var best domain.Rate
	found := false
	for _, r := range rates {
		if r.EffectiveFrom.After(on) {
			continue
		}
		if !found || !r.EffectiveFrom.Before(best.EffectiveFrom) {
			best = r
			found = true
		}
	}
	if !found {
		return rates[0], nil
	}
	return best, nil
}
