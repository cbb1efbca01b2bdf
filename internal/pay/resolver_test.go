package pay

import (
	"errors"
	"testing"
	"time"

	"ritten-bot/internal/domain"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	janRate := domain.Rate{ID: 1, EffectiveFrom: date(2024, 1, 1), DayRate: "14.45"}
	junRate := domain.Rate{ID: 2, EffectiveFrom: date(2024, 6, 1), DayRate: "15.00"}

	tests := []struct {
		name   string
		rates  []domain.Rate
		on     time.Time
		wantID int
	}{
		{
			name:   "between two rates picks the earlier",
			rates:  []domain.Rate{janRate, junRate},
			on:     date(2024, 3, 1),
			wantID: 1,
		},
		{
			name:   "after the latest rate picks it",
			rates:  []domain.Rate{janRate, junRate},
			on:     date(2024, 7, 1),
			wantID: 2,
		},
		{
			name:   "on the effective date itself",
			rates:  []domain.Rate{janRate, junRate},
			on:     date(2024, 6, 1),
			wantID: 2,
		},
		{
			name:   "before all rates falls back to the first",
			rates:  []domain.Rate{janRate, junRate},
			on:     date(2023, 1, 1),
			wantID: 1,
		},
		{
			name: "equal effective dates, last appended wins",
			rates: []domain.Rate{
				janRate,
				{ID: 3, EffectiveFrom: date(2024, 1, 1), DayRate: "14.60"},
			},
			on:     date(2024, 2, 1),
			wantID: 3,
		},
		{
			name:   "single rate",
			rates:  []domain.Rate{janRate},
			on:     date(2024, 12, 31),
			wantID: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.rates, tt.on)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve() = rate %d, want rate %d", got.ID, tt.wantID)
			}
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(nil, date(2024, 1, 1))
	if !errors.Is(err, ErrNoRatesConfigured) {
		t.Errorf("Resolve() error = %v, want %v", err, ErrNoRatesConfigured)
	}
}

func TestResolveMonotonic(t *testing.T) {
	rates := []domain.Rate{
		{ID: 1, EffectiveFrom: date(2024, 1, 1)},
		{ID: 2, EffectiveFrom: date(2024, 4, 1)},
		{ID: 3, EffectiveFrom: date(2024, 9, 1)},
	}
	prev := time.Time{}
	for m := time.January; m <= time.December; m++ {
		got, err := Resolve(rates, date(2024, m, 15))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got.EffectiveFrom.Before(prev) {
			t.Errorf("resolution went backwards at month %s: %s < %s",
				m, got.EffectiveFrom.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
		prev = got.EffectiveFrom
	}
}
