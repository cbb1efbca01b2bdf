package flows

import (
	"ritten-bot/internal/app/service"
	"ritten-bot/internal/delivery/telegram/middleware"
	"ritten-bot/internal/delivery/telegram/router"

	"gopkg.in/telebot.v3"
)

// RegisterRates wires the rate-table callbacks. Adding a rate is a
// conversation, so its start is delegated back to the handler.
func RegisterRates(r *router.CallbackRouter, rates *service.RateServiceImpl, startAdd func(c telebot.Context) error) {
	r.Register("rates_view", func(c telebot.Context, payload string) error {
		return middleware.EditOrSend(c, FormatRates(rates), nil)
	})

	r.Register("rates_add", func(c telebot.Context, payload string) error {
		return startAdd(c)
	})
}

// FormatRates renders the rate table, one line per rate in effective order
// of appearance.
func FormatRates(rates *service.RateServiceImpl) string {
	list, err := rates.ListRates()
	if err != nil {
		return "Could not load the rates: " + err.Error()
	}
	if len(list) == 0 {
		return "No rates configured yet. Add one before registering rides."
	}
	msg := "Rates:\n"
	for _, r := range list {
		msg += "from " + r.EffectiveFrom.Format("02.01.2006") +
			": day " + r.DayRate +
			", night " + r.NightRate +
			", surplus " + r.SurplusRate +
			", km " + r.KmRate + "\n"
	}
	return msg
}
