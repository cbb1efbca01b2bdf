package flows

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ritten-bot/internal/app/service"
	"ritten-bot/internal/delivery/telegram/keyboards"
	"ritten-bot/internal/delivery/telegram/middleware"
	"ritten-bot/internal/delivery/telegram/router"

	"gopkg.in/telebot.v3"
)

// RegisterEarnings wires the month-picker flow that reports the earnings of
// one calendar month.
func RegisterEarnings(r *router.CallbackRouter, rides *service.RideServiceImpl) {
	r.Register("earnings_other_month", func(c telebot.Context, payload string) error {
		title, markup := keyboards.BuildMonthKeyboard(time.Now().Year())
		return middleware.EditOrSend(c, title, markup)
	})

	r.Register("month_prev", func(c telebot.Context, payload string) error {
		y, _ := strconv.Atoi(payload)
		title, markup := keyboards.BuildMonthKeyboard(y - 1)
		return middleware.EditOrSend(c, title, markup)
	})

	r.Register("month_next", func(c telebot.Context, payload string) error {
		y, _ := strconv.Atoi(payload)
		title, markup := keyboards.BuildMonthKeyboard(y + 1)
		return middleware.EditOrSend(c, title, markup)
	})

	r.Register("pick_month", func(c telebot.Context, payload string) error {
		parts := strings.Split(payload, "-")
		if len(parts) != 2 {
			return nil
		}
		y, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		from := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC)

		monthRides, err := rides.GetRides(from, to)
		if err != nil {
			return c.Send("Could not load the rides: " + err.Error())
		}
		total, err := rides.CalculateEarnings(from, to)
		if err != nil {
			return c.Send("Could not compute the earnings: " + err.Error())
		}
		msg := fmt.Sprintf("Earnings %02d.%04d: %s (%d rides)", m, y, total.StringFixed(2), len(monthRides))
		return middleware.EditOrSend(c, msg, nil)
	})
}
