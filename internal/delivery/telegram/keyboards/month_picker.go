package keyboards

import (
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"
)

// BuildMonthKeyboard renders a 4x3 month grid for one year with the
// neighbouring years on the bottom row.
func BuildMonthKeyboard(year int) (string, *telebot.ReplyMarkup) {
	markup := &telebot.ReplyMarkup{}

	monthNames := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	rows := []telebot.Row{}
	for i := 0; i < 12; i += 3 {
		b1 := markup.Data(monthNames[i], "pick_month", fmt.Sprintf("%04d-%02d", year, i+1))
		b2 := markup.Data(monthNames[i+1], "pick_month", fmt.Sprintf("%04d-%02d", year, i+2))
		b3 := markup.Data(monthNames[i+2], "pick_month", fmt.Sprintf("%04d-%02d", year, i+3))
		rows = append(rows, markup.Row(b1, b2, b3))
	}

	prev := markup.Data("← "+strconv.Itoa(year-1), "month_prev", strconv.Itoa(year))
	next := markup.Data(strconv.Itoa(year+1)+" →", "month_next", strconv.Itoa(year))
	rows = append(rows, markup.Row(prev, next))

	markup.Inline(rows...)
	title := fmt.Sprintf("Pick a month: %d", year)
	return title, markup
}
