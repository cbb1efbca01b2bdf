package calendar

import (
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"
)

// CalendarController renders an inline month calendar and reports the picked
// date through OnDate. Callback routing is left to the caller; callback keys
// are cal_day, cal_prev and cal_next.
type CalendarController struct {
	Bot    *telebot.Bot
	OnDate func(time.Time, telebot.Context) error
}

func (cc *CalendarController) ShowCalendar(c telebot.Context) error {
	now := time.Now()
	return SendCalendar(c, now.Year(), int(now.Month()))
}

// SendCalendar builds and sends the day grid for one month, with prev/next
// month switches on the bottom row.
func SendCalendar(c telebot.Context, year, month int) error {
	markup := &telebot.ReplyMarkup{}
	days := daysInMonth(year, month)
	var rows []telebot.Row
	week := telebot.Row{}
	for d := 1; d <= days; d++ {
		btn := markup.Data(strconv.Itoa(d), "cal_day", strconv.Itoa(d)+"-"+strconv.Itoa(month)+"-"+strconv.Itoa(year))
		week = append(week, btn)
		if len(week) == 7 {
			rows = append(rows, week)
			week = telebot.Row{}
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}
	prev := markup.Data("<", "cal_prev", strconv.Itoa(month-1)+"-"+strconv.Itoa(year))
	next := markup.Data(">", "cal_next", strconv.Itoa(month+1)+"-"+strconv.Itoa(year))
	rows = append(rows, telebot.Row{prev, next})
	markup.Inline(rows...)

	title := "Pick a date: " + time.Month(month).String() + " " + strconv.Itoa(year)
	if c.Callback() != nil {
		return c.Edit(title, markup)
	}
	return c.Send(title, markup)
}

// HandleCallback processes a cal_* callback that the caller's router
// delegated here.
func (cc *CalendarController) HandleCallback(c telebot.Context) error {
	raw := strings.TrimPrefix(c.Data(), "\f")
	split := strings.SplitN(raw, "|", 2)
	if len(split) != 2 {
		return nil
	}
	payload := split[1]
	switch split[0] {
	case "cal_day":
		parts := SplitDateData(payload)
		if len(parts) != 3 {
			return c.Send("Could not read that date.", &telebot.ReplyMarkup{})
		}
		day, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		year, _ := strconv.Atoi(parts[2])
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if cc.OnDate != nil {
			return cc.OnDate(date, c)
		}
		return nil
	case "cal_prev":
		parts := SplitDateData(payload)
		if len(parts) != 2 {
			return nil
		}
		month, _ := strconv.Atoi(parts[0])
		year, _ := strconv.Atoi(parts[1])
		if month < 1 {
			month = 12
			year--
		}
		return SendCalendar(c, year, month)
	case "cal_next":
		parts := SplitDateData(payload)
		if len(parts) != 2 {
			return nil
		}
		month, _ := strconv.Atoi(parts[0])
		year, _ := strconv.Atoi(parts[1])
		if month > 12 {
			month = 1
			year++
		}
		return SendCalendar(c, year, month)
	}
	return nil
}

// SplitDateData splits a dash-separated callback payload.
func SplitDateData(data string) []string {
	return strings.Split(data, "-")
}

func daysInMonth(year, month int) int {
	t := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}
