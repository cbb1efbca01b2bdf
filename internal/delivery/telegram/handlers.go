package telegram

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/telebot.v3"

	"ritten-bot/internal/app/service"
	"ritten-bot/internal/delivery/telegram/flows"
	"ritten-bot/internal/delivery/telegram/middleware"
	"ritten-bot/internal/delivery/telegram/router"
	"ritten-bot/internal/domain"
	"ritten-bot/internal/pay"
	"ritten-bot/pkg/calendar"
)

type rideDraftStep int

const (
	stepClient rideDraftStep = iota
	stepStartTime
	stepEndTime
	stepDistance
)

// rideDraft is a half-filled ride form, advanced one text message at a time.
type rideDraft struct {
	editID int // 0 means a new ride
	step   rideDraftStep
	input  domain.RideInput
}

type rateDraftStep int

const (
	stepDayRate rateDraftStep = iota
	stepNightRate
	stepSurplusRate
	stepKmRate
)

type rateDraft struct {
	step rateDraftStep
	rate domain.Rate
}

type calAction int

const (
	calNewRide calAction = iota
	calEditRide
	calNewRate
)

// calPending records what a chat's next calendar pick is for, so concurrent
// chats cannot steal each other's date.
type calPending struct {
	action calAction
	editID int
}

type Handler struct {
	Bot      *telebot.Bot
	Rides    *service.RideServiceImpl
	RateSvc  *service.RateServiceImpl
	Async    *service.AsyncService
	Calendar *calendar.CalendarController
	Router   *router.CallbackRouter

	// telebot runs handlers concurrently, so all per-chat state goes
	// through mu
	mu         sync.Mutex
	rideDrafts map[int64]*rideDraft
	rateDrafts map[int64]*rateDraft
	pendingCal map[int64]calPending
}

func (h *Handler) Register() {
	h.initState()

	h.Calendar.OnDate = h.onCalendarDate
	h.Router.CalDelegate = h.Calendar.HandleCallback
	flows.RegisterEarnings(h.Router, h.Rides)
	flows.RegisterRates(h.Router, h.RateSvc, h.startRateDraft)

	h.Bot.Handle("/start", h.handleStart)
	h.Bot.Handle("/rides", h.handleRideList)
	h.Bot.Handle("/rates", h.handleRates)

	h.Bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		_ = c.Respond()
		if handled, err := h.Router.Dispatch(c); handled {
			return err
		}
		return h.handleCallback(c)
	})

	h.Bot.Handle(telebot.OnText, h.handleText)
}

var (
	btnAddRide  = telebot.Btn{Text: "➕ Add ride"}
	btnEarnings = telebot.Btn{Text: "💰 Earnings"}
	btnRides    = telebot.Btn{Text: "✏️ Rides"}
	btnRates    = telebot.Btn{Text: "⚙️ Rates"}
)

func (h *Handler) handleStart(c telebot.Context) error {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(btnAddRide.Text)),
		markup.Row(markup.Text(btnEarnings.Text)),
		markup.Row(markup.Text(btnRides.Text)),
		markup.Row(markup.Text(btnRates.Text)),
	)
	return c.Send("Welcome! Register your rides and I keep track of the pay.", markup)
}

// handleCallback covers the keys the router has no flow for: the ride
// conversations.
func (h *Handler) handleCallback(c telebot.Context) error {
	raw := strings.TrimPrefix(c.Data(), "\f")
	key := raw
	payload := ""
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		key = raw[:i]
		if len(raw) > i+1 {
			payload = raw[i+1:]
		}
	}

	switch key {
	case "addride_today":
		return h.beginRideDraft(c, time.Now().UTC().Truncate(24*time.Hour), 0)

	case "addride_other":
		h.setPendingCal(c.Chat().ID, calPending{action: calNewRide})
		return h.Calendar.ShowCalendar(c)

	case "ride_invoiced":
		return h.finalizeRideDraft(c, payload == "yes")

	case "ride_edit":
		id, _ := strconv.Atoi(payload)
		return h.showRide(c, id)

	case "ride_update":
		id, _ := strconv.Atoi(payload)
		h.setPendingCal(c.Chat().ID, calPending{action: calEditRide, editID: id})
		return h.Calendar.ShowCalendar(c)

	case "ride_delete":
		id, _ := strconv.Atoi(payload)
		if _, err := h.Async.SubmitAsync(func() (any, error) {
			return nil, h.Rides.DeleteRide(id)
		}); err != nil {
			return middleware.EditOrSend(c, "Could not delete the ride: "+err.Error(), nil)
		}
		log.Printf("[ride] deleted id=%d chat=%d", id, c.Chat().ID)
		return middleware.EditOrSend(c, "Ride deleted.", nil)
	}
	return nil
}

// onCalendarDate resumes whatever flow asked this chat for a date.
func (h *Handler) onCalendarDate(date time.Time, c telebot.Context) error {
	pending, ok := h.takePendingCal(c.Chat().ID)
	if !ok {
		return nil
	}
	switch pending.action {
	case calNewRide:
		return h.beginRideDraft(c, date, 0)
	case calEditRide:
		return h.beginRideDraft(c, date, pending.editID)
	case calNewRate:
		h.setRateDraft(c.Chat().ID, &rateDraft{
			step: stepDayRate,
			rate: domain.Rate{EffectiveFrom: date},
		})
		return middleware.EditOrSend(c, "New rate from "+date.Format("02.01.2006")+". Day rate per hour?", nil)
	}
	return nil
}

func (h *Handler) handleText(c telebot.Context) error {
	rideD, rateD := h.draftsFor(c.Chat().ID)
	if rideD != nil {
		return h.advanceRideDraft(c, rideD)
	}
	if rateD != nil {
		return h.advanceRateDraft(c, rateD)
	}

	switch c.Text() {
	case btnAddRide.Text:
		markup := &telebot.ReplyMarkup{}
		btnToday := markup.Data("Today", "addride_today")
		btnOther := markup.Data("Another date", "addride_other")
		markup.Inline(markup.Row(btnToday, btnOther))
		return c.Send("When was the ride?", markup)

	case btnEarnings.Text:
		now := time.Now()
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)
		total, err := h.Rides.CalculateEarnings(from, to)
		if err != nil {
			return c.Send("Could not compute the earnings: " + err.Error())
		}
		markup := &telebot.ReplyMarkup{}
		btnOther := markup.Data("Another month", "earnings_other_month")
		markup.Inline(markup.Row(btnOther))
		return c.Send("Earnings this month: "+total.StringFixed(2), markup)

	case btnRides.Text:
		return h.handleRideList(c)

	case btnRates.Text:
		return h.handleRates(c)
	}
	return nil
}

func (h *Handler) handleRideList(c telebot.Context) error {
	rides, err := h.Rides.ListRides()
	if err != nil {
		return c.Send("Could not load the rides: " + err.Error())
	}
	if len(rides) == 0 {
		return c.Send("No rides registered yet.")
	}
	markup := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for _, r := range rides {
		label := r.Date.Format("02.01") + " – " + r.Client + " (" + r.TotalPayment.StringFixed(2) + ")"
		rows = append(rows, markup.Row(markup.Data(label, "ride_edit", strconv.Itoa(r.ID))))
	}
	markup.Inline(rows...)
	return c.Send("Pick a ride:", markup)
}

func (h *Handler) handleRates(c telebot.Context) error {
	markup := &telebot.ReplyMarkup{}
	btnAdd := markup.Data("Add rate", "rates_add")
	markup.Inline(markup.Row(btnAdd))
	return c.Send(flows.FormatRates(h.RateSvc), markup)
}

func (h *Handler) showRide(c telebot.Context, id int) error {
	ride, err := h.Rides.GetRide(id)
	if err != nil {
		return middleware.EditOrSend(c, "Could not load the ride: "+err.Error(), nil)
	}
	invoiced := "no"
	if ride.Invoiced {
		invoiced = "yes"
	}
	msg := ride.Date.Format("02.01.2006") + " – " + ride.Client + "\n" +
		ride.StartTime + "-" + ride.EndTime + ", " + ride.DistanceKm.String() + " km, invoiced: " + invoiced + "\n" +
		"normal " + ride.NormalHours.String() + " | night " + ride.NightHours.String() +
		" | surplus " + ride.SurplusHours.String() + " | total " + ride.TotalHours.String() + "\n" +
		"payment " + ride.TotalPayment.StringFixed(2)
	markup := &telebot.ReplyMarkup{}
	btnUpdate := markup.Data("Edit", "ride_update", strconv.Itoa(id))
	btnDelete := markup.Data("Delete", "ride_delete", strconv.Itoa(id))
	markup.Inline(markup.Row(btnUpdate, btnDelete))
	return middleware.EditOrSend(c, msg, markup)
}

func (h *Handler) beginRideDraft(c telebot.Context, date time.Time, editID int) error {
	h.setRideDraft(c.Chat().ID, &rideDraft{
		editID: editID,
		step:   stepClient,
		input:  domain.RideInput{Date: date},
	})
	log.Printf("[ride] draft started chat=%d date=%s edit=%d", c.Chat().ID, date.Format("2006-01-02"), editID)
	return middleware.EditOrSend(c, "Ride on "+date.Format("02.01.2006")+". Who was the client?", nil)
}

func (h *Handler) advanceRideDraft(c telebot.Context, draft *rideDraft) error {
	text := strings.TrimSpace(c.Text())
	switch draft.step {
	case stepClient:
		if text == "" {
			return c.Send("Please enter the client name.")
		}
		draft.input.Client = text
		draft.step = stepStartTime
		return c.Send("Start time (HH:MM)?")

	case stepStartTime:
		draft.input.StartTime = text
		draft.step = stepEndTime
		return c.Send("End time (HH:MM)?")

	case stepEndTime:
		draft.input.EndTime = text
		draft.step = stepDistance
		return c.Send("Distance in km?")

	case stepDistance:
		km, err := pay.ParseAmount(text)
		if err != nil {
			return c.Send("Please enter the distance as a number, e.g. 42.5")
		}
		draft.input.DistanceKm = km
		markup := &telebot.ReplyMarkup{}
		btnYes := markup.Data("Yes", "ride_invoiced", "yes")
		btnNo := markup.Data("No", "ride_invoiced", "no")
		markup.Inline(markup.Row(btnYes, btnNo))
		return c.Send("Invoiced?", markup)
	}
	return nil
}

// finalizeRideDraft prices and stores the draft. Any validation error from
// the pay engine discards the draft without touching the store.
func (h *Handler) finalizeRideDraft(c telebot.Context, invoiced bool) error {
	chatID := c.Chat().ID
	draft, ok := h.takeRideDraft(chatID)
	if !ok {
		return nil
	}
	draft.input.Invoiced = invoiced

	res, err := h.Async.SubmitAsync(func() (any, error) {
		if draft.editID != 0 {
			return h.Rides.UpdateRide(draft.editID, draft.input)
		}
		return h.Rides.CreateRide(draft.input)
	})
	if err != nil {
		log.Printf("[ride] rejected chat=%d err=%v", chatID, err)
		return middleware.EditOrSend(c, "Could not save the ride: "+userMessage(err), nil)
	}
	ride := res.(domain.Ride)
	msg := "Ride saved: " + ride.Date.Format("02.01.2006") + " – " + ride.Client + "\n" +
		"normal " + ride.NormalHours.String() + " | night " + ride.NightHours.String() +
		" | surplus " + ride.SurplusHours.String() + " | total " + ride.TotalHours.String() + "\n" +
		"payment " + ride.TotalPayment.StringFixed(2)
	return middleware.EditOrSend(c, msg, nil)
}

func (h *Handler) startRateDraft(c telebot.Context) error {
	h.setPendingCal(c.Chat().ID, calPending{action: calNewRate})
	return h.Calendar.ShowCalendar(c)
}

func (h *Handler) advanceRateDraft(c telebot.Context, draft *rateDraft) error {
	text := strings.TrimSpace(c.Text())
	if _, err := pay.ParseAmount(text); err != nil {
		return c.Send("Please enter an amount, e.g. 14.45 or 14,45")
	}

	switch draft.step {
	case stepDayRate:
		draft.rate.DayRate = text
		draft.step = stepNightRate
		return c.Send("Night rate per hour?")

	case stepNightRate:
		draft.rate.NightRate = text
		draft.step = stepSurplusRate
		return c.Send("Surplus rate per hour?")

	case stepSurplusRate:
		draft.rate.SurplusRate = text
		draft.step = stepKmRate
		return c.Send("Rate per km?")

	case stepKmRate:
		draft.rate.KmRate = text
		chatID := c.Chat().ID
		h.dropRateDraft(chatID)

		if _, err := h.Async.SubmitAsync(func() (any, error) {
			return nil, h.RateSvc.AddRate(draft.rate)
		}); err != nil {
			if errors.Is(err, service.ErrDuplicateRate) {
				return c.Send("A rate starting on that date already exists.")
			}
			return c.Send("Could not save the rate: " + err.Error())
		}
		log.Printf("[rate] added chat=%d from=%s", chatID, draft.rate.EffectiveFrom.Format("2006-01-02"))
		markup := &telebot.ReplyMarkup{}
		btnView := markup.Data("Show rates", "rates_view")
		markup.Inline(markup.Row(btnView))
		return c.Send("Rate saved, effective from "+draft.rate.EffectiveFrom.Format("02.01.2006")+".", markup)
	}
	return nil
}

func (h *Handler) initState() {
	h.rideDrafts = make(map[int64]*rideDraft)
	h.rateDrafts = make(map[int64]*rateDraft)
	h.pendingCal = make(map[int64]calPending)
}

func (h *Handler) draftsFor(chatID int64) (*rideDraft, *rateDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rideDrafts[chatID], h.rateDrafts[chatID]
}

// setRideDraft starts a ride conversation; any rate conversation of the same
// chat is abandoned.
func (h *Handler) setRideDraft(chatID int64, d *rideDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rideDrafts[chatID] = d
	delete(h.rateDrafts, chatID)
}

func (h *Handler) takeRideDraft(chatID int64) (*rideDraft, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	d, ok := h.rideDrafts[chatID]
	delete(h.rideDrafts, chatID)
	return d, ok
}

func (h *Handler) setRateDraft(chatID int64, d *rateDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rateDrafts[chatID] = d
	delete(h.rideDrafts, chatID)
}

func (h *Handler) dropRateDraft(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rateDrafts, chatID)
}

func (h *Handler) setPendingCal(chatID int64, p calPending) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pendingCal[chatID] = p
}

func (h *Handler) takePendingCal(chatID int64) (calPending, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pendingCal[chatID]
	delete(h.pendingCal, chatID)
	return p, ok
}

// userMessage keeps the well-known validation failures short for the chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, pay.ErrInvalidTimeFormat):
		return "times must look like HH:MM, e.g. 09:30"
	case errors.Is(err, pay.ErrNegativeDistance):
		return "the distance cannot be negative"
	case errors.Is(err, pay.ErrNoRatesConfigured):
		return "no rates configured yet, add one first"
	default:
		return err.Error()
	}
}
