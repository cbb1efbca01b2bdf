package router

import (
	"log"
	"strings"

	"gopkg.in/telebot.v3"
)

type HandlerFunc func(c telebot.Context, payload string) error

// CallbackRouter dispatches inline-button callbacks by their key part
// (everything before '|'). cal_* keys go to the calendar delegate.
type CallbackRouter struct {
	handlers    map[string]HandlerFunc
	CalDelegate func(c telebot.Context) error
}

func New() *CallbackRouter {
	return &CallbackRouter{handlers: make(map[string]HandlerFunc)}
}

func (r *CallbackRouter) Register(key string, h HandlerFunc) {
	r.handlers[key] = h
}

// Dispatch tries to route one callback. The caller keeps its own fallback
// for keys nobody registered; Dispatch reports whether it handled the event.
func (r *CallbackRouter) Dispatch(c telebot.Context) (bool, error) {
	raw := strings.TrimPrefix(c.Data(), "\f")
	key := raw
	payload := ""
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		key = raw[:i]
		if len(raw) > i+1 {
			payload = raw[i+1:]
		}
	}
	log.Printf("[callback] key=%q", key)

	if strings.HasPrefix(key, "cal_") {
		if r.CalDelegate != nil {
			return true, r.CalDelegate(c)
		}
		return true, nil
	}
	if h, ok := r.handlers[key]; ok {
		return true, h(c, payload)
	}
	return false, nil
}
