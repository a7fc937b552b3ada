// Package event provides an in-process event dispatcher.
package event

import (
	"sync"
)

// Handler receives an event payload.
type Handler func(payload any)

// Dispatcher fans events out to registered listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Handler(nil), d.handlers[event]...)
}

// Fire dispatches an event synchronously to all registered listeners, in
// registration order. Listeners run on the caller's goroutine, so none is
// left running once Fire returns. A nil Dispatcher drops the event.
func (d *Dispatcher) Fire(event string, payload any) {
	if d == nil {
		return
	}
	for _, h := range d.listeners(event) {
		h(payload)
	}
}
