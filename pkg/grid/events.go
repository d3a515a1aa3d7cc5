package grid

import (
	"sync"
)

type Event string

const (
	EventSuccess  Event = "successServerRetrieval"
	EventError    Event = "errorServerRetrieval"
	EventComplete Event = "tableUpdateComplete"
)

// Signal is passed to handlers, Err is only set on EventError
type Signal struct {
	Event Event
	Grid  *Grid
	Draw  int
	Err   error
}

type Handler func(s Signal)

// Emitter runs handlers synchronously, in the order they were added
type Emitter struct {
	handlers map[Event][]Handler
	lock     sync.RWMutex
}

func NewEmitter() *Emitter {
	return &Emitter{handlers: map[Event][]Handler{}}
}

func (e *Emitter) On(event Event, handler Handler) {

	e.lock.Lock()
	defer e.lock.Unlock()

	e.handlers[event] = append(e.handlers[event], handler)
}

// Off removes every handler for the event
func (e *Emitter) Off(event Event) {

	e.lock.Lock()
	defer e.lock.Unlock()

	delete(e.handlers, event)
}

func (e *Emitter) Trigger(s Signal) {

	e.lock.RLock()
	handlers := append([]Handler{}, e.handlers[s.Event]...)
	e.lock.RUnlock()

	for _, h := range handlers {
		h(s)
	}
}
