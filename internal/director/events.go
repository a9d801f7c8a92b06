package director

import (
	"time"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/level"
)

// EventKind identifies what happened.
type EventKind int

const (
	EventPhaseChanged EventKind = iota
	EventSliceAccepted
	EventAttemptResolved
)

// Event is delivered synchronously to subscribers.
type Event struct {
	Kind EventKind

	// EventPhaseChanged
	From, To Phase

	// EventSliceAccepted
	Slice catalog.Kind

	// EventAttemptResolved
	Outcome   Phase
	Violation *Violation
	Goal      level.Goal
	Level     int
	Duration  time.Duration // Active time, reveal excluded
	Summary   bool
	Retry     bool
}

// Subscribe registers fn for every future event. Handlers run on the
// caller's goroutine in registration order.
func (d *Director) Subscribe(fn func(Event)) {
	d.subscribers = append(d.subscribers, fn)
}

func (d *Director) emit(ev Event) {
	for _, fn := range d.subscribers {
		fn(ev)
	}
}
