package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/director"
)

// Recorder saves every resolved attempt it hears about. Save failures are
// logged and counted; they never interrupt play.
type Recorder struct {
	store  *Store
	logger *log.Logger
	saved  int
	failed int
}

// NewRecorder creates a recorder. A nil logger discards output.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{store: store, logger: logger}
}

// Attach subscribes the recorder to a director.
func (r *Recorder) Attach(d *director.Director) {
	d.Subscribe(r.Handle)
}

// Handle is a director event handler.
func (r *Recorder) Handle(ev director.Event) {
	if ev.Kind != director.EventAttemptResolved {
		return
	}
	rec := RecordFromEvent(ev)
	if err := r.store.SaveAttempt(&rec); err != nil {
		r.failed++
		r.logger.Error("failed to record attempt", "err", err)
		return
	}
	r.saved++
	r.logger.Debug("attempt recorded", "id", rec.ID, "outcome", rec.Outcome)
}

// Saved returns the number of attempts written.
func (r *Recorder) Saved() int {
	return r.saved
}

// Failed returns the number of attempts that could not be written.
func (r *Recorder) Failed() int {
	return r.failed
}

// RecordFromEvent converts a resolution event into a record.
func RecordFromEvent(ev director.Event) AttemptRecord {
	rec := AttemptRecord{
		Level:    ev.Level,
		Mode:     ev.Goal.Mode.String(),
		Outcome:  outcomeName(ev.Outcome),
		Duration: ev.Duration,
		Retry:    ev.Retry,
	}
	for _, k := range ev.Goal.Sequence {
		rec.Sequence = append(rec.Sequence, string(k))
	}
	if ev.Violation != nil {
		rec.Reason = ev.Violation.Reason()
		rec.Slices = ev.Violation.Position + 1
	} else {
		rec.Slices = ev.Goal.Len()
	}
	return rec
}

func outcomeName(p director.Phase) string {
	switch p {
	case director.PhaseWon:
		return OutcomeWon
	case director.PhaseLost:
		return OutcomeLost
	case director.PhaseCleared:
		return OutcomeCleared
	default:
		return OutcomeAbandoned
	}
}
