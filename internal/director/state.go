package director

import (
	"maps"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/level"
)

// Phase is the attempt lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRevealing
	PhaseActive
	PhaseWon
	PhaseLost
	PhaseCleared // Final level won, or nothing left to play
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRevealing:
		return "revealing"
	case PhaseActive:
		return "active"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	case PhaseCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Resolved reports whether the phase ends an attempt.
func (p Phase) Resolved() bool {
	return p == PhaseWon || p == PhaseLost || p == PhaseCleared
}

// Session is the progression context shared across attempts. It replaces
// process-wide level and retry globals; the caller owns it and may inspect
// it between attempts.
type Session struct {
	Level    int
	Retry    level.RetryMemory
	LastWon  *level.Goal // Most recent won recipe, seeds expansion goals
	Attempts int
}

// AttemptState is a plain-data snapshot for presentation layers.
type AttemptState struct {
	Phase     Phase
	Level     int
	Goal      level.Goal
	Sliced    map[catalog.Kind]int
	Cursor    int // Index into Goal.Sequence; advances only when order is enforced
	Violation *Violation
	Retry     bool // Goal was replayed from a lost attempt
	Summary   bool // Tutorial finished; either acknowledgment moves on
}

// Remaining returns how many more of kind are still needed.
func (s AttemptState) Remaining(kind catalog.Kind) int {
	return max(s.Goal.Required[kind]-s.Sliced[kind], 0)
}

// NextExpected returns the kind at the cursor for ordered goals.
func (s AttemptState) NextExpected() (catalog.Kind, bool) {
	if !s.Goal.OrderEnforced || s.Cursor >= len(s.Goal.Sequence) {
		return "", false
	}
	return s.Goal.Sequence[s.Cursor], true
}

// Progress returns accepted slices and the total needed.
func (s AttemptState) Progress() (done, total int) {
	for _, n := range s.Sliced {
		done += n
	}
	return done, s.Goal.Len()
}

func (s AttemptState) clone() AttemptState {
	s.Goal = s.Goal.Clone()
	s.Sliced = maps.Clone(s.Sliced)
	if s.Violation != nil {
		v := *s.Violation
		s.Violation = &v
	}
	return s
}
