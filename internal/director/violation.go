package director

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
)

// ErrInvalidTransition is returned when a UI action does not apply to the
// current phase.
var ErrInvalidTransition = errors.New("director: invalid transition")

// InvariantError reports a caller bug. It is raised with panic because no
// valid input sequence can produce it.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("director: %s: %s", e.Op, e.Msg)
}

// ViolationKind classifies a rule violation.
type ViolationKind int

const (
	WrongKind  ViolationKind = iota // Kind is not part of the recipe
	WrongOrder                      // Kind differs from the one at the cursor
	TooMany                         // Kind already sliced as often as required
	ExtraSlice                      // Recipe already complete
)

// String returns the violation name.
func (k ViolationKind) String() string {
	switch k {
	case WrongKind:
		return "wrong_kind"
	case WrongOrder:
		return "wrong_order"
	case TooMany:
		return "too_many"
	case ExtraSlice:
		return "extra_slice"
	default:
		return "unknown"
	}
}

// Violation is a rule violation that lost the attempt.
type Violation struct {
	Kind     ViolationKind
	Actual   catalog.Kind
	Expected catalog.Kind // Set for WrongOrder
	Position int          // Sequence index of the offending slice
}

// Reason renders a human-readable explanation.
func (v Violation) Reason() string {
	switch v.Kind {
	case WrongKind:
		return fmt.Sprintf("Wrong fruit: %s", v.Actual)
	case WrongOrder:
		return fmt.Sprintf("Wrong order! Expected %s, got %s", v.Expected, v.Actual)
	case TooMany:
		return fmt.Sprintf("Too many %ss!", v.Actual)
	case ExtraSlice:
		return fmt.Sprintf("Extra slice: %s", v.Actual)
	default:
		return "Rule violated"
	}
}

// Verdict is the result of one slice.
type Verdict struct {
	Accepted  bool
	Phase     Phase // Phase after the slice
	Violation *Violation
}
