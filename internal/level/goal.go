// Package level builds the recipes a player must slice and decides which
// recipe comes next.
package level

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
)

// Mode identifies which rule produced a goal.
type Mode int

const (
	ModeTutorial Mode = iota
	ModeMemory
	ModeExpansion
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTutorial:
		return "tutorial"
	case ModeMemory:
		return "memory"
	case ModeExpansion:
		return "expansion"
	default:
		return "unknown"
	}
}

// Goal is the recipe of one attempt. It is treated as immutable once built;
// use Clone before modifying a copy.
type Goal struct {
	Required      map[catalog.Kind]int
	Sequence      []catalog.Kind
	OrderEnforced bool
	Mode          Mode
	Level         int
}

// NewGoal derives the required counts from seq.
func NewGoal(seq []catalog.Kind, ordered bool, mode Mode, lvl int) Goal {
	required := make(map[catalog.Kind]int, len(seq))
	for _, k := range seq {
		required[k]++
	}
	return Goal{
		Required:      required,
		Sequence:      slices.Clone(seq),
		OrderEnforced: ordered,
		Mode:          mode,
		Level:         lvl,
	}
}

// Validate checks that Sequence is an ordering of Required.
func (g Goal) Validate() error {
	if len(g.Sequence) == 0 {
		return fmt.Errorf("goal has an empty sequence")
	}
	counts := make(map[catalog.Kind]int, len(g.Required))
	for _, k := range g.Sequence {
		counts[k]++
	}
	if len(counts) != len(g.Required) {
		return fmt.Errorf("sequence has %d kinds, required has %d", len(counts), len(g.Required))
	}
	for k, want := range g.Required {
		if want <= 0 {
			return fmt.Errorf("required count for %s is %d", k, want)
		}
		if counts[k] != want {
			return fmt.Errorf("sequence has %d x %s, required %d", counts[k], k, want)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (g Goal) Clone() Goal {
	g.Required = maps.Clone(g.Required)
	g.Sequence = slices.Clone(g.Sequence)
	return g
}

// Equal reports whether two goals describe the same recipe.
func (g Goal) Equal(o Goal) bool {
	return g.OrderEnforced == o.OrderEnforced &&
		g.Mode == o.Mode &&
		g.Level == o.Level &&
		slices.Equal(g.Sequence, o.Sequence) &&
		maps.Equal(g.Required, o.Required)
}

// Kinds returns the distinct kinds in order of first appearance.
func (g Goal) Kinds() []catalog.Kind {
	seen := make(map[catalog.Kind]bool, len(g.Required))
	var out []catalog.Kind
	for _, k := range g.Sequence {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Len returns the total number of slices needed.
func (g Goal) Len() int {
	return len(g.Sequence)
}

// Plan is what the policy decided for the next attempt.
type Plan struct {
	Goal    Goal
	Cleared bool // Every level is done; Goal is empty
	Retry   bool // Goal came from RetryMemory
}

// RetryMemory holds the recipe of the last lost attempt so the next try
// replays it exactly.
type RetryMemory struct {
	goal Goal
	set  bool
}

// Set stores a copy of g.
func (r *RetryMemory) Set(g Goal) {
	r.goal = g.Clone()
	r.set = true
}

// Clear forgets the stored recipe.
func (r *RetryMemory) Clear() {
	r.goal = Goal{}
	r.set = false
}

// Get returns a copy of the stored recipe.
func (r *RetryMemory) Get() (Goal, bool) {
	if !r.set {
		return Goal{}, false
	}
	return r.goal.Clone(), true
}

// Mode returns the mode of the stored recipe.
func (r *RetryMemory) Mode() (Mode, bool) {
	return r.goal.Mode, r.set
}
