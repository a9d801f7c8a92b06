// Package director runs the attempt state machine: it reveals a goal,
// validates slices against it, steers the spawner toward the next needed
// kind and decides between retry and advance.
package director

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/level"
	"github.com/vovakirdan/fruit-slice/internal/sched"
)

// Spawner is the part of the spawner the director drives.
type Spawner interface {
	Start()
	Stop()
	ResetWeights(baseline float64)
	RestoreWeights()
	SetWeight(kind catalog.Kind, value float64)
	SetAllowedKinds(kinds []catalog.Kind)
	ClearAllowedKinds()
}

// Options holds the director's tunables.
type Options struct {
	Steering        config.SteeringConfig
	TutorialSummary bool
}

// OptionsFrom extracts director options from a game config.
func OptionsFrom(cfg config.GameConfig) Options {
	return Options{
		Steering:        cfg.Steering,
		TutorialSummary: cfg.Levels.Tutorial.Summary,
	}
}

// Director owns the current attempt. All methods must be called from the
// goroutine that advances the scheduler.
type Director struct {
	session *Session
	policy  *level.Policy
	spawner Spawner
	sched   *sched.Scheduler
	opts    Options
	logger  *log.Logger

	phase     Phase
	goal      level.Goal
	sliced    map[catalog.Kind]int
	cursor    int
	violation *Violation
	retry     bool
	summary   bool

	reveal    *sched.Handle
	startedAt time.Duration

	subscribers []func(Event)
}

// New creates an idle director. A nil session starts a fresh one; a nil
// logger discards output.
func New(sess *Session, policy *level.Policy, sp Spawner, s *sched.Scheduler, opts Options, logger *log.Logger) *Director {
	if sess == nil {
		sess = &Session{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Director{
		session: sess,
		policy:  policy,
		spawner: sp,
		sched:   s,
		opts:    opts,
		logger:  logger,
		sliced:  make(map[catalog.Kind]int),
	}
}

// Session returns the progression context.
func (d *Director) Session() *Session {
	return d.session
}

// Phase returns the current phase.
func (d *Director) Phase() Phase {
	return d.phase
}

// State returns a snapshot of the current attempt.
func (d *Director) State() AttemptState {
	st := AttemptState{
		Phase:     d.phase,
		Level:     d.session.Level,
		Goal:      d.goal,
		Sliced:    d.sliced,
		Cursor:    d.cursor,
		Violation: d.violation,
		Retry:     d.retry,
		Summary:   d.summary,
	}
	return st.clone()
}

// StartAttempt builds the next goal and begins the reveal. Valid only
// while Idle. If every level is done the director moves to Cleared.
func (d *Director) StartAttempt() error {
	if d.phase != PhaseIdle {
		return fmt.Errorf("start attempt in %s: %w", d.phase, ErrInvalidTransition)
	}

	plan := d.policy.Next(d.session.Level, &d.session.Retry, d.session.LastWon)
	if plan.Cleared {
		d.logger.Info("all levels cleared", "level", d.session.Level)
		d.setPhase(PhaseCleared)
		return nil
	}
	if err := plan.Goal.Validate(); err != nil {
		return fmt.Errorf("director: level %d: %w", d.session.Level, err)
	}

	d.resetAttempt()
	d.goal = plan.Goal
	d.retry = plan.Retry
	d.session.Attempts++

	d.logger.Debug("attempt starting",
		"level", d.session.Level,
		"mode", d.goal.Mode,
		"sequence", d.goal.Sequence,
		"retry", d.retry)

	d.setPhase(PhaseRevealing)
	wait := config.Seconds(d.policy.RevealSeconds(d.goal.Mode))
	d.reveal = d.sched.After(wait, d.activate)
	return nil
}

// activate ends the reveal. The goal is already in place, so weights are
// pushed before the spawner starts.
func (d *Director) activate() {
	if d.phase != PhaseRevealing {
		return
	}
	d.reveal = nil
	d.setPhase(PhaseActive)
	d.startedAt = d.sched.Now()
	d.pushWeights()
	d.spawner.Start()
}

// OnSliced validates one slice. Calling it outside Active is a caller bug
// and panics with *InvariantError.
func (d *Director) OnSliced(kind catalog.Kind) Verdict {
	if d.phase != PhaseActive {
		panic(&InvariantError{Op: "OnSliced", Msg: fmt.Sprintf("slice of %s in phase %s", kind, d.phase)})
	}

	seq := d.goal.Sequence
	if d.goal.OrderEnforced {
		if d.cursor >= len(seq) {
			return d.lose(Violation{Kind: ExtraSlice, Actual: kind, Position: d.cursor})
		}
		if expected := seq[d.cursor]; kind != expected {
			return d.lose(Violation{Kind: WrongOrder, Actual: kind, Expected: expected, Position: d.cursor})
		}
	} else if _, ok := d.goal.Required[kind]; !ok {
		return d.lose(Violation{Kind: WrongKind, Actual: kind, Position: d.progress()})
	}

	pos := d.progress()
	d.sliced[kind]++
	if d.goal.OrderEnforced {
		d.cursor++
	}
	d.checkInvariants()

	if d.sliced[kind] > d.goal.Required[kind] {
		return d.lose(Violation{Kind: TooMany, Actual: kind, Position: pos})
	}

	d.emit(Event{Kind: EventSliceAccepted, Slice: kind})

	if d.complete() {
		d.resolve(PhaseWon, nil)
		return Verdict{Accepted: true, Phase: d.phase}
	}

	d.pushWeights()
	return Verdict{Accepted: true, Phase: d.phase}
}

func (d *Director) lose(v Violation) Verdict {
	d.resolve(PhaseLost, &v)
	return Verdict{Phase: d.phase, Violation: &v}
}

func (d *Director) complete() bool {
	for k, n := range d.goal.Required {
		if d.sliced[k] < n {
			return false
		}
	}
	return !d.goal.OrderEnforced || d.cursor >= len(d.goal.Sequence)
}

func (d *Director) progress() int {
	n := 0
	for _, c := range d.sliced {
		n += c
	}
	return n
}

func (d *Director) checkInvariants() {
	if d.cursor > len(d.goal.Sequence) {
		panic(&InvariantError{Op: "OnSliced", Msg: fmt.Sprintf("cursor %d past sequence end %d", d.cursor, len(d.goal.Sequence))})
	}
	for k, n := range d.sliced {
		if n < 0 {
			panic(&InvariantError{Op: "OnSliced", Msg: fmt.Sprintf("negative count for %s", k)})
		}
	}
}

// resolve ends the attempt. A win on the final level becomes Cleared.
func (d *Director) resolve(outcome Phase, v *Violation) {
	d.stopSpawning()
	d.violation = v
	d.summary = d.opts.TutorialSummary && d.goal.Mode == level.ModeTutorial

	switch outcome {
	case PhaseWon:
		d.session.Retry.Clear()
		won := d.goal.Clone()
		d.session.LastWon = &won
		if d.session.Level >= d.policy.MaxLevel() {
			outcome = PhaseCleared
		}
	case PhaseLost:
		d.session.Retry.Set(d.goal)
	}

	elapsed := d.sched.Now() - d.startedAt
	if v != nil {
		d.logger.Info("attempt lost", "level", d.session.Level, "reason", v.Reason())
	} else {
		d.logger.Info("attempt won", "level", d.session.Level, "elapsed", elapsed)
	}

	d.setPhase(outcome)
	d.emit(Event{
		Kind:      EventAttemptResolved,
		Outcome:   outcome,
		Violation: v,
		Goal:      d.goal.Clone(),
		Level:     d.session.Level,
		Duration:  elapsed,
		Summary:   d.summary,
		Retry:     d.retry,
	})
}

// AcknowledgeWin continues after a win. Valid in Won and Cleared, and in
// Lost when the tutorial summary is showing.
func (d *Director) AcknowledgeWin() error {
	switch {
	case d.summary && d.phase.Resolved():
		d.finishTutorial()
	case d.phase == PhaseWon:
		d.session.Level++
	case d.phase == PhaseCleared:
		d.session.Level = 0
		d.session.LastWon = nil
		d.session.Retry.Clear()
	default:
		return fmt.Errorf("acknowledge win in %s: %w", d.phase, ErrInvalidTransition)
	}
	d.toIdle()
	return nil
}

// AcknowledgeLoss returns to Idle keeping the retry recipe, so the next
// StartAttempt replays it.
func (d *Director) AcknowledgeLoss() error {
	switch {
	case d.summary && d.phase.Resolved():
		d.finishTutorial()
	case d.phase == PhaseLost:
	default:
		return fmt.Errorf("acknowledge loss in %s: %w", d.phase, ErrInvalidTransition)
	}
	d.toIdle()
	return nil
}

func (d *Director) finishTutorial() {
	d.session.Retry.Clear()
	d.session.Level = 1
}

// ReturnToMenu abandons whatever is running. A pending reveal is
// cancelled and the retry recipe is dropped.
func (d *Director) ReturnToMenu() {
	d.reveal.Cancel()
	d.reveal = nil
	d.stopSpawning()
	d.session.Retry.Clear()
	if d.phase == PhaseCleared {
		d.session.Level = 0
		d.session.LastWon = nil
	}
	d.toIdle()
}

// ResetProgress returns to the menu and back to the tutorial.
func (d *Director) ResetProgress() {
	d.ReturnToMenu()
	d.session.Level = 0
	d.session.LastWon = nil
}

func (d *Director) toIdle() {
	d.resetAttempt()
	d.setPhase(PhaseIdle)
}

func (d *Director) resetAttempt() {
	d.goal = level.Goal{}
	clear(d.sliced)
	d.cursor = 0
	d.violation = nil
	d.retry = false
	d.summary = false
}

func (d *Director) setPhase(p Phase) {
	if d.phase == p {
		return
	}
	from := d.phase
	d.phase = p
	d.logger.Debug("phase change", "from", from, "to", p)
	d.emit(Event{Kind: EventPhaseChanged, From: from, To: p})
}
