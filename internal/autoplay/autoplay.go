// Package autoplay runs the game headless with a scripted player. It is
// used by the sim command to exercise pacing and progression settings.
package autoplay

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/director"
	"github.com/vovakirdan/fruit-slice/internal/game"
	"github.com/vovakirdan/fruit-slice/internal/level"
	"github.com/vovakirdan/fruit-slice/internal/world"
)

// Options tune the bot and the run.
type Options struct {
	Attempts int           // Attempts to play
	Accuracy float64       // Chance that a decision goes for a needed fruit, [0, 1]
	Reaction time.Duration // Minimum time between two slices
	Timeout  time.Duration // Active time after which an attempt is abandoned, 0 for the default
	TickRate int
}

// DefaultOptions returns a competent but imperfect bot.
func DefaultOptions() Options {
	return Options{
		Attempts: 10,
		Accuracy: 0.9,
		Reaction: 300 * time.Millisecond,
		Timeout:  90 * time.Second,
		TickRate: 60,
	}
}

// Result describes one finished attempt.
type Result struct {
	Attempt   int
	Level     int
	Mode      level.Mode
	Outcome   director.Phase // Won, Lost or Cleared; Idle when abandoned
	Reason    string
	Slices    int
	Duration  time.Duration
	Retry     bool
	Abandoned bool
}

// Report aggregates a run.
type Report struct {
	Results      []Result
	Wins         int
	Losses       int
	Abandoned    int
	Clears       int
	HighestLevel int
	Spawned      int
}

// Runner plays attempts on a game.
type Runner struct {
	game   *game.Game
	opts   Options
	rng    *rand.Rand
	logger *log.Logger

	lastSlice time.Duration
	current   *Result
}

// New creates a runner over a fresh game built from cfg.
func New(cfg config.GameConfig, seed int64, opts Options, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	def := DefaultOptions()
	if opts.TickRate <= 0 {
		opts.TickRate = def.TickRate
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	opts.Accuracy = core.ClampF(opts.Accuracy, 0, 1)

	rt := core.RuntimeConfig{TickRate: opts.TickRate, Seed: seed}
	g := game.New(cfg, rt, logger)
	r := &Runner{
		game:   g,
		opts:   opts,
		rng:    rand.New(rand.NewSource(g.Seed() + 1)),
		logger: logger.WithPrefix("autoplay"),
	}
	g.Director().Subscribe(r.onEvent)
	return r
}

// Game returns the underlying game, e.g. to subscribe a recorder.
func (r *Runner) Game() *game.Game {
	return r.game
}

func (r *Runner) onEvent(ev director.Event) {
	if ev.Kind != director.EventAttemptResolved || r.current == nil {
		return
	}
	r.current.Outcome = ev.Outcome
	r.current.Duration = ev.Duration
	r.current.Level = ev.Level
	r.current.Mode = ev.Goal.Mode
	r.current.Retry = ev.Retry
	if ev.Violation != nil {
		r.current.Reason = ev.Violation.Reason()
	}
}

// Run plays the configured number of attempts. It stops early when ctx
// is cancelled and returns what was played so far.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var rep Report
	for i := 1; i <= r.opts.Attempts; i++ {
		if err := ctx.Err(); err != nil {
			return r.finish(rep), err
		}
		res, err := r.playOne(ctx, i)
		if err != nil {
			return r.finish(rep), err
		}
		rep.add(res)
		r.logger.Debug("attempt done",
			"n", res.Attempt,
			"level", res.Level,
			"outcome", res.Outcome,
			"reason", res.Reason)
	}
	return r.finish(rep), nil
}

func (r *Runner) finish(rep Report) Report {
	rep.Spawned = r.game.Spawner().Spawned()
	return rep
}

func (rep *Report) add(res Result) {
	rep.Results = append(rep.Results, res)
	rep.HighestLevel = max(rep.HighestLevel, res.Level)
	switch {
	case res.Abandoned:
		rep.Abandoned++
	case res.Outcome == director.PhaseLost:
		rep.Losses++
	case res.Outcome == director.PhaseCleared:
		rep.Clears++
		rep.Wins++
	case res.Outcome == director.PhaseWon:
		rep.Wins++
	}
}

func (r *Runner) playOne(ctx context.Context, n int) (Result, error) {
	d := r.game.Director()
	res := Result{Attempt: n, Level: d.Session().Level}
	r.current = &res
	defer func() { r.current = nil }()

	if err := d.StartAttempt(); err != nil {
		return res, fmt.Errorf("autoplay: attempt %d: %w", n, err)
	}
	if d.Phase() == director.PhaseCleared {
		// Nothing left to play; acknowledging restarts from the tutorial
		res.Outcome = director.PhaseCleared
		return res, d.AcknowledgeWin()
	}

	dt := core.RuntimeConfig{TickRate: r.opts.TickRate}.TickInterval()
	slicesBefore := r.game.Slices()
	var active time.Duration

	for ticks := 0; !d.Phase().Resolved(); ticks++ {
		if ticks%600 == 0 {
			if err := ctx.Err(); err != nil {
				d.ReturnToMenu()
				return res, err
			}
		}
		r.game.Tick(dt)
		if d.Phase() != director.PhaseActive {
			continue
		}
		active += dt
		if active >= r.opts.Timeout {
			d.ReturnToMenu()
			res.Abandoned = true
			res.Outcome = director.PhaseIdle
			res.Reason = "timed out"
			res.Duration = active
			res.Slices = r.game.Slices() - slicesBefore
			return res, nil
		}
		r.decide()
	}
	res.Slices = r.game.Slices() - slicesBefore

	if d.State().Phase == director.PhaseLost && !d.State().Summary {
		return res, d.AcknowledgeLoss()
	}
	return res, d.AcknowledgeWin()
}

// decide picks at most one body to slice this tick.
func (r *Runner) decide() {
	now := r.game.Now()
	if now-r.lastSlice < r.opts.Reaction {
		return
	}
	visible := r.game.World().Visible()
	if len(visible) == 0 {
		return
	}

	var target *world.Body
	if r.rng.Float64() < r.opts.Accuracy {
		target = pickNeeded(visible, r.game.World().Bodies(), r.game.World().FruitRadius(), r.game.Director().State())
	} else {
		target = &visible[r.rng.Intn(len(visible))]
	}
	if target == nil {
		return
	}

	r.lastSlice = now
	r.game.Slice(target.Pos, target.Pos, 0)
}

// pickNeeded returns the first visible body of a kind the goal still needs
// that can be cut without touching any other body.
func pickNeeded(visible, all []world.Body, radius float64, st director.AttemptState) *world.Body {
	var wanted func(catalog.Kind) bool
	if next, ok := st.NextExpected(); ok {
		wanted = func(k catalog.Kind) bool { return k == next }
	} else if st.Goal.OrderEnforced {
		return nil
	} else {
		wanted = func(k catalog.Kind) bool { return st.Remaining(k) > 0 }
	}
	for i := range visible {
		if wanted(visible[i].Kind) && isolated(visible[i], all, radius) {
			return &visible[i]
		}
	}
	return nil
}

func isolated(b world.Body, all []world.Body, radius float64) bool {
	for _, o := range all {
		if o.ID != b.ID && o.Pos.Sub(b.Pos).Len() <= radius {
			return false
		}
	}
	return true
}
