// Package game assembles the slicer: the virtual clock, the ballistic
// world, the spawner and the director, advanced one fixed tick at a time.
// Front ends (terminal, autoplay) drive it through Step or Tick.
package game

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/director"
	"github.com/vovakirdan/fruit-slice/internal/level"
	"github.com/vovakirdan/fruit-slice/internal/sched"
	"github.com/vovakirdan/fruit-slice/internal/spawner"
	"github.com/vovakirdan/fruit-slice/internal/world"
)

// Blade tuning, in world units.
const (
	BladeStep   = 0.75 // Distance moved per direction key
	BladeRadius = 0.35 // Half-width of the cutting edge
)

// Blade is the player's cursor. While Cutting, every tick sweeps the
// segment from Prev to Pos.
type Blade struct {
	Pos     core.Vec2
	Prev    core.Vec2
	Cutting bool
}

// StepResult reports what happened during one tick.
type StepResult struct {
	Phase    director.Phase
	Hits     []world.Body
	Verdicts []director.Verdict
	Quit     bool
}

// Game owns every simulation component. Not safe for concurrent use.
type Game struct {
	cfg     config.GameConfig
	runtime core.RuntimeConfig
	logger  *log.Logger

	sched    *sched.Scheduler
	world    *world.World
	catalog  *catalog.Catalog
	spawner  *spawner.Spawner
	director *director.Director

	blade     Blade
	tickCount uint64
	slices    int
}

// New builds a game. The runtime seed drives every random choice, so two
// games with the same seed and inputs evolve identically.
func New(cfg config.GameConfig, runtime core.RuntimeConfig, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := runtime.ResolveSeed()
	runtime.Seed = seed

	g := &Game{
		cfg:     cfg,
		runtime: runtime,
		logger:  logger,
		sched:   sched.New(),
		world:   world.New(cfg.World),
		catalog: catalog.New(cfg.Catalog.Entries()),
	}

	// Separate streams keep goal generation independent of spawn timing.
	spawnRng := rand.New(rand.NewSource(seed))
	goalRng := rand.New(rand.NewSource(seed ^ 0x5deece66d))

	g.spawner = spawner.New(cfg.Spawner, g.catalog, g.world, g.sched, spawnRng, logger.WithPrefix("spawner"))
	policy := level.NewPolicy(cfg.Levels, g.catalog.AllKinds(), goalRng)
	g.director = director.New(&director.Session{}, policy, g.spawner, g.sched,
		director.OptionsFrom(cfg), logger.WithPrefix("director"))
	g.director.Subscribe(g.onEvent)

	g.resetBlade()
	return g
}

func (g *Game) onEvent(ev director.Event) {
	if ev.Kind == director.EventPhaseChanged && ev.To == director.PhaseRevealing {
		// Leftovers from the previous attempt must not be sliced into the new one
		g.world.Clear()
		g.resetBlade()
	}
}

func (g *Game) resetBlade() {
	b := g.world.Bounds()
	center := core.V(b.CenterX(), b.MinY+b.Height()/2)
	g.blade = Blade{Pos: center, Prev: center}
}

// Step advances one fixed tick after applying the frame's input.
func (g *Game) Step(in core.InputFrame) StepResult {
	if in.Has(core.ActionQuit) {
		return StepResult{Phase: g.director.Phase(), Quit: true}
	}
	g.handleCommands(in)
	g.moveBlade(in)

	res := g.Tick(g.runtime.TickInterval())

	if g.blade.Cutting {
		hits, verdicts := g.Slice(g.blade.Prev, g.blade.Pos, BladeRadius)
		res.Hits = hits
		res.Verdicts = verdicts
		res.Phase = g.director.Phase()
	}
	g.blade.Prev = g.blade.Pos
	return res
}

// handleCommands maps menu actions onto director transitions. Actions that
// do not apply to the current phase are ignored.
func (g *Game) handleCommands(in core.InputFrame) {
	d := g.director
	if in.Has(core.ActionBack) {
		d.ReturnToMenu()
		return
	}
	if !in.Has(core.ActionConfirm) {
		return
	}

	var err error
	switch st := d.State(); {
	case st.Phase == director.PhaseIdle:
		err = d.StartAttempt()
	case st.Phase == director.PhaseLost && !st.Summary:
		err = d.AcknowledgeLoss()
	case st.Phase.Resolved():
		err = d.AcknowledgeWin()
	}
	if err != nil {
		g.logger.Warn("command rejected", "phase", d.Phase(), "err", err)
	}
}

func (g *Game) moveBlade(in core.InputFrame) {
	if in.Has(core.ActionSlice) {
		g.blade.Cutting = !g.blade.Cutting
		g.blade.Prev = g.blade.Pos
	}

	var d core.Vec2
	if in.Has(core.ActionUp) {
		d.Y += BladeStep
	}
	if in.Has(core.ActionDown) {
		d.Y -= BladeStep
	}
	if in.Has(core.ActionLeft) {
		d.X -= BladeStep
	}
	if in.Has(core.ActionRight) {
		d.X += BladeStep
	}
	g.MoveBladeTo(g.blade.Pos.Add(d))
}

// MoveBladeTo places the blade, clamped to the play area. The sweep from
// the previous position is applied on the next Step.
func (g *Game) MoveBladeTo(p core.Vec2) {
	b := g.world.Bounds()
	g.blade.Pos = core.V(core.ClampF(p.X, b.MinX, b.MaxX), core.ClampF(p.Y, b.MinY, b.MaxY))
}

// SetCutting turns the cutting edge on or off.
func (g *Game) SetCutting(on bool) {
	if on && !g.blade.Cutting {
		g.blade.Prev = g.blade.Pos
	}
	g.blade.Cutting = on
}

// Tick advances the clock and the world by dt without any input.
func (g *Game) Tick(dt time.Duration) StepResult {
	g.sched.Advance(dt)
	g.world.Step(dt)
	g.tickCount++
	return StepResult{Phase: g.director.Phase()}
}

// Slice cuts every body the segment touches. Hits are reported to the
// director only while an attempt is active; once a slice resolves the
// attempt, the remaining hits of the same sweep are discarded.
func (g *Game) Slice(a, b core.Vec2, radius float64) ([]world.Body, []director.Verdict) {
	if g.director.Phase() != director.PhaseActive {
		return nil, nil
	}
	hits := g.world.SliceSegment(a, b, radius)
	var verdicts []director.Verdict
	for _, h := range hits {
		g.spawner.Consume(h.ID)
		if g.director.Phase() != director.PhaseActive {
			continue
		}
		g.slices++
		verdicts = append(verdicts, g.director.OnSliced(h.Kind))
	}
	return hits, verdicts
}

// Director returns the state machine.
func (g *Game) Director() *director.Director {
	return g.director
}

// World returns the ballistic world.
func (g *Game) World() *world.World {
	return g.world
}

// Spawner returns the spawner.
func (g *Game) Spawner() *spawner.Spawner {
	return g.spawner
}

// Config returns the game configuration.
func (g *Game) Config() config.GameConfig {
	return g.cfg
}

// Blade returns the cursor state.
func (g *Game) Blade() Blade {
	return g.blade
}

// Seed returns the resolved RNG seed.
func (g *Game) Seed() int64 {
	return g.runtime.Seed
}

// Ticks returns the number of ticks simulated.
func (g *Game) Ticks() uint64 {
	return g.tickCount
}

// Slices returns the number of slices reported to the director.
func (g *Game) Slices() int {
	return g.slices
}

// Now returns the virtual clock time.
func (g *Game) Now() time.Duration {
	return g.sched.Now()
}
