package game

import (
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/director"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// runUntil steps with empty input until cond holds or the tick budget ends.
func runUntil(g *Game, ticks int, cond func() bool) bool {
	for i := 0; i < ticks; i++ {
		if cond() {
			return true
		}
		g.Step(core.NewInputFrame())
	}
	return cond()
}

func TestGameDeterminism(t *testing.T) {
	// Same seed and inputs must produce identical worlds
	inputs := make([]core.InputFrame, 600)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch {
		case i == 0:
			inputs[i].Set(core.ActionConfirm)
		case i == 10:
			inputs[i].Set(core.ActionSlice)
		case i%7 == 0:
			inputs[i].Set(core.ActionLeft)
		case i%5 == 0:
			inputs[i].Set(core.ActionUp)
		}
	}

	run := func() *Game {
		g := New(config.Default(), testRuntime(12345), nil)
		for _, in := range inputs {
			g.Step(in)
		}
		return g
	}
	g1, g2 := run(), run()

	if g1.Director().Phase() != g2.Director().Phase() {
		t.Errorf("phases differ: %s vs %s", g1.Director().Phase(), g2.Director().Phase())
	}
	if g1.Spawner().Spawned() != g2.Spawner().Spawned() {
		t.Errorf("spawn counts differ: %d vs %d", g1.Spawner().Spawned(), g2.Spawner().Spawned())
	}
	if g1.Slices() != g2.Slices() {
		t.Errorf("slice counts differ: %d vs %d", g1.Slices(), g2.Slices())
	}
	b1, b2 := g1.World().Bodies(), g2.World().Bodies()
	if len(b1) != len(b2) {
		t.Fatalf("body counts differ: %d vs %d", len(b1), len(b2))
	}
	for i := range b1 {
		if b1[i] != b2[i] {
			t.Fatalf("body %d differs: %+v vs %+v", i, b1[i], b2[i])
		}
	}
}

func TestConfirmStartsAttempt(t *testing.T) {
	g := New(config.Default(), testRuntime(1), nil)
	res := g.Step(frame(core.ActionConfirm))
	if res.Phase != director.PhaseRevealing {
		t.Fatalf("phase = %s, expected revealing", res.Phase)
	}
	if g.World().Len() != 0 {
		t.Error("nothing should spawn during the reveal")
	}

	if !runUntil(g, 60*4, func() bool { return g.Director().Phase() == director.PhaseActive }) {
		t.Fatal("reveal never ended")
	}
	if !runUntil(g, 60*3, func() bool { return g.World().Len() > 0 }) {
		t.Error("spawner launched nothing once active")
	}
}

func TestSliceFeedsDirector(t *testing.T) {
	g := New(config.Default(), testRuntime(2), nil)
	g.Step(frame(core.ActionConfirm))
	runUntil(g, 60*4, func() bool { return g.Director().Phase() == director.PhaseActive })

	// Place the tutorial recipe by hand so the test does not depend on spawn luck
	g.World().Clear()
	seq := g.Director().State().Goal.Sequence
	for i, k := range seq {
		g.World().Spawn(k, core.V(float64(i)*2-3, 0), core.Vec2{}, 0)
	}

	hits, verdicts := g.Slice(core.V(-8, 0), core.V(8, 0), 0.1)
	if len(hits) != len(seq) {
		t.Fatalf("hits = %d, expected %d", len(hits), len(seq))
	}
	for i, v := range verdicts {
		if !v.Accepted {
			t.Fatalf("verdict %d rejected: %+v", i, v)
		}
	}
	if g.Director().Phase() != director.PhaseWon {
		t.Errorf("phase = %s, expected won", g.Director().Phase())
	}
	if g.Slices() != len(seq) {
		t.Errorf("Slices() = %d, expected %d", g.Slices(), len(seq))
	}

	// Nothing reaches the director once resolved
	g.World().Spawn("Apple", core.V(0, 0), core.Vec2{}, 0)
	if hits, _ := g.Slice(core.V(-1, 0), core.V(1, 0), 0.1); hits != nil {
		t.Error("Slice() outside an active attempt should do nothing")
	}
}

func TestWrongSliceLosesAndRetries(t *testing.T) {
	g := New(config.Default(), testRuntime(3), nil)
	g.Step(frame(core.ActionConfirm))
	runUntil(g, 60*4, func() bool { return g.Director().Phase() == director.PhaseActive })
	goal := g.Director().State().Goal

	g.World().Clear()
	g.World().Spawn("Watermelon", core.V(0, 0), core.Vec2{}, 0)
	g.Slice(core.V(0, 0), core.V(0, 0), 0.1)
	if g.Director().Phase() != director.PhaseLost {
		t.Fatalf("phase = %s, expected lost", g.Director().Phase())
	}

	g.Step(frame(core.ActionConfirm)) // acknowledge loss
	g.Step(frame(core.ActionConfirm)) // retry
	st := g.Director().State()
	if st.Phase != director.PhaseRevealing || !st.Retry {
		t.Fatalf("phase=%s retry=%v, expected a revealing retry", st.Phase, st.Retry)
	}
	if !slices.Equal(st.Goal.Sequence, goal.Sequence) {
		t.Errorf("retry sequence = %v, expected %v", st.Goal.Sequence, goal.Sequence)
	}
}

func TestNewAttemptClearsWorld(t *testing.T) {
	g := New(config.Default(), testRuntime(4), nil)
	g.Step(frame(core.ActionConfirm))
	runUntil(g, 60*4, func() bool { return g.Director().Phase() == director.PhaseActive })
	g.World().Spawn("Watermelon", core.V(0, 0), core.Vec2{}, 0)
	g.Slice(core.V(0, 0), core.V(0, 0), 0.1)

	g.World().Spawn(catalog.Kind("Apple"), core.V(1, 1), core.Vec2{}, 0)
	g.Step(frame(core.ActionConfirm))
	g.Step(frame(core.ActionConfirm))
	if g.World().Len() != 0 {
		t.Errorf("World().Len() = %d, expected leftovers cleared on reveal", g.World().Len())
	}
}

func TestBackReturnsToMenu(t *testing.T) {
	g := New(config.Default(), testRuntime(5), nil)
	g.Step(frame(core.ActionConfirm))
	res := g.Step(frame(core.ActionBack))
	if res.Phase != director.PhaseIdle {
		t.Errorf("phase = %s, expected idle", res.Phase)
	}
	for i := 0; i < 60*6; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.Director().Phase() != director.PhaseIdle {
		t.Error("cancelled reveal must not activate later")
	}
}

func TestBladeMovesAndClamps(t *testing.T) {
	g := New(config.Default(), testRuntime(6), nil)
	start := g.Blade().Pos

	g.Step(frame(core.ActionRight, core.ActionUp))
	got := g.Blade().Pos
	if got.X != start.X+BladeStep || got.Y != start.Y+BladeStep {
		t.Errorf("blade at %v, expected %v moved by %.2f", got, start, BladeStep)
	}

	for i := 0; i < 100; i++ {
		g.Step(frame(core.ActionLeft))
	}
	if g.Blade().Pos.X != g.World().Bounds().MinX {
		t.Errorf("blade x = %.2f, expected clamp at %.2f", g.Blade().Pos.X, g.World().Bounds().MinX)
	}

	g.Step(frame(core.ActionSlice))
	if !g.Blade().Cutting {
		t.Error("Slice action should toggle cutting on")
	}
	g.SetCutting(false)
	if g.Blade().Cutting {
		t.Error("SetCutting(false) should stop cutting")
	}
}

func TestQuit(t *testing.T) {
	g := New(config.Default(), testRuntime(7), nil)
	if res := g.Step(frame(core.ActionQuit)); !res.Quit {
		t.Error("Quit action should be reported")
	}
	if g.Ticks() != 0 {
		t.Error("a quitting step should not advance the simulation")
	}
}

func TestTickAdvancesClock(t *testing.T) {
	g := New(config.Default(), testRuntime(8), nil)
	g.Tick(250 * time.Millisecond)
	g.Tick(250 * time.Millisecond)
	if g.Now() != 500*time.Millisecond {
		t.Errorf("Now() = %v, expected 500ms", g.Now())
	}
	if g.Seed() != 8 {
		t.Errorf("Seed() = %d, expected 8", g.Seed())
	}
}

func TestRender(t *testing.T) {
	g := New(config.Default(), testRuntime(9), nil)
	g.World().Spawn("Apple", core.V(0, 0), core.Vec2{}, 0)

	screen := core.NewScreen(33, 13)
	screen.Clear()
	g.Render(screen)

	x, y := g.ToScreen(core.V(0, 0), 33, 13)
	if x != 16 || y != 6 {
		t.Fatalf("ToScreen(origin) = (%d, %d), expected (16, 6)", x, y)
	}
	cell := screen.GetCell(x, y)
	// The blade starts at the center and is drawn over the fruit
	if cell.Rune != BladeChar {
		t.Errorf("center cell = %q, expected the blade", cell.Rune)
	}

	g.MoveBladeTo(core.V(-8, -6))
	screen.Clear()
	g.Render(screen)
	if cell := screen.GetCell(x, y); cell.Rune != '●' || cell.Color != core.ColorRed {
		t.Errorf("fruit cell = %+v, expected a red apple", cell)
	}

	p := g.ToWorld(x, y, 33, 13)
	if p.X != 0 || p.Y != 0 {
		t.Errorf("ToWorld(%d, %d) = %v, expected origin", x, y, p)
	}
}
