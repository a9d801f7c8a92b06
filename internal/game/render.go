package game

import (
	"math"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/core"
)

// Visual characters for rendering
const (
	BladeChar     = '+'
	BladeCutChar  = '*'
	TrailChar     = '·'
	UnknownGlyph  = '?'
	FloorChar     = '▁'
	trailSegments = 6
)

// ToScreen maps a world position onto a w x h cell grid, y flipped.
// Positions outside the play area map outside the grid.
func (g *Game) ToScreen(p core.Vec2, w, h int) (int, int) {
	b := g.world.Bounds()
	x := (p.X - b.MinX) / b.Width() * float64(w-1)
	y := (b.MaxY - p.Y) / b.Height() * float64(h-1)
	return int(math.Round(x)), int(math.Round(y))
}

// ToWorld maps a cell back to the world position of its center.
func (g *Game) ToWorld(x, y, w, h int) core.Vec2 {
	b := g.world.Bounds()
	wx := b.MinX + float64(x)/float64(max(w-1, 1))*b.Width()
	wy := b.MaxY - float64(y)/float64(max(h-1, 1))*b.Height()
	return core.V(wx, wy)
}

// Render draws the play field into dst. The screen is expected to be
// cleared by the caller.
func (g *Game) Render(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w < 2 || h < 2 {
		return
	}

	dst.DrawHLine(0, h-1, w, FloorChar, core.ColorGray)

	for _, body := range g.world.Visible() {
		x, y := g.ToScreen(body.Pos, w, h)
		glyph, color := g.Glyph(body.Kind)
		dst.SetColored(x, y, glyph, color)
	}

	g.renderBlade(dst, w, h)
}

func (g *Game) renderBlade(dst *core.Screen, w, h int) {
	bx, by := g.ToScreen(g.blade.Pos, w, h)
	if !g.blade.Cutting {
		dst.SetColored(bx, by, BladeChar, core.ColorWhite)
		return
	}

	// Short trail from the previous position
	px, py := g.ToScreen(g.blade.Prev, w, h)
	for i := 1; i < trailSegments; i++ {
		t := float64(i) / trailSegments
		x := px + int(math.Round(float64(bx-px)*t))
		y := py + int(math.Round(float64(by-py)*t))
		dst.SetColored(x, y, TrailChar, core.ColorCyan)
	}
	dst.SetColored(bx, by, BladeCutChar, core.ColorBrightYellow)
}

// Glyph returns the configured character and color for a kind.
func (g *Game) Glyph(kind catalog.Kind) (rune, core.Color) {
	def, ok := g.cfg.Catalog.Lookup(kind)
	if !ok || def.Glyph == "" {
		return UnknownGlyph, core.ColorWhite
	}
	return []rune(def.Glyph)[0], core.ParseColor(def.Color)
}
