// Package world is a minimal ballistic simulation for launched fruit.
// Bodies have unit mass, so a launch impulse becomes the initial velocity
// and a torque impulse becomes the spin rate.
package world

import (
	"time"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/spawner"
)

// Body is a single airborne fruit.
type Body struct {
	ID    spawner.EntityID
	Kind  catalog.Kind
	Pos   core.Vec2 // World units, y up
	Vel   core.Vec2 // Units per second
	Angle float64   // Degrees
	Spin  float64   // Degrees per second
}

// World holds every live body. It implements spawner.World.
type World struct {
	gravity float64
	radius  float64
	bounds  core.Bounds

	next   spawner.EntityID
	bodies map[spawner.EntityID]*Body
	order  []spawner.EntityID // Spawn order, for deterministic iteration
}

var _ spawner.World = (*World)(nil)

// New creates an empty world.
func New(cfg config.WorldConfig) *World {
	return &World{
		gravity: cfg.Gravity,
		radius:  cfg.FruitRadius,
		bounds:  cfg.Bounds(),
		bodies:  make(map[spawner.EntityID]*Body),
	}
}

// Spawn adds a body at pos moving with the given impulse.
func (w *World) Spawn(kind catalog.Kind, pos, impulse core.Vec2, torque float64) spawner.EntityID {
	w.next++
	id := w.next
	w.bodies[id] = &Body{
		ID:   id,
		Kind: kind,
		Pos:  pos,
		Vel:  impulse,
		Spin: torque,
	}
	w.order = append(w.order, id)
	return id
}

// Position returns the body position, or false if it no longer exists.
func (w *World) Position(id spawner.EntityID) (core.Vec2, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return core.Vec2{}, false
	}
	return b.Pos, true
}

// Despawn removes a body. Unknown ids are ignored.
func (w *World) Despawn(id spawner.EntityID) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Step integrates every body forward by dt (semi-implicit Euler).
func (w *World) Step(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	for _, id := range w.order {
		b := w.bodies[id]
		b.Vel.Y -= w.gravity * sec
		b.Pos = b.Pos.Add(b.Vel.Scale(sec))
		b.Angle += b.Spin * sec
	}
}

// SliceSegment removes and returns every body touched by a blade swept
// from a to b. The blade is treated as a capsule of the given radius.
// Hits are returned in spawn order.
func (w *World) SliceSegment(a, b core.Vec2, radius float64) []Body {
	var hits []Body
	reach := radius + w.radius
	for _, id := range w.order {
		body := w.bodies[id]
		if core.SegmentDistance(body.Pos, a, b) <= reach {
			hits = append(hits, *body)
		}
	}
	for _, h := range hits {
		w.Despawn(h.ID)
	}
	return hits
}

// Bodies returns a snapshot of all bodies in spawn order.
func (w *World) Bodies() []Body {
	out := make([]Body, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, *w.bodies[id])
	}
	return out
}

// Visible returns the bodies inside the play area.
func (w *World) Visible() []Body {
	var out []Body
	for _, id := range w.order {
		if b := w.bodies[id]; w.bounds.Contains(b.Pos) {
			out = append(out, *b)
		}
	}
	return out
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return len(w.order)
}

// Bounds returns the visible play area.
func (w *World) Bounds() core.Bounds {
	return w.bounds
}

// FruitRadius returns the collision radius of every body.
func (w *World) FruitRadius() float64 {
	return w.radius
}

// Clear removes every body.
func (w *World) Clear() {
	clear(w.bodies)
	w.order = w.order[:0]
}
