// Package core provides fundamental types and utilities shared by the game
// packages. It contains no external dependencies (especially no Bubble Tea)
// to keep game logic pure and testable.
package core

import "math"

// Vec2 is a point or vector in world space.
// World Y grows upward: spawn points sit near the bottom and fruit is
// launched with a positive Y impulse.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// SegmentDistance returns the shortest distance from p to the segment a-b.
// A degenerate segment (a == b) is treated as a point.
func SegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Sub(a).Len()
	}
	t := ClampF(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	closest := a.Add(ab.Scale(t))
	return p.Sub(closest).Len()
}

// Bounds is an axis-aligned region of world space.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the vertical extent.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// CenterX returns the horizontal center of the region.
func (b Bounds) CenterX() float64 {
	return (b.MinX + b.MaxX) / 2
}

// Contains returns true if p lies inside the region (edges inclusive).
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Rect represents an axis-aligned box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// RandRange returns a value drawn uniformly from [lo, hi].
// Swapped bounds are tolerated; equal bounds return lo.
func RandRange(r interface{ Float64() float64 }, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Float64()*(hi-lo)
}

// RandInt returns an integer drawn uniformly from [lo, hi] inclusive.
func RandInt(r interface{ Intn(int) int }, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.Intn(hi-lo+1)
}
