package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestVecArithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(3, -1)

	if got := a.Add(b); got != V(4, 1) {
		t.Errorf("Add() = %v, expected (4, 1)", got)
	}
	if got := a.Sub(b); got != V(-2, 3) {
		t.Errorf("Sub() = %v, expected (-2, 3)", got)
	}
	if got := a.Scale(2); got != V(2, 4) {
		t.Errorf("Scale() = %v, expected (2, 4)", got)
	}
	if got := V(3, 4).Len(); got != 5 {
		t.Errorf("Len() = %f, expected 5", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name     string
		p, a, b  Vec2
		expected float64
	}{
		{"on segment", V(1, 0), V(0, 0), V(2, 0), 0},
		{"above middle", V(1, 3), V(0, 0), V(2, 0), 3},
		{"past end", V(5, 0), V(0, 0), V(2, 0), 3},
		{"before start", V(-3, 4), V(0, 0), V(2, 0), 5},
		{"degenerate segment", V(3, 4), V(0, 0), V(0, 0), 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SegmentDistance(tc.p, tc.a, tc.b)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("SegmentDistance() = %f, expected %f", got, tc.expected)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	b := Bounds{MinX: -8, MinY: -5, MaxX: 8, MaxY: 10}

	if b.Width() != 16 {
		t.Errorf("Width() = %f, expected 16", b.Width())
	}
	if b.Height() != 15 {
		t.Errorf("Height() = %f, expected 15", b.Height())
	}
	if b.CenterX() != 0 {
		t.Errorf("CenterX() = %f, expected 0", b.CenterX())
	}
	if !b.Contains(V(8, 10)) {
		t.Error("Contains() should include the max corner")
	}
	if b.Contains(V(0, -6)) {
		t.Error("Contains() should exclude points below MinY")
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}

	if ClampF(-5.5, 0, 10) != 0 || ClampF(15.5, 0, 10) != 10 || ClampF(5.5, 0, 10) != 5.5 {
		t.Error("ClampF should clamp to [0, 10]")
	}
}

func TestRandRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		f := RandRange(rng, 14, 20)
		if f < 14 || f > 20 {
			t.Fatalf("RandRange() = %f, outside [14, 20]", f)
		}
		swapped := RandRange(rng, 3, -3)
		if swapped < -3 || swapped > 3 {
			t.Fatalf("RandRange() with swapped bounds = %f, outside [-3, 3]", swapped)
		}
		n := RandInt(rng, 1, 3)
		if n < 1 || n > 3 {
			t.Fatalf("RandInt() = %d, outside [1, 3]", n)
		}
	}

	if RandInt(rng, 4, 4) != 4 {
		t.Error("RandInt() with equal bounds should return the bound")
	}
}
