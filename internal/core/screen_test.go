package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, '●', ColorRed)
	cell := s.GetCell(5, 5)
	if cell.Rune != '●' || cell.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red ●", cell)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(12, 3)
	s.DrawText(1, 1, "Apple×1")

	row := s.Row(1)
	if !strings.HasPrefix(row, " Apple×1") {
		t.Errorf("Row(1) = %q, expected text at column 1", row)
	}

	// Clipped at the right edge
	s.DrawText(8, 0, "Strawberry")
	if got := s.Row(0); got != "        Stra" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorGray)

	expected := []string{
		"┌───┐",
		"│   │",
		"│   │",
		"└───┘",
	}
	for y, want := range expected {
		if got := s.Row(y); got != want {
			t.Errorf("Row(%d) = %q, expected %q", y, got, want)
		}
	}
}

func TestScreenResizeAndClear(t *testing.T) {
	s := NewScreen(4, 2)
	s.DrawText(0, 0, "XXXX")
	s.Clear()
	if s.Row(0) != "    " {
		t.Errorf("Clear() left %q", s.Row(0))
	}

	s.Resize(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Errorf("Resize() = %dx%d, expected 6x3", s.Width(), s.Height())
	}
	if lines := strings.Split(s.String(), "\n"); len(lines) != 3 {
		t.Errorf("String() has %d lines, expected 3", len(lines))
	}
}
