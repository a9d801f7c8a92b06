package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruit-slice/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"vim k", runeKey('k'), core.ActionUp, false},
		{"wasd s", runeKey('s'), core.ActionDown, false},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"vim l", runeKey('l'), core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionSlice, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack, false},
		{"b", runeKey('b'), core.ActionBack, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey('h'), &frame) {
		t.Error("h should not quit")
	}
	if km.MapKeyToFrame(runeKey('z'), &frame) {
		t.Error("unbound key should not quit")
	}
	if !frame.Has(core.ActionLeft) {
		t.Error("Expected ActionLeft in frame")
	}
	if len(frame.Actions) != 1 {
		t.Errorf("Expected exactly one action, got %v", frame.Actions)
	}
	if !km.MapKeyToFrame(runeKey('q'), &frame) {
		t.Error("q should quit")
	}
}

func TestHelpBindingsHaveText(t *testing.T) {
	keys := DefaultGameKeyMap()
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Errorf("binding %v has no help text", b.Keys())
			}
		}
	}
	if len(keys.ShortHelp()) == 0 {
		t.Error("ShortHelp is empty")
	}
}
