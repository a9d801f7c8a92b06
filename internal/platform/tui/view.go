package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/director"
	"github.com/vovakirdan/fruit-slice/internal/level"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3).
			Align(lipgloss.Center)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	goodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
	badStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHistory {
		return m.history.View()
	}

	st := m.game.Director().State()
	helpLine := dimStyle.Render(m.help.View(m.keyMapper.Keys()))

	if st.Phase == director.PhaseActive {
		m.screen.Clear()
		m.game.Render(m.screen)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.hudLine(st),
			RenderScreen(m.screen),
			helpLine,
		)
	}

	var panel string
	switch {
	case st.Phase == director.PhaseRevealing:
		panel = m.revealPanel(st)
	case st.Phase.Resolved():
		panel = m.resultPanel(st)
	default:
		panel = m.menuPanel()
	}
	body := lipgloss.Place(m.config.ScreenW, max(m.config.ScreenH-1, 1),
		lipgloss.Center, lipgloss.Center, panel)
	return lipgloss.JoinVertical(lipgloss.Left, body, helpLine)
}

// levelName labels a level for display.
func levelName(lvl int) string {
	if lvl <= 0 {
		return "Tutorial"
	}
	return fmt.Sprintf("Level %d", lvl)
}

func (m Model) menuPanel() string {
	sess := m.game.Director().Session()

	var b strings.Builder
	b.WriteString(titleStyle.Render("FRUIT SLICE"))
	b.WriteString("\n\n")

	next := levelName(sess.Level)
	if _, retry := sess.Retry.Get(); retry {
		next += " (retry)"
	}
	b.WriteString("Next: " + next + "\n")
	if m.hasBest {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Best: %s", levelName(m.bestLevel))) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Memorize the recipe, then slice it."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter to start"))

	return panelStyle.Render(b.String())
}

func (m Model) revealPanel(st director.AttemptState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(levelName(st.Level)))
	if st.Retry {
		b.WriteString(dimStyle.Render("  retry"))
	}
	b.WriteString("\n\n")

	rule := "Slice in any order"
	if st.Goal.OrderEnforced {
		rule = "Slice in this order"
	}
	b.WriteString(rule + ":\n\n")
	b.WriteString(strings.Join(m.recipeLines(st.Goal), "\n"))

	return panelStyle.Render(b.String())
}

// recipeLines lists the recipe. The tutorial groups runs with their
// counts; later levels list every slice so the order can be memorized.
func (m Model) recipeLines(g level.Goal) []string {
	var lines []string
	switch {
	case !g.OrderEnforced:
		for _, k := range g.Kinds() {
			lines = append(lines, fmt.Sprintf("%d × %s", g.Required[k], m.fruitLabel(k)))
		}
	case g.Mode == level.ModeTutorial:
		for _, r := range runs(g.Sequence) {
			lines = append(lines, fmt.Sprintf("%d × %s", r.count, m.fruitLabel(r.kind)))
		}
	default:
		for i, k := range g.Sequence {
			lines = append(lines, fmt.Sprintf("%2d. %s", i+1, m.fruitLabel(k)))
		}
	}
	return lines
}

type run struct {
	kind  catalog.Kind
	count int
}

// runs groups consecutive equal kinds.
func runs(seq []catalog.Kind) []run {
	var out []run
	for _, k := range seq {
		if n := len(out); n > 0 && out[n-1].kind == k {
			out[n-1].count++
			continue
		}
		out = append(out, run{kind: k, count: 1})
	}
	return out
}

// fruitLabel renders a kind with its colored glyph.
func (m Model) fruitLabel(k catalog.Kind) string {
	glyph, color := m.game.Glyph(k)
	return styleFor(color).Render(string(glyph)) + " " + string(k)
}

// hudLine is the status bar above the play field. Recipe progress is only
// shown in the tutorial; later levels are played from memory.
func (m Model) hudLine(st director.AttemptState) string {
	parts := []string{levelName(st.Level)}
	if st.Goal.Mode == level.ModeTutorial {
		for _, k := range st.Goal.Kinds() {
			parts = append(parts, fmt.Sprintf("%s %d/%d", k, st.Sliced[k], st.Goal.Required[k]))
		}
		if next, ok := st.NextExpected(); ok {
			parts = append(parts, "next: "+string(next))
		}
	}
	if m.game.Blade().Cutting {
		parts = append(parts, "blade on")
	}
	if m.flash != "" {
		parts = append(parts, m.flash)
	}
	return hudStyle.Render(fitLine(" "+strings.Join(parts, "  ·  "), m.config.ScreenW))
}

func (m Model) resultPanel(st director.AttemptState) string {
	var b strings.Builder
	done, total := st.Progress()

	switch {
	case st.Summary:
		b.WriteString(titleStyle.Render("TUTORIAL COMPLETE"))
		b.WriteString("\n\n")
		if st.Violation != nil {
			b.WriteString(badStyle.Render(st.Violation.Reason()) + "\n")
		} else {
			b.WriteString(goodStyle.Render("All fruit sliced!") + "\n")
		}
		b.WriteString(fmt.Sprintf("%d of %d slices\n\n", done, total))
		b.WriteString(dimStyle.Render("enter to start Level 1"))

	case st.Phase == director.PhaseCleared:
		b.WriteString(goodStyle.Render("ALL LEVELS CLEARED"))
		b.WriteString("\n\n")
		b.WriteString("You remembered every recipe.\n\n")
		b.WriteString(dimStyle.Render("enter to play again from the tutorial"))

	case st.Phase == director.PhaseWon:
		b.WriteString(goodStyle.Render("RECIPE COMPLETE"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s: %d slices\n\n", levelName(st.Level), total))
		b.WriteString(dimStyle.Render("enter for " + levelName(st.Level+1)))

	default:
		b.WriteString(badStyle.Render("WRONG SLICE"))
		b.WriteString("\n\n")
		if st.Violation != nil {
			b.WriteString(st.Violation.Reason() + "\n")
		}
		b.WriteString(fmt.Sprintf("%d of %d slices\n\n", done, total))
		b.WriteString(dimStyle.Render("enter to retry the same recipe"))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("esc for menu"))
	return panelStyle.Render(b.String())
}

// fitLine pads or cuts text to exactly width cells.
func fitLine(text string, width int) string {
	if width <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) > width {
		return string(r[:width])
	}
	return text + strings.Repeat(" ", width-len(r))
}
