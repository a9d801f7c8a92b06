package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/storage"
)

// History layout constants
const (
	maxAttempts    = 100 // Max attempts to load
	historyChrome  = 8   // Rows used by title, tabs, borders and help
	reasonColWidth = 28
)

// HistoryView selects which table is shown.
type HistoryView int

const (
	ViewRecent HistoryView = iota
	ViewLevels
)

// String returns the tab title.
func (v HistoryView) String() string {
	if v == ViewLevels {
		return "Levels"
	}
	return "Recent"
}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	Reload   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Reload, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView},
		{k.Reload, k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "recent/levels"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the attempt history screen.
// It runs standalone (RunHistory) or embedded in the play model.
type HistoryModel struct {
	store    *storage.Store
	view     HistoryView
	attempts []storage.AttemptRecord
	stats    []storage.LevelStat
	loadErr  error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	embedded bool // Back and quit return control instead of exiting

	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a history model and loads the current history.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.reload()
	return m
}

// reload queries the store and rebuilds the table for the current view.
func (m *HistoryModel) reload() {
	m.attempts, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		m.attempts, m.loadErr = m.store.RecentAttempts(maxAttempts)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.LevelStats()
		}
	}
	m.table = m.createTable()
}

// createTable creates a table with columns and rows for the current view.
func (m *HistoryModel) createTable() table.Model {
	var (
		columns []table.Column
		rows    []table.Row
	)

	switch m.view {
	case ViewLevels:
		columns = []table.Column{
			{Title: "Level", Width: 6},
			{Title: "Attempts", Width: 9},
			{Title: "Wins", Width: 6},
			{Title: "Losses", Width: 7},
			{Title: "Best", Width: 8},
		}
		rows = levelRows(m.stats)
	default:
		reasonWidth := reasonColWidth
		if m.width > 0 {
			// Fixed columns plus cell padding take about 62 cells
			reasonWidth = core.Clamp(m.width-62, 10, 60)
		}
		columns = []table.Column{
			{Title: "Date", Width: 13},
			{Title: "Level", Width: 6},
			{Title: "Mode", Width: 10},
			{Title: "Outcome", Width: 10},
			{Title: "Slices", Width: 7},
			{Title: "Time", Width: 7},
			{Title: "Reason", Width: reasonWidth},
		}
		rows = attemptRows(m.attempts)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-historyChrome, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func attemptRows(attempts []storage.AttemptRecord) []table.Row {
	rows := make([]table.Row, len(attempts))
	for i, a := range attempts {
		outcome := a.Outcome
		if a.Retry {
			outcome += " (r)"
		}
		rows[i] = table.Row{
			a.CreatedAt.Local().Format("Jan 02 15:04"),
			fmt.Sprintf("%d", a.Level),
			a.Mode,
			outcome,
			fmt.Sprintf("%d", a.Slices),
			formatSeconds(a.Duration.Seconds()),
			a.Reason,
		}
	}
	return rows
}

func levelRows(stats []storage.LevelStat) []table.Row {
	rows := make([]table.Row, len(stats))
	for i, s := range stats {
		best := "-"
		if s.Best > 0 {
			best = formatSeconds(s.Best.Seconds())
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", s.Level),
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%d", s.Losses),
			best,
		}
	}
	return rows
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.1fs", s)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % 2
			m.table = m.createTable()
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if !m.embedded && (m.quitting || m.goingBack) {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText("ATTEMPT HISTORY", m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m HistoryModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, 0, 2)
	for _, v := range []HistoryView{ViewRecent, ViewLevels} {
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(v.String()))
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is unavailable.\nThe database could not be opened.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load history:\n" + m.loadErr.Error())
	case len(m.table.Rows()) == 0:
		return emptyStyle.Render("No attempts recorded yet.\nFinish an attempt to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// CurrentView returns the selected table.
func (m HistoryModel) CurrentView() HistoryView {
	return m.view
}

// RunHistory runs the history screen as its own program.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// centerText pads text so it sits in the middle of width cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if width <= w {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
