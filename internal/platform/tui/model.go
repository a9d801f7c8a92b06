package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/director"
	"github.com/vovakirdan/fruit-slice/internal/game"
	"github.com/vovakirdan/fruit-slice/internal/storage"
)

// Rows taken by the HUD line and the help line around the play field.
const chromeRows = 2

// Model is the Bubble Tea model for running the slicer.
type Model struct {
	game       *game.Game
	screen     *core.Screen
	store      *storage.Store
	recorder   *storage.Recorder
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	help       help.Model
	logger     *log.Logger

	history     HistoryModel
	showHistory bool

	lastPhase director.Phase
	bestLevel int
	hasBest   bool
	flash     string // Feedback for the most recent slice
	quitting  bool
}

// NewModel creates a new Bubble Tea model for the given game. A nil store
// disables history; the game still works.
func NewModel(g *game.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}

	m := Model{
		game:       g,
		screen:     core.NewScreen(cfg.ScreenW, fieldHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		logger:     logger,
		lastPhase:  g.Director().Phase(),
	}
	m.help.Width = cfg.ScreenW

	if store != nil {
		m.recorder = storage.NewRecorder(store, logger.WithPrefix("storage"))
		m.recorder.Attach(g.Director())
		m.refreshBest()
	}
	return m
}

func fieldHeight(screenH int) int {
	return max(screenH-chromeRows, 2)
}

// refreshBest reloads the best won level from history.
func (m *Model) refreshBest() {
	if m.store == nil {
		return
	}
	lvl, ok, err := m.store.BestLevel()
	if err != nil {
		m.logger.Warn("failed to read best level", "err", err)
		return
	}
	m.bestLevel, m.hasBest = lvl, ok
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showHistory {
		if _, ok := msg.(TickMsg); !ok {
			return m.updateHistory(msg)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "err", err)
		} else {
			m.flash = "saved " + path
		}
		return m, nil

	case key.Matches(msg, keys.History):
		if m.game.Director().Phase() == director.PhaseIdle {
			m.history = NewHistoryModel(m.store, m.config.ScreenW, m.config.ScreenH)
			m.history.embedded = true
			m.showHistory = true
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		next, _ := m.handleResize(size)
		m = next.(Model)
	}
	updated, cmd := m.history.Update(msg)
	m.history = updated.(HistoryModel)
	switch {
	case m.history.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.history.IsGoingBack():
		m.showHistory = false
	}
	return m, cmd
}

// handleMouse drives the blade: press starts cutting, drag sweeps and
// release stops.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p, ok := m.mouseToWorld(msg.X, msg.Y)
	if !ok {
		if msg.Action == tea.MouseActionRelease {
			m.game.SetCutting(false)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.game.MoveBladeTo(p)
		m.game.SetCutting(true)
	case tea.MouseActionMotion:
		m.game.MoveBladeTo(p)
	case tea.MouseActionRelease:
		m.game.MoveBladeTo(p)
		m.game.SetCutting(false)
	}
	return m, nil
}

// mouseToWorld maps a terminal cell to the play field. The HUD occupies
// the first row.
func (m Model) mouseToWorld(x, y int) (core.Vec2, bool) {
	w, h := m.screen.Width(), m.screen.Height()
	fy := y - 1
	if x < 0 || x >= w || fy < 0 || fy >= h {
		return core.Vec2{}, false
	}
	return m.game.ToWorld(x, fy, w, h), true
}

// handleResize processes window resize events. The world is resolution
// independent, so nothing is reset.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, fieldHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	res := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	if res.Quit {
		m.quitting = true
		return m, tea.Quit
	}

	// Verdicts line up with the leading hits of the sweep
	for i, v := range res.Verdicts {
		m.flash = verdictText(v, res.Hits[i].Kind)
	}

	phase := m.game.Director().Phase()
	if phase != m.lastPhase {
		if phase == director.PhaseRevealing || phase == director.PhaseIdle {
			m.flash = ""
		}
		if phase.Resolved() {
			m.refreshBest()
		}
		m.lastPhase = phase
	}

	return m, tickCmd(m.config.TickRate)
}

// verdictText describes one slice verdict.
func verdictText(v director.Verdict, kind catalog.Kind) string {
	switch {
	case v.Violation != nil:
		return v.Violation.Reason()
	case v.Phase == director.PhaseWon || v.Phase == director.PhaseCleared:
		return "Recipe complete!"
	default:
		return "Sliced " + string(kind)
	}
}

// saveScreenshot writes the current play field to a text file.
func (m *Model) saveScreenshot() (string, error) {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".slicer", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("slicer_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Game returns the game being played.
func (m Model) Game() *game.Game {
	return m.game
}

// Flash returns the current slice feedback line.
func (m Model) Flash() string {
	return m.flash
}

// ShowingHistory reports whether the history screen is open.
func (m Model) ShowingHistory() bool {
	return m.showHistory
}

// Run starts the Bubble Tea program for g.
func Run(g *game.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(g, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
