package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/game"
	"github.com/vovakirdan/fruit-slice/internal/platform/tui"
)

var flagLogFile string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start the game in the terminal.

A recipe is shown for a few seconds, then fruit starts flying. Slice the
fruit the recipe asked for. From level 1 on the order matters and the
recipe is hidden while you play.

Controls:
  Arrows/hjkl/wasd  - Move the blade
  Space             - Toggle the blade (sweeping cuts everything it touches)
  Mouse drag        - Move the blade while cutting
  Enter             - Start, continue or retry
  Esc/B             - Back to the menu
  Tab               - Attempt history (from the menu)
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower, smaller bursts and longer reveals
  normal - The configured values
  hard   - Faster, bigger bursts and shorter reveals
  fixed  - No adaptive steering toward needed fruit

Examples:
  slicer play
  slicer play --difficulty hard
  slicer play --config ./my-slicer.yaml --log-file slicer.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write game logs to this file (the terminal is busy)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logging to stderr would tear the alternate screen
	gameLogger := log.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		gameLogger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "slicer"})
		gameLogger.SetLevel(logger.GetLevel())
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	g := game.New(cfg, rt, gameLogger)
	gameLogger.Info("starting", "seed", g.Seed(), "difficulty", flagDifficulty)

	store := openStore()
	runErr := tui.Run(g, store, rt, gameLogger)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
