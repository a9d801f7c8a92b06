// slicer is a terminal fruit slicing memory game.
//
// Usage:
//
//	slicer play              - Play in the terminal
//	slicer sim               - Run a scripted player headless
//	slicer history           - Show recorded attempts
//	slicer kinds             - List fruit kinds and weights
//	slicer config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.slicer/slicer.db)
//	--config <path>       - Use a custom YAML config
//	--difficulty <name>   - easy, normal, hard or fixed
//	--verbose             - Debug logging
//
// SLICER_CONFIG, SLICER_DB, SLICER_SEED and SLICER_PRESET (also read from
// a .env file) fill in any flag that is not given.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slicer",
	Short: "Fruit Slice - a memory game for your terminal",
	Long: `Fruit Slice shows you a recipe of fruit, hides it, then throws fruit
at you. Slice exactly what the recipe asked for to move on.

Available commands:
  play     - Play in the terminal
  sim      - Run a scripted player headless
  history  - Show recorded attempts
  kinds    - List fruit kinds and weights
  config   - Print the effective configuration

Examples:
  slicer play
  slicer play --difficulty easy
  slicer sim --attempts 20 --accuracy 0.8
  slicer history --levels`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(configCmd)
}

// setup builds the logger and fills unset flags from the environment.
func setup(cmd *cobra.Command, _ []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "slicer",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("config") && env.ConfigPath != "" {
		flagConfig = env.ConfigPath
	}
	if !flags.Changed("db") && env.DBPath != "" {
		flagDBPath = env.DBPath
	}
	if !flags.Changed("seed") && env.Seed != 0 {
		flagSeed = env.Seed
	}
	if !flags.Changed("difficulty") && env.Preset != "" {
		flagDifficulty = env.Preset
	}
	return nil
}

// loadGameConfig loads the config and applies the difficulty preset.
// Validation problems are logged; the affected components degrade on
// their own.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.GameConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)

	for _, problem := range cfg.Validate() {
		logger.Warn("config problem", "err", problem)
	}
	logger.Debug("config loaded", "path", flagConfig, "difficulty", preset)
	return cfg, nil
}

// openStore opens the history database. A failure is logged and returns
// nil; play goes on without history.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}
