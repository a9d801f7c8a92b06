package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-slice/internal/autoplay"
	"github.com/vovakirdan/fruit-slice/internal/director"
	"github.com/vovakirdan/fruit-slice/internal/storage"
)

var (
	flagAttempts int
	flagAccuracy float64
	flagReaction time.Duration
	flagTimeout  time.Duration
	flagNoRecord bool
	flagSimOut   string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a scripted player headless",
	Long: `Play attempts with a scripted player on a virtual clock, as fast as the
CPU allows. Useful to check pacing and progression settings.

The player goes for a needed fruit with probability --accuracy and slices
a random visible fruit otherwise. Attempts are recorded in the history
database unless --no-record is given.

Examples:
  slicer sim
  slicer sim --attempts 50 --accuracy 0.75 --seed 42
  slicer sim --difficulty hard -o json`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	def := autoplay.DefaultOptions()
	simCmd.Flags().IntVarP(&flagAttempts, "attempts", "n", def.Attempts, "Attempts to play")
	simCmd.Flags().Float64Var(&flagAccuracy, "accuracy", def.Accuracy, "Chance of going for a needed fruit, 0..1")
	simCmd.Flags().DurationVar(&flagReaction, "reaction", def.Reaction, "Minimum time between slices")
	simCmd.Flags().DurationVar(&flagTimeout, "timeout", def.Timeout, "Abandon an attempt after this much play time")
	simCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not write attempts to the history database")
	simCmd.Flags().StringVarP(&flagSimOut, "output", "o", formatTable, "Output format (table, json, yaml)")
}

// simResult is the serialized form of one attempt.
type simResult struct {
	Attempt int     `json:"attempt" yaml:"attempt"`
	Level   int     `json:"level" yaml:"level"`
	Mode    string  `json:"mode" yaml:"mode"`
	Outcome string  `json:"outcome" yaml:"outcome"`
	Reason  string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Slices  int     `json:"slices" yaml:"slices"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
	Retry   bool    `json:"retry" yaml:"retry"`
}

type simSummary struct {
	Seed         int64       `json:"seed" yaml:"seed"`
	Attempts     []simResult `json:"attempts" yaml:"attempts"`
	Wins         int         `json:"wins" yaml:"wins"`
	Losses       int         `json:"losses" yaml:"losses"`
	Abandoned    int         `json:"abandoned" yaml:"abandoned"`
	Clears       int         `json:"clears" yaml:"clears"`
	HighestLevel int         `json:"highest_level" yaml:"highest_level"`
	Spawned      int         `json:"spawned" yaml:"spawned"`
	Recorded     int         `json:"recorded" yaml:"recorded"`
}

func runSim(_ *cobra.Command, _ []string) {
	if err := simulate(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// simulate plays the attempts and writes the report to w. The history
// store, when opened, is closed before it returns.
func simulate(w io.Writer) error {
	if err := checkFormat(flagSimOut); err != nil {
		return err
	}
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	opts := autoplay.DefaultOptions()
	opts.Attempts = flagAttempts
	opts.Accuracy = flagAccuracy
	opts.Reaction = flagReaction
	opts.Timeout = flagTimeout
	opts.TickRate = flagFPS

	runner := autoplay.New(cfg, flagSeed, opts, logger.WithPrefix("sim"))

	var recorder *storage.Recorder
	if !flagNoRecord {
		if store := openStore(); store != nil {
			defer store.Close()
			recorder = storage.NewRecorder(store, logger.WithPrefix("storage"))
			recorder.Attach(runner.Game().Director())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	rep, runErr := runner.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	logger.Debug("sim finished", "wall", time.Since(start), "attempts", len(rep.Results))

	summary := summarize(rep, runner.Game().Seed())
	if recorder != nil {
		summary.Recorded = recorder.Saved()
		if n := recorder.Failed(); n > 0 {
			logger.Warn("some attempts were not recorded", "failed", n)
		}
	}

	if flagSimOut != formatTable {
		return writeStructured(w, flagSimOut, summary)
	}
	printSimTable(w, summary, runErr != nil)
	return nil
}

func summarize(rep autoplay.Report, seed int64) simSummary {
	s := simSummary{
		Seed:         seed,
		Wins:         rep.Wins,
		Losses:       rep.Losses,
		Abandoned:    rep.Abandoned,
		Clears:       rep.Clears,
		HighestLevel: rep.HighestLevel,
		Spawned:      rep.Spawned,
	}
	for _, r := range rep.Results {
		s.Attempts = append(s.Attempts, simResult{
			Attempt: r.Attempt,
			Level:   r.Level,
			Mode:    r.Mode.String(),
			Outcome: resultOutcome(r),
			Reason:  r.Reason,
			Slices:  r.Slices,
			Seconds: r.Duration.Seconds(),
			Retry:   r.Retry,
		})
	}
	return s
}

func resultOutcome(r autoplay.Result) string {
	if r.Abandoned {
		return storage.OutcomeAbandoned
	}
	switch r.Outcome {
	case director.PhaseWon:
		return storage.OutcomeWon
	case director.PhaseLost:
		return storage.OutcomeLost
	case director.PhaseCleared:
		return storage.OutcomeCleared
	default:
		return r.Outcome.String()
	}
}

func printSimTable(w io.Writer, s simSummary, interrupted bool) {
	rows := make([][]string, 0, len(s.Attempts))
	for _, a := range s.Attempts {
		outcome := a.Outcome
		if a.Retry {
			outcome += " (retry)"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.Attempt),
			fmt.Sprintf("%d", a.Level),
			a.Mode,
			outcome,
			fmt.Sprintf("%d", a.Slices),
			fmt.Sprintf("%.1fs", a.Seconds),
			a.Reason,
		})
	}

	fmt.Fprintf(w, "Simulation - seed %d\n\n", s.Seed)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No attempts played.")
		return
	}
	fmt.Fprintln(w, renderTable([]string{"#", "Level", "Mode", "Outcome", "Slices", "Time", "Reason"}, rows))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Wins: %d  Losses: %d  Abandoned: %d  Clears: %d\n", s.Wins, s.Losses, s.Abandoned, s.Clears)
	fmt.Fprintf(w, "Highest level: %d  Fruit spawned: %d\n", s.HighestLevel, s.Spawned)
	if s.Recorded > 0 {
		fmt.Fprintf(w, "Recorded %d attempts to %s\n", s.Recorded, flagDBPath)
	}
	if interrupted {
		fmt.Fprintln(w, "Interrupted.")
	}
}
