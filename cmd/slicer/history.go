package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/fruit-slice/internal/platform/tui"
	"github.com/vovakirdan/fruit-slice/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryLevel bool
	flagHistoryClear bool
	flagHistoryTUI   bool
	flagHistoryOut   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded attempts",
	Long: `Display recent attempts, or per-level statistics with --levels.

History is only a record. Progress always starts from the tutorial.

Examples:
  slicer history
  slicer history --limit 50
  slicer history --levels
  slicer history -i
  slicer history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of attempts to show")
	historyCmd.Flags().BoolVar(&flagHistoryLevel, "levels", false, "Show per-level statistics")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded attempts")
	historyCmd.Flags().BoolVarP(&flagHistoryTUI, "interactive", "i", false, "Browse history in a table")
	historyCmd.Flags().StringVarP(&flagHistoryOut, "output", "o", formatTable, "Output format (table, json, yaml)")
}

// attemptOut is the serialized form of a recorded attempt.
type attemptOut struct {
	ID       string    `json:"id" yaml:"id"`
	Level    int       `json:"level" yaml:"level"`
	Mode     string    `json:"mode" yaml:"mode"`
	Outcome  string    `json:"outcome" yaml:"outcome"`
	Reason   string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Sequence []string  `json:"sequence" yaml:"sequence,flow"`
	Slices   int       `json:"slices" yaml:"slices"`
	Seconds  float64   `json:"seconds" yaml:"seconds"`
	Retry    bool      `json:"retry" yaml:"retry"`
	At       time.Time `json:"at" yaml:"at"`
}

type levelOut struct {
	Level       int     `json:"level" yaml:"level"`
	Attempts    int     `json:"attempts" yaml:"attempts"`
	Wins        int     `json:"wins" yaml:"wins"`
	Losses      int     `json:"losses" yaml:"losses"`
	BestSeconds float64 `json:"best_seconds,omitempty" yaml:"best_seconds,omitempty"`
}

func runHistory(_ *cobra.Command, _ []string) {
	if err := checkFormat(flagHistoryOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	err = showHistory(os.Stdout, store)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// showHistory runs the selected history action against an open store.
func showHistory(w io.Writer, store *storage.Store) error {
	switch {
	case flagHistoryClear:
		n, err := store.ClearHistory()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Deleted %d attempts.\n", n)
		return nil

	case flagHistoryTUI:
		width, height := 80, 24
		if tw, th, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = tw, th
		}
		return tui.RunHistory(store, width, height)

	case flagHistoryLevel:
		return wrapHistoryErr(printLevelStats(w, store))

	default:
		return wrapHistoryErr(printRecent(w, store))
	}
}

func wrapHistoryErr(err error) error {
	if err != nil {
		return fmt.Errorf("retrieving history: %w", err)
	}
	return nil
}

func printRecent(w io.Writer, store *storage.Store) error {
	recs, err := store.RecentAttempts(flagHistoryLimit)
	if err != nil {
		return err
	}

	if flagHistoryOut != formatTable {
		out := make([]attemptOut, 0, len(recs))
		for _, r := range recs {
			out = append(out, attemptOut{
				ID:       r.ID,
				Level:    r.Level,
				Mode:     r.Mode,
				Outcome:  r.Outcome,
				Reason:   r.Reason,
				Sequence: r.Sequence,
				Slices:   r.Slices,
				Seconds:  r.Duration.Seconds(),
				Retry:    r.Retry,
				At:       r.CreatedAt,
			})
		}
		return writeStructured(w, flagHistoryOut, out)
	}

	fmt.Fprintln(w, "Recent attempts")
	fmt.Fprintln(w)
	if len(recs) == 0 {
		fmt.Fprintln(w, "No attempts recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'slicer play' to record your first attempt!")
		return nil
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		outcome := r.Outcome
		if r.Retry {
			outcome += " (retry)"
		}
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Level),
			r.Mode,
			outcome,
			strings.Join(r.Sequence, " "),
			fmt.Sprintf("%.1fs", r.Duration.Seconds()),
			r.Reason,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Date", "Level", "Mode", "Outcome", "Recipe", "Time", "Reason"}, rows))

	if best, ok, err := store.BestLevel(); err == nil && ok {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Best level won: %d\n", best)
	}
	return nil
}

func printLevelStats(w io.Writer, store *storage.Store) error {
	stats, err := store.LevelStats()
	if err != nil {
		return err
	}

	if flagHistoryOut != formatTable {
		out := make([]levelOut, 0, len(stats))
		for _, s := range stats {
			out = append(out, levelOut{
				Level:       s.Level,
				Attempts:    s.Attempts,
				Wins:        s.Wins,
				Losses:      s.Losses,
				BestSeconds: s.Best.Seconds(),
			})
		}
		return writeStructured(w, flagHistoryOut, out)
	}

	fmt.Fprintln(w, "Per-level statistics")
	fmt.Fprintln(w)
	if len(stats) == 0 {
		fmt.Fprintln(w, "No attempts recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		best := "-"
		if s.Best > 0 {
			best = fmt.Sprintf("%.1fs", s.Best.Seconds())
		}
		rate := 0.0
		if s.Attempts > 0 {
			rate = float64(s.Wins) / float64(s.Attempts) * 100
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Level),
			fmt.Sprintf("%d", s.Attempts),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%d", s.Losses),
			fmt.Sprintf("%.0f%%", rate),
			best,
		})
	}
	fmt.Fprintln(w, renderTable([]string{"Level", "Attempts", "Wins", "Losses", "Win rate", "Best"}, rows))
	return nil
}
