package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/autoplay"
	"github.com/vovakirdan/fruit-slice/internal/storage"
)

// withFlags sets the package flag globals for one test and restores them.
func withFlags(t *testing.T, dbPath string) {
	t.Helper()
	def := autoplay.DefaultOptions()
	saved := struct {
		fps                              int
		seed                             int64
		db, cfg, difficulty, simOut, out string
		attempts                         int
		accuracy                         float64
		reaction, timeout                time.Duration
		noRecord, clear, levels, tui     bool
		limit                            int
		logger                           *log.Logger
	}{
		flagFPS, flagSeed, flagDBPath, flagConfig, flagDifficulty, flagSimOut, flagHistoryOut,
		flagAttempts, flagAccuracy, flagReaction, flagTimeout,
		flagNoRecord, flagHistoryClear, flagHistoryLevel, flagHistoryTUI,
		flagHistoryLimit, logger,
	}
	t.Cleanup(func() {
		flagFPS, flagSeed, flagDBPath, flagConfig, flagDifficulty = saved.fps, saved.seed, saved.db, saved.cfg, saved.difficulty
		flagSimOut, flagHistoryOut = saved.simOut, saved.out
		flagAttempts, flagAccuracy, flagReaction, flagTimeout = saved.attempts, saved.accuracy, saved.reaction, saved.timeout
		flagNoRecord, flagHistoryClear, flagHistoryLevel, flagHistoryTUI = saved.noRecord, saved.clear, saved.levels, saved.tui
		flagHistoryLimit, logger = saved.limit, saved.logger
	})

	flagFPS = 60
	flagSeed = 3
	flagDBPath = dbPath
	flagConfig = ""
	flagDifficulty = ""
	flagSimOut = formatJSON
	flagHistoryOut = formatTable
	flagAttempts = 3
	flagAccuracy = def.Accuracy
	flagReaction = def.Reaction
	flagTimeout = def.Timeout
	flagNoRecord = false
	flagHistoryClear = false
	flagHistoryLevel = false
	flagHistoryTUI = false
	flagHistoryLimit = 10
	logger = log.New(io.Discard)
}

func TestSimulateRecordsAndReleasesStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "slicer.db")
	withFlags(t, dbPath)

	var buf bytes.Buffer
	if err := simulate(&buf); err != nil {
		t.Fatalf("simulate() = %v", err)
	}
	var summary simSummary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(summary.Attempts) != flagAttempts {
		t.Errorf("attempts = %d, expected %d", len(summary.Attempts), flagAttempts)
	}

	// The store was closed on return, so a fresh handle sees every row.
	store, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("reopening the database: %v", err)
	}
	defer store.Close()
	recs, err := store.RecentAttempts(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != summary.Recorded {
		t.Errorf("stored %d attempts, summary says %d", len(recs), summary.Recorded)
	}
}

func TestSimulateErrorsReturn(t *testing.T) {
	withFlags(t, filepath.Join(t.TempDir(), "slicer.db"))

	flagSimOut = "xml"
	if err := simulate(io.Discard); err == nil {
		t.Error("simulate() with an unknown format should fail")
	}

	flagSimOut = formatTable
	flagDifficulty = "impossible"
	if err := simulate(io.Discard); err == nil {
		t.Error("simulate() with an unknown preset should fail")
	}
}

func TestShowHistory(t *testing.T) {
	withFlags(t, "")
	store, err := storage.Open(filepath.Join(t.TempDir(), "slicer.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for i, outcome := range []string{storage.OutcomeWon, storage.OutcomeLost} {
		rec := &storage.AttemptRecord{
			Level:    i + 1,
			Mode:     "memory",
			Outcome:  outcome,
			Sequence: []string{"Apple", "Banana"},
			Slices:   2,
			Duration: 3 * time.Second,
		}
		if err := store.SaveAttempt(rec); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := showHistory(&buf, store); err != nil {
		t.Fatalf("showHistory() = %v", err)
	}
	for _, want := range []string{"Recent attempts", "Apple Banana", "lost", "Best level won: 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("recent output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	flagHistoryLevel = true
	if err := showHistory(&buf, store); err != nil {
		t.Fatalf("showHistory(levels) = %v", err)
	}
	if !strings.Contains(buf.String(), "Per-level statistics") {
		t.Errorf("levels output:\n%s", buf.String())
	}

	buf.Reset()
	flagHistoryLevel = false
	flagHistoryClear = true
	if err := showHistory(&buf, store); err != nil {
		t.Fatalf("showHistory(clear) = %v", err)
	}
	if !strings.Contains(buf.String(), "Deleted 2 attempts.") {
		t.Errorf("clear output: %q", buf.String())
	}

	store.Close()
	buf.Reset()
	flagHistoryClear = false
	if err := showHistory(&buf, store); err == nil {
		t.Error("showHistory() on a closed store should return an error")
	}
}
