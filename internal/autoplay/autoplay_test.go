package autoplay

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/director"
)

func run(t *testing.T, cfg config.GameConfig, seed int64, opts Options) Report {
	t.Helper()
	rep, err := New(cfg, seed, opts, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return rep
}

func TestPerfectBotNeverLoses(t *testing.T) {
	opts := DefaultOptions()
	opts.Attempts = 3
	opts.Accuracy = 1

	rep := run(t, config.Default(), 42, opts)
	if len(rep.Results) != 3 {
		t.Fatalf("Results = %d, expected 3", len(rep.Results))
	}
	if rep.Losses != 0 {
		t.Errorf("Losses = %d, a bot that only cuts isolated needed fruit cannot lose", rep.Losses)
	}
	if rep.Wins == 0 {
		t.Errorf("Wins = 0, report %+v", rep)
	}
	if rep.Spawned == 0 {
		t.Error("Spawned = 0, expected the spawner to run")
	}
	first := rep.Results[0]
	if first.Outcome == director.PhaseWon && first.Slices != 4 {
		t.Errorf("tutorial win took %d slices, expected 4", first.Slices)
	}
}

func TestSloppyBotLoses(t *testing.T) {
	opts := DefaultOptions()
	opts.Attempts = 5
	opts.Accuracy = 0

	rep := run(t, config.Default(), 7, opts)
	if rep.Losses == 0 {
		t.Errorf("Losses = 0, expected random slicing to break the recipe, report %+v", rep)
	}
	for _, r := range rep.Results {
		if r.Outcome == director.PhaseLost && r.Reason == "" {
			t.Errorf("attempt %d lost without a reason", r.Attempt)
		}
	}

	// A loss is replayed as a retry of the same level
	for i := 1; i < len(rep.Results); i++ {
		prev, cur := rep.Results[i-1], rep.Results[i]
		if prev.Outcome == director.PhaseLost && !cur.Abandoned && (!cur.Retry || cur.Level != prev.Level) {
			t.Errorf("attempt %d after a loss: retry=%v level=%d, expected retry of level %d",
				cur.Attempt, cur.Retry, cur.Level, prev.Level)
		}
	}
}

func TestDeterministicRuns(t *testing.T) {
	opts := DefaultOptions()
	opts.Attempts = 4
	opts.Accuracy = 0.7

	a := run(t, config.Default(), 99, opts)
	b := run(t, config.Default(), 99, opts)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different reports:\n%+v\n%+v", a, b)
	}
}

func TestSingleLevelGameClears(t *testing.T) {
	cfg := config.Default()
	cfg.Levels.MaxLevel = 0
	opts := DefaultOptions()
	opts.Attempts = 2
	opts.Accuracy = 1

	rep := run(t, cfg, 5, opts)
	for _, r := range rep.Results {
		if r.Outcome == director.PhaseWon {
			t.Errorf("attempt %d won without clearing a one-level game", r.Attempt)
		}
	}
	if rep.Clears != rep.Wins {
		t.Errorf("Clears = %d, Wins = %d, expected every win to clear", rep.Clears, rep.Wins)
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := New(config.Default(), 1, DefaultOptions(), nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
	if len(rep.Results) != 0 {
		t.Errorf("Results = %d, expected none", len(rep.Results))
	}
}
