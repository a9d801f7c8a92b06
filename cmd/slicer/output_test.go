package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fruit-slice/internal/autoplay"
	"github.com/vovakirdan/fruit-slice/internal/director"
	"github.com/vovakirdan/fruit-slice/internal/level"
)

func TestCheckFormat(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml"} {
		if err := checkFormat(f); err != nil {
			t.Errorf("checkFormat(%q) = %v", f, err)
		}
	}
	if err := checkFormat("xml"); err == nil {
		t.Error("checkFormat(xml) should fail")
	}
}

func TestSummarize(t *testing.T) {
	rep := autoplay.Report{
		Results: []autoplay.Result{
			{Attempt: 1, Level: 0, Mode: level.ModeTutorial, Outcome: director.PhaseWon, Slices: 4, Duration: 2 * time.Second},
			{Attempt: 2, Level: 1, Mode: level.ModeMemory, Outcome: director.PhaseLost, Reason: "Too many Apples!", Slices: 3},
			{Attempt: 3, Level: 1, Mode: level.ModeMemory, Outcome: director.PhaseIdle, Abandoned: true, Retry: true},
		},
		Wins:      1,
		Losses:    1,
		Abandoned: 1,
	}

	s := summarize(rep, 42)
	if s.Seed != 42 || len(s.Attempts) != 3 {
		t.Fatalf("summary = %+v", s)
	}
	want := []string{"won", "lost", "abandoned"}
	for i, a := range s.Attempts {
		if a.Outcome != want[i] {
			t.Errorf("attempt %d outcome = %q, expected %q", i+1, a.Outcome, want[i])
		}
	}
	if s.Attempts[0].Mode != "tutorial" || s.Attempts[0].Seconds != 2 {
		t.Errorf("first attempt = %+v", s.Attempts[0])
	}
}

func TestWriteStructured(t *testing.T) {
	v := simSummary{Seed: 7, Wins: 2, Attempts: []simResult{{Attempt: 1, Outcome: "won"}}}

	var buf bytes.Buffer
	if err := writeStructured(&buf, formatJSON, v); err != nil {
		t.Fatal(err)
	}
	var fromJSON simSummary
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if fromJSON.Seed != 7 || fromJSON.Wins != 2 {
		t.Errorf("JSON = %+v", fromJSON)
	}

	buf.Reset()
	if err := writeStructured(&buf, formatYAML, v); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "highest_level: 0") {
		t.Errorf("YAML missing snake_case keys:\n%s", buf.String())
	}
	var fromYAML simSummary
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(fromYAML.Attempts) != 1 || fromYAML.Attempts[0].Outcome != "won" {
		t.Errorf("YAML = %+v", fromYAML)
	}

	if err := writeStructured(&buf, formatTable, v); err == nil {
		t.Error("table is not a structured format")
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Kind", "Weight"}, [][]string{{"Apple", "3"}, {"Banana", "1"}})
	for _, want := range []string{"Kind", "Weight", "Apple", "Banana"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
