package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchBuiltin(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded YAML and Default() disagree:\nyaml:    %+v\ndefault: %+v", cfg, Default())
	}
}

func TestDefaultIsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v, expected no errors", errs)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte(`
spawner:
  max_active: 7
levels:
  max_level: 2
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Spawner.MaxActive != 7 {
		t.Errorf("MaxActive = %d, expected 7", cfg.Spawner.MaxActive)
	}
	if cfg.Levels.MaxLevel != 2 {
		t.Errorf("MaxLevel = %d, expected 2", cfg.Levels.MaxLevel)
	}
	// Untouched sections keep their defaults
	if len(cfg.Catalog.Fruits) != len(Default().Catalog.Fruits) {
		t.Errorf("partial file dropped the default catalog, got %d fruits", len(cfg.Catalog.Fruits))
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing custom file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("spawner: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("Load(\"\") without config files should return the defaults")
	}
}

func TestValidateReportsProblems(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Fruits = append(cfg.Catalog.Fruits, FruitDef{Name: "Apple", Weight: -1})
	cfg.Spawner.SpawnPoints = nil
	cfg.Levels.Tutorial.Sequence = []string{"Apple", "Durian"}
	cfg.Steering.Strategy = "magnet"

	errs := cfg.Validate()
	fields := make(map[string]bool)
	for _, err := range errs {
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("Validate() returned non-ConfigError %T", err)
		}
		fields[ce.Field] = true
	}

	for _, want := range []string{
		"catalog.fruits[6].name",
		"catalog.fruits[6].weight",
		"spawner.spawn_points",
		"levels.tutorial.sequence[1]",
		"steering.strategy",
	} {
		if !fields[want] {
			t.Errorf("Validate() missing error for %s, got %v", want, errs)
		}
	}
}

func TestValidateEmptyCatalog(t *testing.T) {
	cfg := Default()
	cfg.Catalog.Fruits = nil

	found := false
	for _, err := range cfg.Validate() {
		var ce *ConfigError
		if errors.As(err, &ce) && ce.Field == "catalog.fruits" {
			found = true
		}
	}
	if !found {
		t.Error("Validate() should report an empty catalog")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		maxActive int
		steering  bool
	}{
		{DifficultyEasy, 12, true},
		{DifficultyNormal, 25, true},
		{DifficultyHard, 35, true},
		{DifficultyFixed, 25, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := Default()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Spawner.MaxActive != tc.maxActive {
				t.Errorf("MaxActive = %d, expected %d", cfg.Spawner.MaxActive, tc.maxActive)
			}
			if cfg.Steering.Enabled != tc.steering {
				t.Errorf("Steering.Enabled = %v, expected %v", cfg.Steering.Enabled, tc.steering)
			}
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("preset produced an invalid config: %v", errs)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v; expected normal", p, err)
	}
	if p, err := ParsePreset("hard"); err != nil || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset should reject unknown names")
	}
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyHard) {
		t.Error("IsFixedPreset mismatch")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "SLICER_DB=/tmp/slicer-test.db\nSLICER_SEED=42\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvDBPath)
		os.Unsetenv(EnvSeed)
	})
	t.Setenv(EnvPreset, "hard")

	env, err := LoadEnv(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if env.DBPath != "/tmp/slicer-test.db" {
		t.Errorf("DBPath = %q", env.DBPath)
	}
	if env.Seed != 42 {
		t.Errorf("Seed = %d, expected 42", env.Seed)
	}
	if env.Preset != "hard" {
		t.Errorf("Preset = %q, expected hard", env.Preset)
	}
}

func TestLoadEnvBadSeed(t *testing.T) {
	t.Setenv(EnvSeed, "not-a-number")
	if _, err := LoadEnv(filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Error("LoadEnv() should reject a non-numeric seed")
	}
}
