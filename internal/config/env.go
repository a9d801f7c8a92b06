package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names read by LoadEnv.
const (
	EnvConfigPath = "SLICER_CONFIG"
	EnvDBPath     = "SLICER_DB"
	EnvSeed       = "SLICER_SEED"
	EnvPreset     = "SLICER_PRESET"
)

// Env holds overrides taken from the process environment.
// Empty fields mean "not set"; command-line flags take precedence.
type Env struct {
	ConfigPath string
	DBPath     string
	Seed       int64
	Preset     string
}

// LoadEnv reads .env files (missing files are ignored) into the process
// environment without overriding variables that are already set, then
// collects the SLICER_* overrides.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	env := Env{
		ConfigPath: os.Getenv(EnvConfigPath),
		DBPath:     os.Getenv(EnvDBPath),
		Preset:     os.Getenv(EnvPreset),
	}
	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Env{}, fmt.Errorf("invalid %s %q: %w", EnvSeed, raw, err)
		}
		env.Seed = seed
	}
	return env, nil
}
