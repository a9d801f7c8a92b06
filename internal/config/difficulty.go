package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch DifficultyPreset(name) {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(name), nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// IsFixedPreset returns true if the preset disables adaptive steering.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal leaves the loaded values untouched.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Spawner.IntervalMin = 0.9
		cfg.Spawner.IntervalMax = 1.8
		cfg.Spawner.MinPerBurst = 1
		cfg.Spawner.MaxPerBurst = 2
		cfg.Spawner.MaxActive = 12
		cfg.Levels.Tutorial.RevealSeconds += 2
		cfg.Levels.Memory.RevealSeconds += 2
		cfg.Steering.Enabled = true
		cfg.Steering.Boost = max(cfg.Steering.Boost, 10)
	case DifficultyHard:
		cfg.Spawner.IntervalMin = 0.4
		cfg.Spawner.IntervalMax = 1.0
		cfg.Spawner.MinPerBurst = 2
		cfg.Spawner.MaxPerBurst = 4
		cfg.Spawner.MaxActive = 35
		cfg.Levels.Memory.RevealSeconds = max(cfg.Levels.Memory.RevealSeconds-2, 1)
		cfg.Steering.Boost = min(cfg.Steering.Boost, 3)
	case DifficultyFixed:
		cfg.Steering.Enabled = false
	}
}
