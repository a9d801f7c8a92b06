package config

import (
	_ "embed"
)

//go:embed defaults/slicer.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the built-in configuration. It mirrors
// defaults/slicer.yaml and is used when the embedded file cannot be parsed.
func Default() GameConfig {
	return GameConfig{
		Catalog: CatalogConfig{
			Fruits: []FruitDef{
				{Name: "Apple", Weight: 1.0, Glyph: "●", Color: "red"},
				{Name: "Banana", Weight: 1.0, Glyph: ")", Color: "yellow"},
				{Name: "Strawberry", Weight: 1.0, Glyph: "♥", Color: "bright_red"},
				{Name: "Orange", Weight: 1.0, Glyph: "o", Color: "orange"},
				{Name: "Grape", Weight: 0.8, Glyph: "%", Color: "magenta"},
				{Name: "Watermelon", Weight: 0.6, Glyph: "O", Color: "green"},
			},
		},
		Spawner: SpawnerConfig{
			SpawnPoints: []Point{
				{X: -5, Y: -6.5},
				{X: 0, Y: -6.5},
				{X: 5, Y: -6.5},
			},
			RandomizeSpawnPoint: true,
			IntervalMin:         0.6,
			IntervalMax:         1.4,
			MinPerBurst:         1,
			MaxPerBurst:         3,
			XForceMin:           -3,
			XForceMax:           3,
			YForceMin:           14,
			YForceMax:           20,
			TorqueMin:           -180,
			TorqueMax:           180,
			BiasXBySpawn:        true,
			CenterX:             0,
			MaxActive:           25,
			CleanupBelowY:       -10,
			CleanupInterval:     1.0,
		},
		Levels: LevelsConfig{
			Tutorial: TutorialConfig{
				Sequence:      []string{"Apple", "Banana", "Banana", "Strawberry"},
				RevealSeconds: 3,
			},
			Memory: MemoryConfig{
				RevealSeconds: 5,
				Levels:        3,
				KindsMin:      2,
				KindsMax:      3,
				CountMin:      1,
				CountMax:      2,
			},
			Expansion: ExpansionConfig{
				AddMin:   1,
				AddMax:   2,
				CountMin: 1,
				CountMax: 2,
			},
			MaxLevel: 8,
		},
		Steering: SteeringConfig{
			Enabled:  true,
			Strategy: StrategyBoost,
			Baseline: 1,
			Boost:    6,
		},
		World: WorldConfig{
			Gravity:     20,
			MinX:        -8,
			MaxX:        8,
			MinY:        -6,
			MaxY:        6,
			FruitRadius: 0.5,
		},
	}
}
