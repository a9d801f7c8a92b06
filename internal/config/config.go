// Package config provides YAML-based game configuration loading and
// difficulty presets for the slicer.
package config

import (
	"time"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/core"
)

// GameConfig contains all tunable parameters of the game.
type GameConfig struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Spawner  SpawnerConfig  `yaml:"spawner"`
	Levels   LevelsConfig   `yaml:"levels"`
	Steering SteeringConfig `yaml:"steering"`
	World    WorldConfig    `yaml:"world"`
}

// FruitDef describes one spawnable kind.
type FruitDef struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"` // Design weight, >= 0
	Glyph  string  `yaml:"glyph"`  // Single character used by the terminal front end
	Color  string  `yaml:"color"`  // Color name, see core.ParseColor
}

// CatalogConfig lists the master set of kinds.
type CatalogConfig struct {
	Fruits []FruitDef `yaml:"fruits"`
}

// Entries converts the fruit list to catalog entries.
func (c CatalogConfig) Entries() []catalog.Entry {
	entries := make([]catalog.Entry, 0, len(c.Fruits))
	for _, f := range c.Fruits {
		entries = append(entries, catalog.Entry{Kind: catalog.Kind(f.Name), Weight: f.Weight})
	}
	return entries
}

// Lookup returns the definition for a kind.
func (c CatalogConfig) Lookup(kind catalog.Kind) (FruitDef, bool) {
	for _, f := range c.Fruits {
		if f.Name == string(kind) {
			return f, true
		}
	}
	return FruitDef{}, false
}

// Point is a world-space position in config files.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec returns the point as a core.Vec2.
func (p Point) Vec() core.Vec2 {
	return core.V(p.X, p.Y)
}

// SpawnerConfig defines burst pacing, launch forces and cleanup.
// Durations are in seconds.
type SpawnerConfig struct {
	SpawnPoints         []Point `yaml:"spawn_points"`
	RandomizeSpawnPoint bool    `yaml:"randomize_spawn_point"`

	IntervalMin float64 `yaml:"interval_min"`
	IntervalMax float64 `yaml:"interval_max"`
	MinPerBurst int     `yaml:"min_per_burst"`
	MaxPerBurst int     `yaml:"max_per_burst"`

	XForceMin    float64 `yaml:"x_force_min"`
	XForceMax    float64 `yaml:"x_force_max"`
	YForceMin    float64 `yaml:"y_force_min"`
	YForceMax    float64 `yaml:"y_force_max"`
	TorqueMin    float64 `yaml:"torque_min"`
	TorqueMax    float64 `yaml:"torque_max"`
	BiasXBySpawn bool    `yaml:"bias_x_by_spawn"` // Edge spawns arc toward CenterX
	CenterX      float64 `yaml:"center_x"`

	MaxActive       int     `yaml:"max_active"`
	CleanupBelowY   float64 `yaml:"cleanup_below_y"`
	CleanupInterval float64 `yaml:"cleanup_interval"`
}

// CleanupEvery returns the cleanup tick as a duration.
func (s SpawnerConfig) CleanupEvery() time.Duration {
	return Seconds(s.CleanupInterval)
}

// TutorialConfig defines the fixed level 0 recipe.
type TutorialConfig struct {
	Sequence      []string `yaml:"sequence"`
	RevealSeconds float64  `yaml:"reveal_seconds"`
	Summary       bool     `yaml:"summary"` // Show a summary and always move on to level 1
}

// MemoryConfig defines randomly built, order-enforced goals.
type MemoryConfig struct {
	RevealSeconds float64 `yaml:"reveal_seconds"`
	Levels        int     `yaml:"levels"` // Levels 1..Levels use memory goals
	KindsMin      int     `yaml:"kinds_min"`
	KindsMax      int     `yaml:"kinds_max"`
	CountMin      int     `yaml:"count_min"`
	CountMax      int     `yaml:"count_max"`
}

// ExpansionConfig defines goals that grow the last won recipe.
type ExpansionConfig struct {
	AddMin   int `yaml:"add_min"`
	AddMax   int `yaml:"add_max"`
	CountMin int `yaml:"count_min"`
	CountMax int `yaml:"count_max"`
}

// LevelsConfig defines progression.
type LevelsConfig struct {
	Tutorial  TutorialConfig  `yaml:"tutorial"`
	Memory    MemoryConfig    `yaml:"memory"`
	Expansion ExpansionConfig `yaml:"expansion"`
	MaxLevel  int             `yaml:"max_level"` // Winning this level clears the game
}

// Steering strategies.
const (
	StrategyBoost    = "boost"    // Keep every kind eligible, raise the needed ones
	StrategyRestrict = "restrict" // Hard-filter spawning to the needed kinds
)

// SteeringConfig defines adaptive weighting during an attempt.
type SteeringConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Strategy string  `yaml:"strategy"`
	Baseline float64 `yaml:"baseline"` // Weight of kinds that are not needed right now
	Boost    float64 `yaml:"boost"`    // Weight of the kinds that are
}

// WorldConfig defines the reference ballistic world.
type WorldConfig struct {
	Gravity     float64 `yaml:"gravity"` // Downward acceleration, units/s^2
	MinX        float64 `yaml:"min_x"`
	MaxX        float64 `yaml:"max_x"`
	MinY        float64 `yaml:"min_y"`
	MaxY        float64 `yaml:"max_y"`
	FruitRadius float64 `yaml:"fruit_radius"`
}

// Bounds returns the visible play area.
func (w WorldConfig) Bounds() core.Bounds {
	return core.Bounds{MinX: w.MinX, MinY: w.MinY, MaxX: w.MaxX, MaxY: w.MaxY}
}

// Seconds converts a float number of seconds to a duration.
func Seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
