package config

import (
	"fmt"
)

// ConfigError describes one problem in a loaded configuration.
// Configuration errors are reported, never fatal: the affected component
// degrades to inactivity instead.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Validate returns every problem found in cfg. An empty result means the
// configuration is usable as-is.
func (cfg GameConfig) Validate() []error {
	var errs []error

	known := make(map[string]bool, len(cfg.Catalog.Fruits))
	for i, f := range cfg.Catalog.Fruits {
		if f.Name == "" {
			errs = append(errs, configErr(fmt.Sprintf("catalog.fruits[%d].name", i), "empty name"))
			continue
		}
		if known[f.Name] {
			errs = append(errs, configErr(fmt.Sprintf("catalog.fruits[%d].name", i), "duplicate kind %q", f.Name))
		}
		known[f.Name] = true
		if f.Weight < 0 {
			errs = append(errs, configErr(fmt.Sprintf("catalog.fruits[%d].weight", i), "negative weight %v", f.Weight))
		}
	}
	if len(known) == 0 {
		errs = append(errs, configErr("catalog.fruits", "no entity kinds configured"))
	}

	sp := cfg.Spawner
	if len(sp.SpawnPoints) == 0 {
		errs = append(errs, configErr("spawner.spawn_points", "no spawn points configured"))
	}
	if sp.IntervalMin <= 0 || sp.IntervalMax < sp.IntervalMin {
		errs = append(errs, configErr("spawner.interval", "want 0 < interval_min <= interval_max, got [%v, %v]", sp.IntervalMin, sp.IntervalMax))
	}
	if sp.MinPerBurst < 0 || sp.MaxPerBurst < sp.MinPerBurst {
		errs = append(errs, configErr("spawner.per_burst", "want 0 <= min_per_burst <= max_per_burst, got [%d, %d]", sp.MinPerBurst, sp.MaxPerBurst))
	}
	if sp.MaxActive <= 0 {
		errs = append(errs, configErr("spawner.max_active", "must be positive, got %d", sp.MaxActive))
	}
	if sp.CleanupInterval <= 0 {
		errs = append(errs, configErr("spawner.cleanup_interval", "must be positive, got %v", sp.CleanupInterval))
	}

	lv := cfg.Levels
	if len(lv.Tutorial.Sequence) == 0 {
		errs = append(errs, configErr("levels.tutorial.sequence", "empty tutorial recipe"))
	}
	for i, name := range lv.Tutorial.Sequence {
		if !known[name] {
			errs = append(errs, configErr(fmt.Sprintf("levels.tutorial.sequence[%d]", i), "unknown kind %q", name))
		}
	}
	if lv.Memory.KindsMin < 1 || lv.Memory.KindsMax < lv.Memory.KindsMin {
		errs = append(errs, configErr("levels.memory.kinds", "want 1 <= kinds_min <= kinds_max, got [%d, %d]", lv.Memory.KindsMin, lv.Memory.KindsMax))
	}
	if lv.Memory.KindsMax > len(known) {
		errs = append(errs, configErr("levels.memory.kinds_max", "%d exceeds the %d configured kinds", lv.Memory.KindsMax, len(known)))
	}
	if lv.Memory.CountMin < 1 || lv.Memory.CountMax < lv.Memory.CountMin {
		errs = append(errs, configErr("levels.memory.count", "want 1 <= count_min <= count_max, got [%d, %d]", lv.Memory.CountMin, lv.Memory.CountMax))
	}
	if lv.Expansion.AddMin < 1 || lv.Expansion.AddMax < lv.Expansion.AddMin {
		errs = append(errs, configErr("levels.expansion.add", "want 1 <= add_min <= add_max, got [%d, %d]", lv.Expansion.AddMin, lv.Expansion.AddMax))
	}
	if lv.Expansion.CountMin < 1 || lv.Expansion.CountMax < lv.Expansion.CountMin {
		errs = append(errs, configErr("levels.expansion.count", "want 1 <= count_min <= count_max, got [%d, %d]", lv.Expansion.CountMin, lv.Expansion.CountMax))
	}
	if lv.MaxLevel < 0 {
		errs = append(errs, configErr("levels.max_level", "must not be negative, got %d", lv.MaxLevel))
	}

	st := cfg.Steering
	if st.Strategy != StrategyBoost && st.Strategy != StrategyRestrict {
		errs = append(errs, configErr("steering.strategy", "unknown strategy %q", st.Strategy))
	}
	if st.Baseline < 0 || st.Boost < 0 {
		errs = append(errs, configErr("steering", "weights must not be negative"))
	}

	if cfg.World.MaxX <= cfg.World.MinX || cfg.World.MaxY <= cfg.World.MinY {
		errs = append(errs, configErr("world", "empty play area"))
	}

	return errs
}
