package director

import (
	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
)

// pushWeights biases spawning toward the kinds the player needs next.
// Steering never guarantees a needed kind will spawn.
func (d *Director) pushWeights() {
	st := d.opts.Steering
	if !st.Enabled {
		d.spawner.ClearAllowedKinds()
		d.spawner.RestoreWeights()
		return
	}

	switch st.Strategy {
	case config.StrategyRestrict:
		d.spawner.RestoreWeights()
		d.spawner.SetAllowedKinds(d.goal.Kinds())
	default:
		d.spawner.ClearAllowedKinds()
		d.spawner.ResetWeights(st.Baseline)
		for _, k := range d.neededKinds() {
			d.spawner.SetWeight(k, st.Boost)
		}
	}
}

// neededKinds returns the kind at the cursor for ordered goals, or every
// kind with slices still missing otherwise.
func (d *Director) neededKinds() []catalog.Kind {
	if d.goal.OrderEnforced {
		if d.cursor < len(d.goal.Sequence) {
			return []catalog.Kind{d.goal.Sequence[d.cursor]}
		}
		return nil
	}
	var out []catalog.Kind
	for _, k := range d.goal.Kinds() {
		if d.sliced[k] < d.goal.Required[k] {
			out = append(out, k)
		}
	}
	return out
}

// stopSpawning halts the spawner and restores design weights.
func (d *Director) stopSpawning() {
	d.spawner.Stop()
	d.spawner.ClearAllowedKinds()
	d.spawner.RestoreWeights()
}
