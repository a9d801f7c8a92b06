package level

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/core"
)

// Policy computes goals. Apart from its random source it holds no state;
// progression state lives with the caller.
type Policy struct {
	cfg   config.LevelsConfig
	kinds []catalog.Kind
	rng   *rand.Rand
}

// NewPolicy creates a policy drawing from the given master kind list.
func NewPolicy(cfg config.LevelsConfig, kinds []catalog.Kind, rng *rand.Rand) *Policy {
	return &Policy{
		cfg:   cfg,
		kinds: slices.Clone(kinds),
		rng:   rng,
	}
}

// MaxLevel returns the last playable level index.
func (p *Policy) MaxLevel() int {
	return p.cfg.MaxLevel
}

// RevealSeconds returns how long a goal of the given mode is shown.
func (p *Policy) RevealSeconds(m Mode) float64 {
	if m == ModeTutorial {
		return p.cfg.Tutorial.RevealSeconds
	}
	return p.cfg.Memory.RevealSeconds
}

// Tutorial returns the fixed level 0 recipe.
func (p *Policy) Tutorial() Goal {
	seq := make([]catalog.Kind, 0, len(p.cfg.Tutorial.Sequence))
	for _, name := range p.cfg.Tutorial.Sequence {
		seq = append(seq, catalog.Kind(name))
	}
	return NewGoal(seq, true, ModeTutorial, 0)
}

// Memory returns a random ordered recipe of distinct kinds. Each kind's
// slices are grouped together in the sequence.
func (p *Policy) Memory(lvl int) Goal {
	m := p.cfg.Memory
	if len(p.kinds) == 0 {
		return NewGoal(nil, true, ModeMemory, lvl)
	}
	n := core.RandInt(p.rng, m.KindsMin, m.KindsMax)
	n = core.Clamp(n, 1, len(p.kinds))

	var seq []catalog.Kind
	for _, k := range p.draw(p.kinds, n) {
		seq = appendRun(seq, k, core.RandInt(p.rng, m.CountMin, m.CountMax))
	}
	return NewGoal(seq, true, ModeMemory, lvl)
}

// Expand appends runs to a won recipe, so the goal always grows. New kinds
// are drawn first and the counts of kinds already in prev are kept. Once
// every kind is used, the new runs repeat kinds already in the recipe and
// raise their counts instead.
func (p *Policy) Expand(prev Goal, lvl int) Goal {
	e := p.cfg.Expansion

	var fresh []catalog.Kind
	for _, k := range p.kinds {
		if _, used := prev.Required[k]; !used {
			fresh = append(fresh, k)
		}
	}
	pool := fresh
	if len(pool) == 0 {
		pool = p.kinds
	}

	seq := slices.Clone(prev.Sequence)
	if len(pool) > 0 {
		add := core.Clamp(core.RandInt(p.rng, e.AddMin, e.AddMax), 1, len(pool))
		for _, k := range p.draw(pool, add) {
			seq = appendRun(seq, k, core.RandInt(p.rng, e.CountMin, e.CountMax))
		}
	}
	return NewGoal(seq, prev.OrderEnforced, ModeExpansion, lvl)
}

// Next decides the goal for an attempt at lvl. A stored retry recipe wins
// over everything else; past MaxLevel the plan is Cleared.
func (p *Policy) Next(lvl int, retry *RetryMemory, lastWon *Goal) Plan {
	if retry != nil {
		if g, ok := retry.Get(); ok {
			return Plan{Goal: g, Retry: true}
		}
	}

	switch {
	case lvl > p.cfg.MaxLevel:
		return Plan{Cleared: true}
	case lvl <= 0:
		return Plan{Goal: p.Tutorial()}
	case lvl <= p.cfg.Memory.Levels || lastWon == nil:
		return Plan{Goal: p.Memory(lvl)}
	default:
		return Plan{Goal: p.Expand(*lastWon, lvl)}
	}
}

// draw picks n distinct kinds from pool in random order.
func (p *Policy) draw(pool []catalog.Kind, n int) []catalog.Kind {
	perm := p.rng.Perm(len(pool))
	out := make([]catalog.Kind, 0, n)
	for _, i := range perm[:n] {
		out = append(out, pool[i])
	}
	return out
}

func appendRun(seq []catalog.Kind, k catalog.Kind, count int) []catalog.Kind {
	for i := 0; i < max(count, 1); i++ {
		seq = append(seq, k)
	}
	return seq
}
