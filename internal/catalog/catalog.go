// Package catalog holds the master set of spawnable entity kinds and the
// mutable weight overlay used to pick them.
//
// The master list is fixed at construction. Weights and the optional
// eligible subset are changed at runtime by a single owner; the catalog
// performs no locking.
package catalog

import (
	"math/rand"
	"slices"
)

// Kind names a spawnable fruit type, e.g. "Apple".
type Kind string

// Entry pairs a kind with its selection weight.
// A weight of 0 excludes the kind from weighted selection without
// removing it from the catalog.
type Entry struct {
	Kind   Kind
	Weight float64
}

// Catalog is the master kind list plus the runtime weight overlay.
type Catalog struct {
	master  []Entry // design weights, never mutated
	weights map[Kind]float64
	allowed map[Kind]bool // nil means every kind is eligible
}

// New creates a catalog from design entries.
// Negative weights are clamped to 0 and duplicate kinds are dropped
// (the first occurrence wins).
func New(entries []Entry) *Catalog {
	c := &Catalog{
		master:  make([]Entry, 0, len(entries)),
		weights: make(map[Kind]float64, len(entries)),
	}
	for _, e := range entries {
		if e.Kind == "" {
			continue
		}
		if _, dup := c.weights[e.Kind]; dup {
			continue
		}
		e.Weight = max(e.Weight, 0)
		c.master = append(c.master, e)
		c.weights[e.Kind] = e.Weight
	}
	return c
}

// AllKinds returns every kind of the master list in design order.
// The returned slice is a fresh copy.
func (c *Catalog) AllKinds() []Kind {
	kinds := make([]Kind, len(c.master))
	for i, e := range c.master {
		kinds[i] = e.Kind
	}
	return kinds
}

// Len returns the size of the master list.
func (c *Catalog) Len() int {
	return len(c.master)
}

// Has reports whether kind is part of the master list.
func (c *Catalog) Has(kind Kind) bool {
	_, ok := c.weights[kind]
	return ok
}

// Weight returns the current overlay weight of kind (0 for unknown kinds).
func (c *Catalog) Weight(kind Kind) float64 {
	return c.weights[kind]
}

// DesignWeight returns the weight kind was constructed with.
func (c *Catalog) DesignWeight(kind Kind) float64 {
	for _, e := range c.master {
		if e.Kind == kind {
			return e.Weight
		}
	}
	return 0
}

// SetWeight overrides the weight of one kind. Unknown kinds are ignored
// and negative values are clamped to 0.
func (c *Catalog) SetWeight(kind Kind, value float64) {
	if !c.Has(kind) {
		return
	}
	c.weights[kind] = max(value, 0)
}

// ResetWeights restores every kind to its design weight.
func (c *Catalog) ResetWeights() {
	for _, e := range c.master {
		c.weights[e.Kind] = e.Weight
	}
}

// ResetWeightsTo sets every kind to the same baseline weight, typically a
// low floor before selectively boosting the kinds that are needed.
func (c *Catalog) ResetWeightsTo(baseline float64) {
	baseline = max(baseline, 0)
	for _, e := range c.master {
		c.weights[e.Kind] = baseline
	}
}

// RestrictTo narrows selection to the given kinds. Kinds outside the
// master list are ignored. An empty set clears the restriction.
func (c *Catalog) RestrictTo(kinds []Kind) {
	if len(kinds) == 0 {
		c.allowed = nil
		return
	}
	c.allowed = make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		if c.Has(k) {
			c.allowed[k] = true
		}
	}
}

// ClearRestriction makes every master kind eligible again.
func (c *Catalog) ClearRestriction() {
	c.allowed = nil
}

// Restricted reports whether a hard filter is in place.
func (c *Catalog) Restricted() bool {
	return c.allowed != nil
}

// Eligible returns the currently selectable entries with overlay weights,
// in design order.
func (c *Catalog) Eligible() []Entry {
	out := make([]Entry, 0, len(c.master))
	for _, e := range c.master {
		if c.allowed != nil && !c.allowed[e.Kind] {
			continue
		}
		out = append(out, Entry{Kind: e.Kind, Weight: c.weights[e.Kind]})
	}
	return out
}

// Pick selects one eligible kind by cumulative-weight sampling: a value r
// is drawn uniformly in [0, total] and the first kind whose running sum
// reaches r wins. When the total weight is 0 the choice is uniform over
// the eligible kinds. Returns false if nothing is eligible.
func (c *Catalog) Pick(rng *rand.Rand) (Kind, bool) {
	entries := c.Eligible()
	if len(entries) == 0 {
		return "", false
	}

	total := 0.0
	for _, e := range entries {
		total += e.Weight
	}
	if total <= 0 {
		return entries[rng.Intn(len(entries))].Kind, true
	}

	r := rng.Float64() * total
	accum := 0.0
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		accum += e.Weight
		if r <= accum {
			return e.Kind, true
		}
	}

	// Float rounding can leave r a hair above the final sum.
	for _, e := range slices.Backward(entries) {
		if e.Weight > 0 {
			return e.Kind, true
		}
	}
	return entries[len(entries)-1].Kind, true
}
