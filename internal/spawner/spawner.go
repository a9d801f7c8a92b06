// Package spawner launches fruit into the world in weighted random bursts
// and reaps the ones that fall out of play.
package spawner

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-slice/internal/catalog"
	"github.com/vovakirdan/fruit-slice/internal/config"
	"github.com/vovakirdan/fruit-slice/internal/core"
	"github.com/vovakirdan/fruit-slice/internal/sched"
)

// minBurstWait keeps a burst from rescheduling at the instant it fired.
const minBurstWait = time.Millisecond

// EntityID is the handle of a spawned body. IDs are never reused.
type EntityID uint64

// World is the physics layer the spawner launches entities into.
type World interface {
	// Spawn creates a body of the given kind at pos and applies the launch
	// impulse and torque. Returns its handle.
	Spawn(kind catalog.Kind, pos, impulse core.Vec2, torque float64) EntityID
	// Position returns the body position, or false if it no longer exists
	// (sliced, destroyed).
	Position(id EntityID) (core.Vec2, bool)
	// Despawn removes a body. Unknown ids are ignored.
	Despawn(id EntityID)
}

// Spawner owns the live population and both periodic loops.
type Spawner struct {
	cfg     config.SpawnerConfig
	catalog *catalog.Catalog
	world   World
	sched   *sched.Scheduler
	rng     *rand.Rand
	logger  *log.Logger

	burst   *sched.Handle
	cleanup *sched.Handle
	running bool

	active  []EntityID
	spawned int
}

// New creates a stopped spawner. A nil logger discards output.
func New(cfg config.SpawnerConfig, cat *catalog.Catalog, w World, s *sched.Scheduler, rng *rand.Rand, logger *log.Logger) *Spawner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Spawner{
		cfg:     cfg,
		catalog: cat,
		world:   w,
		sched:   s,
		rng:     rng,
		logger:  logger,
	}
}

// Start begins the burst loop and the cleanup loop. No-op if already
// started. A configuration without spawn points, kinds or a positive
// burst interval is logged and leaves the burst loop unscheduled; cleanup
// still runs.
func (sp *Spawner) Start() {
	if sp.running {
		return
	}
	sp.running = true

	sp.cleanup = sp.sched.Every(sp.cleanupInterval(), sp.cleanupTick)

	switch {
	case len(sp.cfg.SpawnPoints) == 0:
		sp.logger.Error("no spawn points configured, spawner idle")
		return
	case sp.catalog.Len() == 0:
		sp.logger.Error("no entity kinds configured, spawner idle")
		return
	case sp.cfg.IntervalMax <= 0:
		sp.logger.Error("burst interval must be positive, spawner idle",
			"interval_min", sp.cfg.IntervalMin, "interval_max", sp.cfg.IntervalMax)
		return
	}
	sp.scheduleBurst()
	sp.logger.Debug("spawner started", "points", len(sp.cfg.SpawnPoints), "cap", sp.cfg.MaxActive)
}

// Stop halts both loops. Safe to call repeatedly. Entities already in the
// world are left alone; a burst in progress spawns nothing further.
func (sp *Spawner) Stop() {
	if !sp.running {
		return
	}
	sp.running = false
	sp.burst.Cancel()
	sp.cleanup.Cancel()
	sp.burst = nil
	sp.cleanup = nil
	sp.logger.Debug("spawner stopped", "live", len(sp.active))
}

// Running reports whether the loops are scheduled.
func (sp *Spawner) Running() bool {
	return sp.running
}

func (sp *Spawner) scheduleBurst() {
	wait := config.Seconds(core.RandRange(sp.rng, sp.cfg.IntervalMin, sp.cfg.IntervalMax))
	var h *sched.Handle
	h = sp.sched.After(max(wait, minBurstWait), func() { sp.burstTick(h) })
	sp.burst = h
}

// burstTick runs one burst for the loop identified by h. A restart from a
// spawn callback replaces sp.burst, which ends this loop.
func (sp *Spawner) burstTick(h *sched.Handle) {
	if !sp.current(h) {
		return
	}
	sp.prune()

	if len(sp.active) < sp.cfg.MaxActive {
		n := core.RandInt(sp.rng, sp.cfg.MinPerBurst, sp.cfg.MaxPerBurst)
		for i := 0; i < n; i++ {
			// A spawn callback may stop the spawner mid-burst.
			if !sp.current(h) || len(sp.active) >= sp.cfg.MaxActive {
				break
			}
			sp.spawnOne()
		}
	}

	if sp.current(h) {
		sp.scheduleBurst()
	}
}

func (sp *Spawner) current(h *sched.Handle) bool {
	return sp.running && sp.burst == h
}

// spawnOne launches a single entity and registers its handle.
func (sp *Spawner) spawnOne() {
	point := sp.cfg.SpawnPoints[0].Vec()
	if sp.cfg.RandomizeSpawnPoint {
		point = sp.cfg.SpawnPoints[sp.rng.Intn(len(sp.cfg.SpawnPoints))].Vec()
	}

	kind, ok := sp.catalog.Pick(sp.rng)
	if !ok {
		sp.logger.Warn("no eligible kinds to spawn")
		return
	}

	impulse := sp.launchImpulse(point)
	torque := core.RandRange(sp.rng, sp.cfg.TorqueMin, sp.cfg.TorqueMax)

	id := sp.world.Spawn(kind, point, impulse, torque)
	sp.active = append(sp.active, id)
	sp.spawned++
}

// launchImpulse draws the launch vector. With BiasXBySpawn, spawns right
// of the play-area center are pushed left and vice versa, so edge spawns
// arc inward. A spawn point exactly at the center keeps its random sign.
func (sp *Spawner) launchImpulse(point core.Vec2) core.Vec2 {
	x := core.RandRange(sp.rng, sp.cfg.XForceMin, sp.cfg.XForceMax)
	if sp.cfg.BiasXBySpawn {
		center := sp.cfg.CenterX
		switch {
		case point.X > center:
			x = -abs(x)
		case point.X < center:
			x = abs(x)
		}
	}
	y := core.RandRange(sp.rng, sp.cfg.YForceMin, sp.cfg.YForceMax)
	return core.V(x, y)
}

// cleanupTick despawns entities below the cleanup line and forgets
// handles the world no longer knows.
func (sp *Spawner) cleanupTick() {
	kept := sp.active[:0]
	for _, id := range sp.active {
		pos, ok := sp.world.Position(id)
		if !ok {
			continue
		}
		if pos.Y < sp.cfg.CleanupBelowY {
			sp.world.Despawn(id)
			continue
		}
		kept = append(kept, id)
	}
	sp.active = kept
}

// prune drops handles of entities that no longer exist.
func (sp *Spawner) prune() {
	kept := sp.active[:0]
	for _, id := range sp.active {
		if _, ok := sp.world.Position(id); ok {
			kept = append(kept, id)
		}
	}
	sp.active = kept
}

// Consume forgets an entity that was sliced. The caller removes it from the world.
func (sp *Spawner) Consume(id EntityID) {
	for i, a := range sp.active {
		if a == id {
			sp.active = append(sp.active[:i], sp.active[i+1:]...)
			return
		}
	}
}

func (sp *Spawner) cleanupInterval() time.Duration {
	if d := sp.cfg.CleanupEvery(); d > 0 {
		return d
	}
	return time.Second
}

// Live returns a copy of the tracked entity handles.
func (sp *Spawner) Live() []EntityID {
	out := make([]EntityID, len(sp.active))
	copy(out, sp.active)
	return out
}

// ActiveCount returns the tracked live population.
func (sp *Spawner) ActiveCount() int {
	return len(sp.active)
}

// Spawned returns the number of entities launched since construction.
func (sp *Spawner) Spawned() int {
	return sp.spawned
}

// AllKindNames returns the master kind list.
func (sp *Spawner) AllKindNames() []catalog.Kind {
	return sp.catalog.AllKinds()
}

// SetAllowedKinds hard-filters spawning to a subset of kinds.
func (sp *Spawner) SetAllowedKinds(kinds []catalog.Kind) {
	sp.catalog.RestrictTo(kinds)
}

// ClearAllowedKinds lifts the hard filter.
func (sp *Spawner) ClearAllowedKinds() {
	sp.catalog.ClearRestriction()
}

// SetWeight changes the selection weight of one kind.
func (sp *Spawner) SetWeight(kind catalog.Kind, value float64) {
	sp.catalog.SetWeight(kind, value)
}

// ResetWeights sets every kind to the same baseline weight.
func (sp *Spawner) ResetWeights(baseline float64) {
	sp.catalog.ResetWeightsTo(baseline)
}

// RestoreWeights returns every kind to its design weight.
func (sp *Spawner) RestoreWeights() {
	sp.catalog.ResetWeights()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
