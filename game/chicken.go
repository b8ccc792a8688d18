package game

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/components"
	"github.com/pthm-cable/coop/config"
	"github.com/pthm-cable/coop/systems"
)

// command is one controller output, held until the motion pass applies it.
type command struct {
	dir    r3.Vec
	target r3.Vec
	run    bool
	moving bool
}

// chickenUnit binds one ECS entity to its behavior controller. It is both
// the systems.Agent the registry hands to peers and the systems.MotionSink
// the controller emits into. Peers and parallel ticks read the pose
// snapshot, never the live ECS row.
type chickenUnit struct {
	entity ecs.Entity
	id     uuid.UUID
	ctrl   *systems.Controller
	nav    *systems.SeekAgent

	// frame-boundary pose snapshot
	pos r3.Vec
	fwd r3.Vec

	cmd command
}

func (u *chickenUnit) ID() uuid.UUID    { return u.id }
func (u *chickenUnit) Position() r3.Vec { return u.pos }
func (u *chickenUnit) Forward() r3.Vec  { return u.fwd }

// SetInput records the controller command for this tick; the motion pass
// integrates it after all controllers have run.
func (u *chickenUnit) SetInput(dir, target r3.Vec, run, moving bool) {
	u.cmd = command{dir: dir, target: target, run: run, moving: moving}
}

// SpawnChicken creates a chicken at pos facing the given heading and
// registers it with the flock. Must not be called during the controller tick
// phase; registry membership mutates only at frame boundaries.
func (g *Game) SpawnChicken(pos r3.Vec, heading float64) *chickenUnit {
	cfg := config.Cfg()

	fwd := r3.Vec{X: math.Cos(heading), Z: math.Sin(heading)}

	p := components.Position{Vec: pos}
	f := components.Forward{Vec: fwd}
	m := components.Motion{}
	entity := g.chickenMapper.NewEntity(&p, &f, &m, &components.Chicken{})

	u := &chickenUnit{
		entity: entity,
		id:     uuid.New(),
		nav:    systems.NewSeekAgent(pos, cfg.Nav.Speed, cfg.Nav.ArriveRadius),
		pos:    pos,
		fwd:    fwd,
	}
	// Each controller gets its own random stream; the shared one is not safe
	// under the parallel tick phase.
	rng := rand.New(rand.NewSource(g.rng.Int63()))

	// A nil *keeper must become a nil interface, not a typed nil, so the
	// controller's no-target no-op actually fires.
	var target systems.TargetProvider
	if g.keeper != nil {
		target = g.keeper
	}
	u.ctrl = systems.NewController(u, g.registry, g.tuning, u, u.nav, g.obstacles, target, rng)

	g.registry.Register(u)
	g.units = append(g.units, u)
	g.prevStates[u.id] = u.ctrl.State()
	g.collector.RecordSpawn()
	return u
}

// RemoveChicken despawns the chicken at index i: deregistered first, then
// removed from the world. Must not be called during the controller tick
// phase.
func (g *Game) RemoveChicken(i int) {
	if i < 0 || i >= len(g.units) {
		return
	}
	u := g.units[i]
	g.registry.Deregister(u)
	delete(g.prevStates, u.id)
	g.chickenMapper.Remove(u.entity)
	g.units = append(g.units[:i], g.units[i+1:]...)
	g.collector.RecordDespawn()
}

// syncPoses refreshes every unit's pose snapshot from the ECS. Runs once per
// step, before the keeper moves and the controllers tick, so the whole frame
// reads one consistent flock state.
func (g *Game) syncPoses() {
	for _, u := range g.units {
		u.pos = g.posMap.Get(u.entity).Vec
		u.fwd = g.fwdMap.Get(u.entity).Vec
	}
}
