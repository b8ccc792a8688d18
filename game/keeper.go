package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/components"
	"github.com/pthm-cable/coop/config"
	"github.com/pthm-cable/coop/systems"
)

// keeper is the wandering target the flock tracks. It walks to a random
// waypoint, lingers, and picks another.
type keeper struct {
	entity  ecs.Entity
	pos     r3.Vec
	dest    r3.Vec
	idleFor float64
}

// TargetPosition implements systems.TargetProvider.
func (k *keeper) TargetPosition() r3.Vec { return k.pos }

// spawnKeeper places the keeper in the middle of the yard.
func (g *Game) spawnKeeper() {
	p := components.Position{}
	entity := g.keeperMapper.NewEntity(&p, &components.Keeper{})
	g.keeper = &keeper{entity: entity}
	g.keeper.dest = g.keeper.pos
}

// updateKeeper advances the keeper's wander: linger at the waypoint, then
// walk to the next one. Runs before the controller tick phase so every
// controller sees the same keeper position this frame.
func (g *Game) updateKeeper(dt float64) {
	cfg := config.Cfg()
	k := g.keeper

	if k.idleFor > 0 {
		k.idleFor -= dt
		return
	}

	to := r3.Sub(k.dest, k.pos)
	if r3.Norm(to) <= cfg.Keeper.ArriveRadius {
		k.dest = g.randomYardPoint(cfg.Keeper.Margin)
		k.idleFor = cfg.Keeper.IdleMin + g.rng.Float64()*(cfg.Keeper.IdleMax-cfg.Keeper.IdleMin)
		return
	}

	step := r3.Scale(cfg.Keeper.Speed*dt, systems.Normalize(to))
	k.pos = r3.Add(k.pos, step)
	g.posMap.Get(k.entity).Vec = k.pos
}
