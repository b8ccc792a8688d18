package game

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/config"
	"github.com/pthm-cable/coop/systems"
)

// worldStateLogInterval is how many ticks pass between periodic world-state
// logs when stats logging is on.
const worldStateLogInterval = 600

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	dt := g.dt

	// 1. Frame boundary: snapshot poses for this frame's reads
	start := time.Now()
	g.syncPoses()
	g.perf.Observe("snapshot", time.Since(start))

	// 2. Move the target
	start = time.Now()
	g.updateKeeper(dt)
	g.perf.Observe("keeper", time.Since(start))

	// 3. Tick every controller (parallel above the threshold)
	start = time.Now()
	g.tickControllers(dt)
	g.perf.Observe("behavior", time.Since(start))

	// 4. Integrate the recorded commands
	start = time.Now()
	g.applyMotion(dt)
	g.perf.Observe("motion", time.Since(start))

	// 5. Telemetry
	g.collectTelemetry()

	g.tick++

	if g.logStats && g.tick%worldStateLogInterval == 0 {
		g.logWorldState()
		g.perf.Report(g.tick)
	}
}

// applyMotion integrates every unit's recorded command into the ECS:
// displacement at walk or run speed, clamped to the yard, and the forward
// vector turned toward the move direction at a bounded rate.
func (g *Game) applyMotion(dt float64) {
	cfg := config.Cfg()
	halfW := cfg.Derived.HalfWidth
	halfD := cfg.Derived.HalfDepth

	for _, u := range g.units {
		motion := g.motionMap.Get(u.entity)
		motion.Dir = u.cmd.dir
		motion.Target = u.cmd.target
		motion.Run = u.cmd.run
		motion.Moving = u.cmd.moving
		motion.Speed = 0

		dir := systems.Normalize(systems.Flatten(u.cmd.dir))
		if !u.cmd.moving || dir == (r3.Vec{}) {
			continue
		}

		speed := cfg.Movement.WalkSpeed
		if u.cmd.run {
			speed = cfg.Movement.RunSpeed
		}
		motion.Speed = speed

		pos := g.posMap.Get(u.entity)
		next := r3.Add(pos.Vec, r3.Scale(speed*dt, dir))
		next.X = clamp(next.X, -halfW, halfW)
		next.Z = clamp(next.Z, -halfD, halfD)
		pos.Vec = next

		fwd := g.fwdMap.Get(u.entity)
		fwd.Vec = turnToward(fwd.Vec, dir, cfg.Movement.TurnRate*dt)
	}
}

// turnToward rotates the horizontal unit vector from toward to, limited to
// maxDelta radians.
func turnToward(from, to r3.Vec, maxDelta float64) r3.Vec {
	cur := math.Atan2(from.Z, from.X)
	want := math.Atan2(to.Z, to.X)

	delta := want - cur
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	delta = clamp(delta, -maxDelta, maxDelta)

	a := cur + delta
	return r3.Vec{X: math.Cos(a), Z: math.Sin(a)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// collectTelemetry records this tick's state occupancy and transitions, and
// flushes the window when it is due.
func (g *Game) collectTelemetry() {
	for _, u := range g.units {
		state := u.ctrl.State()
		g.collector.RecordState(state)
		if prev := g.prevStates[u.id]; prev != state {
			g.collector.RecordTransition()
			g.prevStates[u.id] = state
		}
	}

	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	// Neighbor counts are sampled only at flush; per-tick sampling would
	// double the O(n^2) scan cost.
	neighborCounts := make([]float64, len(g.units))
	for i, u := range g.units {
		neighborCounts[i] = float64(g.registry.CountWithin(u, g.tuning.NeighborRadius))
	}

	stats := g.collector.Flush(g.tick, len(g.units), neighborCounts)
	if g.logStats {
		stats.Log()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		Logf("telemetry write failed: %v", err)
	}
}
