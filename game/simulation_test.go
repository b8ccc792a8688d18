package game

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/config"
	"github.com/pthm-cable/coop/systems"
)

func newTestGame(t *testing.T, chickens int) *Game {
	t.Helper()
	config.MustInit("")
	config.Cfg().Sim.Chickens = chickens

	g, err := New(Options{Seed: 42, Headless: true, StepsPerUpdate: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

// TestHeadlessSmokeRun drives the full simulation for a stretch and checks
// the world stays sane: flock size constant, every bird inside the yard,
// no NaN poisoning.
func TestHeadlessSmokeRun(t *testing.T) {
	g := newTestGame(t, 24)

	for i := 0; i < 600; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 600 {
		t.Errorf("tick = %d, want 600", g.Tick())
	}
	if g.Flock() != 24 {
		t.Errorf("flock = %d, want 24", g.Flock())
	}

	cfg := config.Cfg()
	for i, u := range g.units {
		pos := g.posMap.Get(u.entity).Vec
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
			t.Fatalf("chicken %d position is NaN: %v", i, pos)
		}
		if math.Abs(pos.X) > cfg.Derived.HalfWidth || math.Abs(pos.Z) > cfg.Derived.HalfDepth {
			t.Errorf("chicken %d escaped the yard: %v", i, pos)
		}
		fwd := g.fwdMap.Get(u.entity).Vec
		if n := r3.Norm(fwd); math.Abs(n-1) > 1e-6 {
			t.Errorf("chicken %d forward has length %v, want 1", i, n)
		}
	}
}

// TestHeadlessParallelMatchesRegistry verifies the parallel tick path keeps
// the registry and units in lockstep with a flock above the worker
// threshold.
func TestHeadlessParallelMatchesRegistry(t *testing.T) {
	g := newTestGame(t, parallelThreshold+16)

	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}

	if got := g.registry.Len(); got != g.Flock() {
		t.Errorf("registry has %d agents, units %d", got, g.Flock())
	}
}

// TestSpawnRemoveChicken verifies spawn and despawn keep units, registry
// and ECS membership consistent.
func TestSpawnRemoveChicken(t *testing.T) {
	g := newTestGame(t, 2)

	u := g.SpawnChicken(r3.Vec{X: 1}, 0)
	if g.Flock() != 3 || g.registry.Len() != 3 {
		t.Fatalf("after spawn: flock=%d registry=%d, want 3/3", g.Flock(), g.registry.Len())
	}
	if u.Position() != (r3.Vec{X: 1}) {
		t.Errorf("spawned at %v, want {1 0 0}", u.Position())
	}

	g.RemoveChicken(2)
	if g.Flock() != 2 || g.registry.Len() != 2 {
		t.Errorf("after remove: flock=%d registry=%d, want 2/2", g.Flock(), g.registry.Len())
	}

	// Out-of-range indices are ignored.
	g.RemoveChicken(99)
	g.RemoveChicken(-1)
	if g.Flock() != 2 {
		t.Errorf("out-of-range remove changed the flock: %d", g.Flock())
	}
}

// TestSpawnWithoutKeeper verifies a chicken spawned with no keeper gets an
// idle no-op controller instead of a hidden typed-nil target.
func TestSpawnWithoutKeeper(t *testing.T) {
	g := newTestGame(t, 0)
	g.keeper = nil

	u := g.SpawnChicken(r3.Vec{}, 0)
	for i := 0; i < 10; i++ {
		u.ctrl.Tick(g.dt)
	}

	if got := u.ctrl.State(); got != systems.StateIdle {
		t.Errorf("state = %v, want Idle", got)
	}
	if u.cmd != (command{}) {
		t.Errorf("controller issued a command without a target: %+v", u.cmd)
	}
}

// TestTurnTowardLimitsRate verifies heading changes are capped per step and
// converge onto the goal direction.
func TestTurnTowardLimitsRate(t *testing.T) {
	from := r3.Vec{X: 1}
	to := r3.Vec{Z: 1} // 90 degrees away

	got := turnToward(from, to, 0.1)
	angle := math.Atan2(got.Z, got.X)
	if math.Abs(angle-0.1) > 1e-9 {
		t.Errorf("turned %v rad in one step, want 0.1", angle)
	}

	// A generous limit turns all the way.
	got = turnToward(from, to, math.Pi)
	if math.Abs(math.Atan2(got.Z, got.X)-math.Pi/2) > 1e-9 {
		t.Errorf("unrestricted turn ended at %v, want +Z", got)
	}
}

// TestTurnTowardWrapsShortWay verifies the turn takes the short way across
// the angle wrap.
func TestTurnTowardWrapsShortWay(t *testing.T) {
	from := r3.Vec{X: math.Cos(3.0), Z: math.Sin(3.0)}
	to := r3.Vec{X: math.Cos(-3.0), Z: math.Sin(-3.0)}
	// Short way is ~0.28 rad through pi, not ~6 rad back through zero.

	got := turnToward(from, to, 0.1)
	angle := math.Atan2(got.Z, got.X)
	if angle < 3.0 && angle > -3.0 {
		t.Errorf("turn went the long way: ended at %v rad", angle)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want float64 }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := clamp(c.v, c.lo, c.hi); got != c.want {
			t.Errorf("clamp(%v, %v, %v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
