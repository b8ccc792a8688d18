package systems

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// stubAgent is a minimal registry member for tests.
type stubAgent struct {
	id  uuid.UUID
	pos r3.Vec
	fwd r3.Vec
}

func newStubAgent(pos, fwd r3.Vec) *stubAgent {
	return &stubAgent{id: uuid.New(), pos: pos, fwd: fwd}
}

func (a *stubAgent) ID() uuid.UUID    { return a.id }
func (a *stubAgent) Position() r3.Vec { return a.pos }
func (a *stubAgent) Forward() r3.Vec  { return a.fwd }

// recordingSink captures every command a controller emits.
type recordingSink struct {
	calls  int
	dir    r3.Vec
	target r3.Vec
	run    bool
	moving bool
}

func (s *recordingSink) SetInput(dir, target r3.Vec, run, moving bool) {
	s.calls++
	s.dir = dir
	s.target = target
	s.run = run
	s.moving = moving
}

// pointObstacles answers every overlap query with a fixed point set.
type pointObstacles struct {
	points []r3.Vec
	calls  int
}

func (o *pointObstacles) Overlap(pos r3.Vec, radius float64, layers Layer) []r3.Vec {
	o.calls++
	return o.points
}

// countingNav wraps a SeekAgent and counts destination updates.
type countingNav struct {
	inner    *SeekAgent
	setCalls int
}

func (n *countingNav) SetDestination(p r3.Vec) {
	n.setCalls++
	n.inner.SetDestination(p)
}
func (n *countingNav) DesiredVelocity() r3.Vec { return n.inner.DesiredVelocity() }
func (n *countingNav) Position() r3.Vec        { return n.inner.Position() }
func (n *countingNav) SyncPosition(p r3.Vec)   { n.inner.SyncPosition(p) }

// fixedTarget is a TargetProvider pinned to one point.
type fixedTarget struct {
	pos r3.Vec
}

func (t *fixedTarget) TargetPosition() r3.Vec { return t.pos }

// seqRand replays a fixed sequence of draws, cycling when exhausted.
type seqRand struct {
	values []float64
	next   int
}

func (r *seqRand) Float64() float64 {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// testTuning returns a tuning usable across the controller tests.
func testTuning() Tuning {
	return Tuning{
		FollowDistance:   12,
		FlockNeighbors:   2,
		IdleTime:         3,
		CheckInterval:    0.5,
		NeighborRadius:   5,
		SeparationRadius: 1.5,
		AvoidanceRadius:  2,
		CohesionWeight:   1.0,
		AlignmentWeight:  0.8,
		SeparationWeight: 1.5,
		AvoidanceWeight:  2.0,
		ObstacleLayers:   LayerFence | LayerRock | LayerTrough,
	}
}
