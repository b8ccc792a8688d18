package systems

import "gonum.org/v1/gonum/spatial/r3"

// MotionSink consumes the movement command a controller emits each tick. It
// is the only channel through which a controller affects the world: the sink
// owns physical integration, the controller only expresses intent.
type MotionSink interface {
	// SetInput receives the desired horizontal move direction, the point the
	// agent is heading for, and whether it should run and whether it is
	// moving at all.
	SetInput(dir, target r3.Vec, run, moving bool)
}

// ObstacleQuery answers spatial overlap tests against static blockers.
type ObstacleQuery interface {
	// Overlap returns, for each obstacle within radius of pos whose layers
	// intersect the given mask, the obstacle surface point nearest to pos.
	Overlap(pos r3.Vec, radius float64, layers Layer) []r3.Vec
}

// NavigationProvider computes destination-seeking steering. It keeps its own
// simulated position; the controller reads it to detect drift from the
// physically integrated one and resynchronizes via SyncPosition.
type NavigationProvider interface {
	SetDestination(p r3.Vec)
	DesiredVelocity() r3.Vec
	Position() r3.Vec
	SyncPosition(p r3.Vec)
}

// TargetProvider supplies the current position of the tracked target.
type TargetProvider interface {
	TargetPosition() r3.Vec
}

// Rand is the random source behind the controller's stochastic transition.
// *math/rand.Rand satisfies it; tests supply fixed sequences.
type Rand interface {
	Float64() float64
}
