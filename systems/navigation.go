package systems

import "gonum.org/v1/gonum/spatial/r3"

// SeekAgent is a straight-line NavigationProvider. It stands in for a real
// navigation system: it keeps its own simulated position and reports the
// velocity it wants, but never displaces the agent itself. Until a
// destination is set, and inside the arrival radius, the desired velocity is
// zero.
type SeekAgent struct {
	pos          r3.Vec
	dest         r3.Vec
	speed        float64
	arriveRadius float64
	hasDest      bool
}

// NewSeekAgent creates a seek agent at the given start position.
func NewSeekAgent(start r3.Vec, speed, arriveRadius float64) *SeekAgent {
	return &SeekAgent{pos: start, speed: speed, arriveRadius: arriveRadius}
}

// SetDestination updates the point the agent steers toward.
func (s *SeekAgent) SetDestination(p r3.Vec) {
	s.dest = p
	s.hasDest = true
}

// DesiredVelocity returns the velocity toward the destination at the
// configured speed, or zero when there is nowhere to go.
func (s *SeekAgent) DesiredVelocity() r3.Vec {
	if !s.hasDest {
		return r3.Vec{}
	}
	to := r3.Sub(s.dest, s.pos)
	if r3.Norm(to) <= s.arriveRadius {
		return r3.Vec{}
	}
	return r3.Scale(s.speed, Normalize(to))
}

// Position returns the internally simulated position.
func (s *SeekAgent) Position() r3.Vec { return s.pos }

// SyncPosition snaps the simulated position to an externally integrated one.
func (s *SeekAgent) SyncPosition(p r3.Vec) { s.pos = p }
