package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const vecEps = 1e-9

func vecsClose(a, b r3.Vec, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

// TestNormalizeZeroVector verifies the zero vector normalizes to itself
// rather than NaN.
func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize(r3.Vec{})
	if got != (r3.Vec{}) {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
	if math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsNaN(got.Z) {
		t.Error("Normalize(zero) produced NaN")
	}
}

// TestNormalizeUnitLength verifies non-zero inputs come out at unit length
// with direction preserved.
func TestNormalizeUnitLength(t *testing.T) {
	cases := []r3.Vec{
		{X: 3, Z: 4},
		{X: -1, Y: 2, Z: 2},
		{X: 0.0001},
		{X: 1e6, Z: -1e6},
	}
	for _, v := range cases {
		got := Normalize(v)
		if n := r3.Norm(got); math.Abs(n-1) > vecEps {
			t.Errorf("Normalize(%v) has length %v, want 1", v, n)
		}
		if r3.Dot(got, v) <= 0 {
			t.Errorf("Normalize(%v) = %v flipped direction", v, got)
		}
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(r3.Vec{X: 1, Y: 7, Z: -2})
	want := r3.Vec{X: 1, Z: -2}
	if got != want {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}

// TestFlockVectorNoNeighbors verifies an isolated bird feels no flock pull.
func TestFlockVectorNoNeighbors(t *testing.T) {
	reg := NewRegistry()
	self := newStubAgent(r3.Vec{}, r3.Vec{X: 1})
	reg.Register(self)

	// A peer outside the neighbor radius must not count either.
	reg.Register(newStubAgent(r3.Vec{X: 100}, r3.Vec{X: 1}))

	got := FlockVector(self, reg, testTuning())
	if got != (r3.Vec{}) {
		t.Errorf("FlockVector with no neighbors = %v, want zero", got)
	}
}

// TestFlockVectorCohesion verifies a lone distant neighbor pulls the bird
// toward it.
func TestFlockVectorCohesion(t *testing.T) {
	tun := testTuning()
	tun.AlignmentWeight = 0
	tun.SeparationWeight = 0
	tun.CohesionWeight = 1

	reg := NewRegistry()
	self := newStubAgent(r3.Vec{}, r3.Vec{X: 1})
	reg.Register(self)
	reg.Register(newStubAgent(r3.Vec{X: 4}, r3.Vec{Z: 1}))

	got := FlockVector(self, reg, tun)
	want := r3.Vec{X: 1}
	if !vecsClose(got, want, vecEps) {
		t.Errorf("cohesion steering = %v, want %v", got, want)
	}
}

// TestFlockVectorAlignment verifies the bird aligns with the mean neighbor
// heading.
func TestFlockVectorAlignment(t *testing.T) {
	tun := testTuning()
	tun.CohesionWeight = 0
	tun.SeparationWeight = 0
	tun.AlignmentWeight = 1

	reg := NewRegistry()
	self := newStubAgent(r3.Vec{}, r3.Vec{X: 1})
	reg.Register(self)
	reg.Register(newStubAgent(r3.Vec{X: 2}, r3.Vec{Z: 1}))
	reg.Register(newStubAgent(r3.Vec{X: -2}, r3.Vec{Z: 1}))

	got := FlockVector(self, reg, tun)
	want := r3.Vec{Z: 1}
	if !vecsClose(got, want, vecEps) {
		t.Errorf("alignment steering = %v, want %v", got, want)
	}
}

// TestFlockVectorSeparationCloserPushesHarder verifies that within the
// separation radius a nearer neighbor dominates the push.
func TestFlockVectorSeparationCloserPushesHarder(t *testing.T) {
	tun := testTuning()
	tun.CohesionWeight = 0
	tun.AlignmentWeight = 0
	tun.SeparationWeight = 1

	reg := NewRegistry()
	self := newStubAgent(r3.Vec{}, r3.Vec{X: 1})
	reg.Register(self)
	reg.Register(newStubAgent(r3.Vec{X: 0.5}, r3.Vec{X: 1}))  // near, pushes -X hard
	reg.Register(newStubAgent(r3.Vec{X: -1.2}, r3.Vec{X: 1})) // far, pushes +X weakly

	got := FlockVector(self, reg, tun)
	if got.X >= 0 {
		t.Errorf("separation = %v, want net push away from the nearer neighbor (-X)", got)
	}
}

// TestFlockVectorSeparationBoundaryInclusive verifies a neighbor exactly at
// the separation radius still pushes, matching the standalone separation
// cutoff.
func TestFlockVectorSeparationBoundaryInclusive(t *testing.T) {
	tun := testTuning()
	tun.CohesionWeight = 0
	tun.AlignmentWeight = 0
	tun.SeparationWeight = 1

	reg := NewRegistry()
	self := newStubAgent(r3.Vec{}, r3.Vec{X: 1})
	reg.Register(self)
	peer := newStubAgent(r3.Vec{X: tun.SeparationRadius}, r3.Vec{X: 1})
	reg.Register(peer)

	got := FlockVector(self, reg, tun)
	want := r3.Vec{X: -1}
	if !vecsClose(got, want, vecEps) {
		t.Errorf("boundary separation = %v, want %v", got, want)
	}
	if sep := SeparationVector(self, reg, tun); !vecsClose(sep, want, vecEps) {
		t.Errorf("standalone boundary separation = %v, want %v", sep, want)
	}
}

// TestFlockVectorCoincidentNeighbor verifies a neighbor at the exact same
// position contributes no separation and no NaN.
func TestFlockVectorCoincidentNeighbor(t *testing.T) {
	reg := NewRegistry()
	self := newStubAgent(r3.Vec{X: 1, Z: 1}, r3.Vec{X: 1})
	reg.Register(self)
	reg.Register(newStubAgent(r3.Vec{X: 1, Z: 1}, r3.Vec{Z: 1}))

	got := FlockVector(self, reg, testTuning())
	if math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsNaN(got.Z) {
		t.Errorf("coincident neighbor produced NaN steering: %v", got)
	}
}

// TestSeparationVectorOnly verifies standalone separation ignores peers
// outside the separation radius.
func TestSeparationVectorOnly(t *testing.T) {
	tun := testTuning()

	reg := NewRegistry()
	self := newStubAgent(r3.Vec{}, r3.Vec{X: 1})
	reg.Register(self)
	reg.Register(newStubAgent(r3.Vec{X: 3}, r3.Vec{X: 1})) // inside neighbor radius, outside separation

	if got := SeparationVector(self, reg, tun); got != (r3.Vec{}) {
		t.Errorf("separation with no close peer = %v, want zero", got)
	}

	reg.Register(newStubAgent(r3.Vec{X: 1}, r3.Vec{X: 1}))
	got := SeparationVector(self, reg, tun)
	want := r3.Vec{X: -tun.SeparationWeight}
	if !vecsClose(got, want, vecEps) {
		t.Errorf("separation = %v, want %v", got, want)
	}
}

// TestAvoidanceVectorPushesAway verifies the push points from the obstacle
// surface back toward the agent, scaled by the avoidance weight.
func TestAvoidanceVectorPushesAway(t *testing.T) {
	tun := testTuning()
	obs := &pointObstacles{points: []r3.Vec{{X: 1.5}}}

	got := AvoidanceVector(r3.Vec{}, obs, tun)
	want := r3.Vec{X: -tun.AvoidanceWeight}
	if !vecsClose(got, want, vecEps) {
		t.Errorf("avoidance = %v, want %v", got, want)
	}
}

// TestAvoidanceVectorCancellation verifies symmetric pushes cancel to zero
// instead of being renormalized into jitter.
func TestAvoidanceVectorCancellation(t *testing.T) {
	obs := &pointObstacles{points: []r3.Vec{{X: 1}, {X: -1}}}

	got := AvoidanceVector(r3.Vec{}, obs, testTuning())
	if got != (r3.Vec{}) {
		t.Errorf("cancelling avoidance = %v, want zero", got)
	}
}

// TestAvoidanceVectorNoObstacles verifies a clear area contributes nothing.
func TestAvoidanceVectorNoObstacles(t *testing.T) {
	obs := &pointObstacles{}
	if got := AvoidanceVector(r3.Vec{X: 3}, obs, testTuning()); got != (r3.Vec{}) {
		t.Errorf("avoidance in the clear = %v, want zero", got)
	}
}
