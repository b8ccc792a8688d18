package systems

import "gonum.org/v1/gonum/spatial/r3"

// avoidanceMin is the minimum accumulated push below which obstacle
// avoidance contributes nothing.
const avoidanceMin = 0.01

// Normalize returns the unit vector of v, or the zero vector when v has zero
// length. Steering sums regularly collapse to zero; r3.Unit would turn that
// into NaN and poison every downstream accumulation.
func Normalize(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// Flatten projects v onto the horizontal plane.
func Flatten(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// FlockVector computes the combined cohesion, alignment and separation
// steering for self against its neighbors in reg. Cohesion pulls toward the
// mean neighbor position, alignment toward the mean neighbor heading, and
// separation away from neighbors inside the separation radius, with closer
// neighbors pushing harder. With no neighbors in range the result is zero.
func FlockVector(self Agent, reg *Registry, t Tuning) r3.Vec {
	pos := self.Position()

	var posSum, fwdSum, sepSum r3.Vec
	count := 0
	for _, other := range reg.AllWithin(self, t.NeighborRadius) {
		otherPos := other.Position()
		posSum = r3.Add(posSum, otherPos)
		fwdSum = r3.Add(fwdSum, other.Forward())
		count++

		away := r3.Sub(pos, otherPos)
		if d := r3.Norm(away); d > 0 && d <= t.SeparationRadius {
			// unit(away) / d: inverse-distance falloff
			sepSum = r3.Add(sepSum, r3.Scale(1/(d*d), away))
		}
	}
	if count == 0 {
		return r3.Vec{}
	}

	mean := r3.Scale(1/float64(count), posSum)
	cohesion := r3.Scale(t.CohesionWeight, Normalize(r3.Sub(mean, pos)))
	alignment := r3.Scale(t.AlignmentWeight, Normalize(r3.Scale(1/float64(count), fwdSum)))
	separation := r3.Scale(t.SeparationWeight, Normalize(sepSum))

	return r3.Add(r3.Add(cohesion, alignment), separation)
}

// SeparationVector computes crowd avoidance alone: push away from any peer
// inside the separation radius, regardless of flock membership. Zero when no
// peer qualifies.
func SeparationVector(self Agent, reg *Registry, t Tuning) r3.Vec {
	pos := self.Position()

	var sum r3.Vec
	found := false
	for _, other := range reg.AllWithin(self, t.SeparationRadius) {
		away := r3.Sub(pos, other.Position())
		if d := r3.Norm(away); d > 0 {
			sum = r3.Add(sum, r3.Scale(1/(d*d), away))
			found = true
		}
	}
	if !found {
		return r3.Vec{}
	}
	return r3.Scale(t.SeparationWeight, Normalize(sum))
}

// AvoidanceVector computes the push away from obstacles around pos: for each
// nearby surface point the unit vector back toward pos, accumulated and
// scaled by the avoidance weight. An accumulation below avoidanceMin resolves
// to zero rather than an amplified jitter direction.
func AvoidanceVector(pos r3.Vec, obstacles ObstacleQuery, t Tuning) r3.Vec {
	var sum r3.Vec
	for _, p := range obstacles.Overlap(pos, t.AvoidanceRadius, t.ObstacleLayers) {
		sum = r3.Add(sum, Normalize(r3.Sub(pos, p)))
	}
	if r3.Norm(sum) <= avoidanceMin {
		return r3.Vec{}
	}
	return r3.Scale(t.AvoidanceWeight, Normalize(sum))
}
