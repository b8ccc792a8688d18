// Package components defines ECS components for the yard simulation.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position is an entity's world position. Y is up; the yard floor is the XZ
// plane.
type Position struct {
	Vec r3.Vec
}

// Forward is an entity's facing direction, kept unit length and horizontal.
type Forward struct {
	Vec r3.Vec
}

// Motion carries the latest controller command and the integrator state for
// an entity.
type Motion struct {
	Dir    r3.Vec // commanded move direction (horizontal)
	Target r3.Vec // commanded destination point
	Run    bool
	Moving bool
	Speed  float64 // speed actually applied on the last step
}

// Chicken tags flock members.
type Chicken struct{}

// Keeper tags the tracked target entity.
type Keeper struct{}
