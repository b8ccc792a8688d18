package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Layer is a bitmask classifying obstacles. Queries match any obstacle whose
// layers intersect the query mask.
type Layer uint32

const (
	LayerFence Layer = 1 << iota
	LayerRock
	LayerTrough
)

var layersByName = map[string]Layer{
	"fence":  LayerFence,
	"rock":   LayerRock,
	"trough": LayerTrough,
}

// ParseLayer resolves a layer name from config.
func ParseLayer(name string) (Layer, error) {
	l, ok := layersByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown obstacle layer %q", name)
	}
	return l, nil
}

// LayerMask combines named layers into a query mask.
func LayerMask(names []string) (Layer, error) {
	var mask Layer
	for _, n := range names {
		l, err := ParseLayer(n)
		if err != nil {
			return 0, err
		}
		mask |= l
	}
	return mask, nil
}

// Obstacle is a static sphere blocker in the yard.
type Obstacle struct {
	Center r3.Vec
	Radius float64
	Layers Layer
}

// ObstacleField answers overlap queries against a fixed obstacle set.
type ObstacleField struct {
	obstacles []Obstacle
}

// NewObstacleField creates a field over the given obstacles.
func NewObstacleField(obstacles []Obstacle) *ObstacleField {
	return &ObstacleField{obstacles: obstacles}
}

// Obstacles returns the backing obstacle set, for rendering.
func (f *ObstacleField) Obstacles() []Obstacle {
	return f.obstacles
}

// Overlap returns the nearest surface point of every obstacle within radius
// of pos whose layers intersect the mask.
func (f *ObstacleField) Overlap(pos r3.Vec, radius float64, layers Layer) []r3.Vec {
	var points []r3.Vec
	for _, o := range f.obstacles {
		if o.Layers&layers == 0 {
			continue
		}
		toPos := r3.Sub(pos, o.Center)
		d := r3.Norm(toPos)
		if d-o.Radius > radius {
			continue
		}
		if d == 0 {
			// Standing exactly on the center: every surface point is
			// equally near, report the center itself.
			points = append(points, o.Center)
			continue
		}
		points = append(points, r3.Add(o.Center, r3.Scale(o.Radius/d, toPos)))
	}
	return points
}
