package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/config"
	"github.com/pthm-cable/coop/systems"
)

// tuningFromConfig maps the behavior config section onto the immutable
// per-chicken tuning.
func tuningFromConfig(bc *config.BehaviorConfig) (systems.Tuning, error) {
	mask, err := systems.LayerMask(bc.ObstacleLayers)
	if err != nil {
		return systems.Tuning{}, err
	}
	return systems.Tuning{
		FollowDistance:   bc.FollowDistance,
		FlockNeighbors:   bc.FlockNeighbors,
		IdleTime:         bc.IdleTime,
		CheckInterval:    bc.CheckInterval,
		NeighborRadius:   bc.NeighborRadius,
		SeparationRadius: bc.SeparationRadius,
		AvoidanceRadius:  bc.AvoidanceRadius,
		CohesionWeight:   bc.CohesionWeight,
		AlignmentWeight:  bc.AlignmentWeight,
		SeparationWeight: bc.SeparationWeight,
		AvoidanceWeight:  bc.AvoidanceWeight,
		ObstacleLayers:   mask,
	}, nil
}

// obstacleFieldFromConfig builds the static obstacle field from the placed
// obstacles. The yard fence is not in the field; the integrator clamps to
// the yard bounds.
func obstacleFieldFromConfig(cfg *config.Config) (*systems.ObstacleField, error) {
	obstacles := make([]systems.Obstacle, 0, len(cfg.Obstacles))
	for _, oc := range cfg.Obstacles {
		layer, err := systems.ParseLayer(oc.Layer)
		if err != nil {
			return nil, err
		}
		obstacles = append(obstacles, systems.Obstacle{
			Center: r3.Vec{X: oc.X, Z: oc.Z},
			Radius: oc.Radius,
			Layers: layer,
		})
	}
	return systems.NewObstacleField(obstacles), nil
}
