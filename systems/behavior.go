package systems

import "gonum.org/v1/gonum/spatial/r3"

// State is a chicken's current behavior mode. Exactly one is active at a
// time; transition through the controller is the only way it changes.
type State uint8

const (
	// StateIdle - stand around, only stepping away from obstacles.
	StateIdle State = iota
	// StateFlocking - walk with nearby peers.
	StateFlocking
	// StateFollowing - run after the keeper.
	StateFollowing
)

// String returns the display name for a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFlocking:
		return "Flocking"
	case StateFollowing:
		return "Following"
	}
	return "Unknown"
}

const (
	// idleBreakChance is the probability per transition check that a bird
	// grown restless after IdleTime gets up and moves.
	idleBreakChance = 0.3

	// flockHoldTime is the minimum time in Flocking before a thinned-out
	// flock disbands to Idle. Deliberately not the configurable IdleTime.
	flockHoldTime = 2.0

	// flockLookahead is how far ahead of the bird the flocking destination
	// point is placed.
	flockLookahead = 5.0

	// repathInterval bounds how often the navigation provider is re-queried
	// with a fresh destination while following.
	repathInterval = 0.25

	// avoidanceActMin is the avoidance magnitude above which an idle bird
	// bothers to step aside.
	avoidanceActMin = 0.1

	// desiredVelMin is the desired-velocity magnitude below which the
	// navigation output is treated as standing still.
	desiredVelMin = 0.001

	// navDriftMax is the allowed gap between the integrated position and the
	// navigation provider's simulated one before resynchronizing.
	navDriftMax = 0.01
)

// Tuning is the immutable per-chicken configuration. Set at construction,
// never mutated afterwards.
type Tuning struct {
	FollowDistance   float64 // beyond this distance to the keeper, chase it
	FlockNeighbors   int     // neighbor count at which a flock forms
	IdleTime         float64 // seconds idle before the restless roll applies
	CheckInterval    float64 // seconds between transition checks
	NeighborRadius   float64
	SeparationRadius float64
	AvoidanceRadius  float64
	CohesionWeight   float64
	AlignmentWeight  float64
	SeparationWeight float64
	AvoidanceWeight  float64
	ObstacleLayers   Layer
}

// Controller drives one chicken. Every tick it advances its clocks,
// periodically re-evaluates its state, runs the behavior for the current
// state, and emits exactly one command to its MotionSink. It owns no
// displacement: the sink does the moving.
//
// The transition-check clock and the navigation repath clock are independent
// accumulators with independent resets; they must never be conflated.
type Controller struct {
	agent     Agent
	registry  *Registry
	tuning    Tuning
	motion    MotionSink
	nav       NavigationProvider
	obstacles ObstacleQuery
	target    TargetProvider
	rng       Rand

	state      State
	stateTime  float64 // time in current state, reset on every transition
	checkTime  float64 // time since last transition check
	repathTime float64 // time since last navigation re-query

	run    bool
	moving bool

	inputDir    r3.Vec // last commanded direction
	targetPoint r3.Vec // last commanded destination
	lastPos     r3.Vec // informational, refreshed every tick
}

// NewController wires a controller to its agent and collaborators. A nil
// target is allowed: the controller then no-ops every tick until one exists.
// The caller should log that condition once; it is not an error here.
func NewController(agent Agent, reg *Registry, tuning Tuning, motion MotionSink, nav NavigationProvider, obstacles ObstacleQuery, target TargetProvider, rng Rand) *Controller {
	c := &Controller{
		agent:     agent,
		registry:  reg,
		tuning:    tuning,
		motion:    motion,
		nav:       nav,
		obstacles: obstacles,
		target:    target,
		rng:       rng,
		state:     StateIdle,
	}
	c.enterState(StateIdle)
	return c
}

// State returns the current behavior state.
func (c *Controller) State() State { return c.state }

// LastPosition returns the agent position observed on the most recent tick.
func (c *Controller) LastPosition() r3.Vec { return c.lastPos }

// TargetPoint returns the destination the controller last committed to.
func (c *Controller) TargetPoint() r3.Vec { return c.targetPoint }

// ForceState overrides the state machine, bypassing the transition
// conditions but still running exit and enter hooks. Forcing the current
// state is a no-op: no hooks run and the state clock keeps counting.
func (c *Controller) ForceState(s State) {
	c.transition(s)
}

// Tick advances the controller by dt seconds: clocks first, then a
// transition check when that clock expires, then the behavior of whatever
// state is now current.
func (c *Controller) Tick(dt float64) {
	if c.target == nil {
		return
	}

	c.stateTime += dt
	c.checkTime += dt
	c.repathTime += dt
	c.lastPos = c.agent.Position()

	if c.checkTime >= c.tuning.CheckInterval {
		c.checkTime = 0
		c.evaluateTransitions()
	}

	switch c.state {
	case StateIdle:
		c.tickIdle()
	case StateFlocking:
		c.tickFlocking()
	case StateFollowing:
		c.tickFollowing()
	}
}

// evaluateTransitions applies the transition table for the current state.
func (c *Controller) evaluateTransitions() {
	dist := r3.Norm(r3.Sub(c.target.TargetPosition(), c.agent.Position()))
	neighbors := c.registry.CountWithin(c.agent, c.tuning.NeighborRadius)

	switch c.state {
	case StateIdle:
		switch {
		case dist > c.tuning.FollowDistance:
			c.transition(StateFollowing)
		case neighbors >= c.tuning.FlockNeighbors:
			c.transition(StateFlocking)
		case c.stateTime >= c.tuning.IdleTime && c.rng.Float64() < idleBreakChance:
			// Restless: join whoever is around, or go find the keeper.
			if neighbors > 0 {
				c.transition(StateFlocking)
			} else {
				c.transition(StateFollowing)
			}
		}
	case StateFlocking:
		switch {
		case dist > c.tuning.FollowDistance*1.5:
			c.transition(StateFollowing)
		case neighbors < c.tuning.FlockNeighbors && c.stateTime > flockHoldTime:
			c.transition(StateIdle)
		}
	case StateFollowing:
		if dist <= c.tuning.FollowDistance*0.8 {
			if neighbors >= c.tuning.FlockNeighbors {
				c.transition(StateFlocking)
			} else {
				c.transition(StateIdle)
			}
		}
	}
}

// transition switches states, running exit and enter hooks and resetting the
// state clock. Equal target state is skipped entirely.
func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	c.exitState(c.state)
	c.state = next
	c.stateTime = 0
	c.enterState(next)
}

// exitState is the teardown hook for the state being left. No state needs
// teardown yet; the hook exists so one can get it without touching the
// transition path.
func (c *Controller) exitState(State) {}

// enterState sets the movement flags the new state runs under.
func (c *Controller) enterState(s State) {
	switch s {
	case StateIdle:
		c.moving = false
		c.run = false
	case StateFlocking:
		c.moving = true
		c.run = false
	case StateFollowing:
		c.moving = true
		c.run = true
	}
}

// tickIdle stands still unless obstacles push hard enough to step aside.
// The destination stays at the bird's own position: no displacement intent.
func (c *Controller) tickIdle() {
	pos := c.agent.Position()

	avoid := AvoidanceVector(pos, c.obstacles, c.tuning)
	if r3.Norm(avoid) > avoidanceActMin {
		c.inputDir = Flatten(avoid)
		c.moving = true
	} else {
		c.inputDir = r3.Vec{}
		c.moving = false
	}
	c.targetPoint = pos

	c.motion.SetInput(c.inputDir, c.targetPoint, c.run, c.moving)
}

// tickFlocking walks with the flock: combined flock steering plus obstacle
// avoidance, flattened and normalized, aiming a fixed distance ahead.
func (c *Controller) tickFlocking() {
	pos := c.agent.Position()

	steer := FlockVector(c.agent, c.registry, c.tuning)
	steer = r3.Add(steer, AvoidanceVector(pos, c.obstacles, c.tuning))

	c.inputDir = Normalize(Flatten(steer))
	c.targetPoint = r3.Add(pos, r3.Scale(flockLookahead, c.inputDir))

	c.motion.SetInput(c.inputDir, c.targetPoint, c.run, c.moving)
}

// tickFollowing chases the keeper through the navigation provider,
// re-querying the destination at a bounded rate and blending in obstacle
// avoidance and crowd separation.
func (c *Controller) tickFollowing() {
	pos := c.agent.Position()
	targetPos := c.target.TargetPosition()

	if c.repathTime >= repathInterval {
		c.repathTime = 0
		c.nav.SetDestination(targetPos)
	}

	var dir r3.Vec
	if desired := c.nav.DesiredVelocity(); r3.Norm(desired) > desiredVelMin {
		dir = Normalize(desired)
	}
	dir = r3.Add(dir, AvoidanceVector(pos, c.obstacles, c.tuning))
	dir = r3.Add(dir, SeparationVector(c.agent, c.registry, c.tuning))

	c.inputDir = Normalize(Flatten(dir))
	c.targetPoint = targetPos

	c.motion.SetInput(c.inputDir, c.targetPoint, c.run, c.moving)

	// The sink owns displacement; keep the provider's simulated position
	// pinned to the integrated one so the two never diverge.
	if r3.Norm(r3.Sub(pos, c.nav.Position())) > navDriftMax {
		c.nav.SyncPosition(pos)
	}
}
