package telemetry

import "github.com/pthm-cable/coop/systems"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	// Event counters for current window
	stateTicks  [3]int64
	transitions int
	spawns      int
	despawns    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordState records one tick spent in the given state by one chicken.
func (c *Collector) RecordState(s systems.State) {
	if int(s) < len(c.stateTicks) {
		c.stateTicks[s]++
	}
}

// RecordTransition records a state change.
func (c *Collector) RecordTransition() {
	c.transitions++
}

// RecordSpawn records a chicken spawn.
func (c *Collector) RecordSpawn() {
	c.spawns++
}

// RecordDespawn records a chicken removal.
func (c *Collector) RecordDespawn() {
	c.despawns++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// neighborCounts holds the neighbor count of each chicken sampled at
// flush time, used for the distribution columns.
func (c *Collector) Flush(currentTick int64, chickens int, neighborCounts []float64) WindowStats {
	total := c.stateTicks[0] + c.stateTicks[1] + c.stateTicks[2]

	var idleFrac, flockFrac, followFrac float64
	if total > 0 {
		idleFrac = float64(c.stateTicks[systems.StateIdle]) / float64(total)
		flockFrac = float64(c.stateTicks[systems.StateFlocking]) / float64(total)
		followFrac = float64(c.stateTicks[systems.StateFollowing]) / float64(total)
	}

	mean, std, p10, p50, p90 := ComputeNeighborStats(neighborCounts)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Chickens: chickens,

		IdleFrac:      idleFrac,
		FlockingFrac:  flockFrac,
		FollowingFrac: followFrac,

		Transitions: c.transitions,
		Spawns:      c.spawns,
		Despawns:    c.despawns,

		NeighborMean: mean,
		NeighborStd:  std,
		NeighborP10:  p10,
		NeighborP50:  p50,
		NeighborP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.stateTicks = [3]int64{}
	c.transitions = 0
	c.spawns = 0
	c.despawns = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
