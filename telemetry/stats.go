package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Chickens int `csv:"chickens"`

	// Fraction of chicken-ticks spent in each state during the window
	IdleFrac      float64 `csv:"idle_frac"`
	FlockingFrac  float64 `csv:"flocking_frac"`
	FollowingFrac float64 `csv:"following_frac"`

	// Events during window
	Transitions int `csv:"transitions"`
	Spawns      int `csv:"spawns"`
	Despawns    int `csv:"despawns"`

	// Neighbor count distribution (sampled at window end)
	NeighborMean float64 `csv:"neighbor_mean"`
	NeighborStd  float64 `csv:"neighbor_std"`
	NeighborP10  float64 `csv:"neighbor_p10"`
	NeighborP50  float64 `csv:"neighbor_p50"`
	NeighborP90  float64 `csv:"neighbor_p90"`
}

// ComputeNeighborStats calculates mean, std, and percentiles from
// neighbor count samples.
func ComputeNeighborStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// Log logs the window stats using slog.
func (s WindowStats) Log() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"chickens", s.Chickens,
		"idle_frac", s.IdleFrac,
		"flocking_frac", s.FlockingFrac,
		"following_frac", s.FollowingFrac,
		"transitions", s.Transitions,
		"spawns", s.Spawns,
		"despawns", s.Despawns,
		"neighbor_mean", s.NeighborMean,
		"neighbor_std", s.NeighborStd,
		"neighbor_p10", s.NeighborP10,
		"neighbor_p50", s.NeighborP50,
		"neighbor_p90", s.NeighborP90,
	)
}
