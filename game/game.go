// Package game wires the flock core into a runnable yard simulation: an ark
// ECS world of chickens and one keeper, motion integration, telemetry, and
// an optional raylib viewer.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/coop/camera"
	"github.com/pthm-cable/coop/components"
	"github.com/pthm-cable/coop/config"
	"github.com/pthm-cable/coop/systems"
	"github.com/pthm-cable/coop/telemetry"
)

// Options configures a new game.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int
}

// Game owns the simulation world and its update loop.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	chickenMapper *ecs.Map4[components.Position, components.Forward, components.Motion, components.Chicken]
	keeperMapper  *ecs.Map2[components.Position, components.Keeper]
	posMap        *ecs.Map1[components.Position]
	fwdMap        *ecs.Map1[components.Forward]
	motionMap     *ecs.Map1[components.Motion]

	registry  *systems.Registry
	obstacles *systems.ObstacleField
	tuning    systems.Tuning

	units  []*chickenUnit
	keeper *keeper

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *phaseTimer
	parallel  *parallelState

	cam *camera.Camera

	tick           int64
	dt             float64
	paused         bool
	debugMode      bool
	speed          int // simulation steps per update
	logStats       bool
	headless       bool
	prevStates     map[uuid.UUID]systems.State
	worldW, worldD float64
	ppu            float64 // pixels per world unit when rendering
}

// New creates a game from the global config and the given options.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()

	tuning, err := tuningFromConfig(&cfg.Behavior)
	if err != nil {
		return nil, fmt.Errorf("building tuning: %w", err)
	}
	field, err := obstacleFieldFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building obstacle field: %w", err)
	}

	world := ecs.NewWorld()
	g := &Game{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),

		chickenMapper: ecs.NewMap4[components.Position, components.Forward, components.Motion, components.Chicken](world),
		keeperMapper:  ecs.NewMap2[components.Position, components.Keeper](world),
		posMap:        ecs.NewMap1[components.Position](world),
		fwdMap:        ecs.NewMap1[components.Forward](world),
		motionMap:     ecs.NewMap1[components.Motion](world),

		registry:  systems.NewRegistry(),
		obstacles: field,
		tuning:    tuning,

		perf:       newPhaseTimer(),
		parallel:   newParallelState(),
		dt:         cfg.Sim.DT,
		speed:      max(1, opts.StepsPerUpdate),
		logStats:   opts.LogStats,
		headless:   opts.Headless,
		prevStates: make(map[uuid.UUID]systems.State),
		worldW:     cfg.World.Width,
		worldD:     cfg.World.Depth,
		ppu:        cfg.World.PixelsPerUnit,
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Sim.DT)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		g.output = om
		if err := om.WriteConfig(cfg); err != nil {
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
	}

	if !opts.Headless {
		g.cam = camera.New(
			float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			float32(cfg.World.Width*cfg.World.PixelsPerUnit),
			float32(cfg.World.Depth*cfg.World.PixelsPerUnit),
		)
	}

	g.spawnKeeper()
	g.spawnInitialFlock(cfg.Sim.Chickens)

	return g, nil
}

// spawnInitialFlock scatters the starting chickens over the yard.
func (g *Game) spawnInitialFlock(n int) {
	for i := 0; i < n; i++ {
		pos := g.randomYardPoint(1.0)
		heading := g.rng.Float64() * 2 * math.Pi
		g.SpawnChicken(pos, heading)
	}
}

// randomYardPoint picks a uniform point in the yard keeping the given margin
// from the fence.
func (g *Game) randomYardPoint(margin float64) r3.Vec {
	halfW := g.worldW/2 - margin
	halfD := g.worldD/2 - margin
	return r3.Vec{
		X: (g.rng.Float64()*2 - 1) * halfW,
		Z: (g.rng.Float64()*2 - 1) * halfD,
	}
}

// Update runs one frame in graphical mode: input, then the configured number
// of simulation steps.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.speed; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs the configured number of simulation steps without any
// input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.speed; i++ {
		g.simulationStep()
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// Flock returns the number of live chickens.
func (g *Game) Flock() int {
	return len(g.units)
}

// Unload releases worker goroutines and output files.
func (g *Game) Unload() {
	g.parallel.stopWorkers()
	if err := g.output.Close(); err != nil {
		slog.Error("closing telemetry output", "error", err)
	}
}
