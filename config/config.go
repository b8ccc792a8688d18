// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	World     WorldConfig      `yaml:"world"`
	Sim       SimConfig        `yaml:"sim"`
	Behavior  BehaviorConfig   `yaml:"behavior"`
	Movement  MovementConfig   `yaml:"movement"`
	Nav       NavConfig        `yaml:"nav"`
	Keeper    KeeperConfig     `yaml:"keeper"`
	Obstacles []ObstacleConfig `yaml:"obstacles"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds yard dimensions in world units. The yard floor is the XZ
// plane; the viewer looks straight down at it.
type WorldConfig struct {
	Width         float64 `yaml:"width"`
	Depth         float64 `yaml:"depth"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

// SimConfig holds simulation stepping parameters.
type SimConfig struct {
	DT       float64 `yaml:"dt"`       // seconds per tick
	Chickens int     `yaml:"chickens"` // initial flock size
}

// BehaviorConfig holds the per-chicken steering and state machine tuning.
// These map one to one onto systems.Tuning and never change at runtime.
type BehaviorConfig struct {
	FollowDistance   float64  `yaml:"follow_distance"`   // beyond this, chase the keeper
	FlockNeighbors   int      `yaml:"flock_neighbors"`   // neighbor count that forms a flock
	IdleTime         float64  `yaml:"idle_time"`         // seconds idle before a restless roll
	CheckInterval    float64  `yaml:"check_interval"`    // seconds between transition checks
	NeighborRadius   float64  `yaml:"neighbor_radius"`
	SeparationRadius float64  `yaml:"separation_radius"`
	AvoidanceRadius  float64  `yaml:"avoidance_radius"`
	CohesionWeight   float64  `yaml:"cohesion_weight"`
	AlignmentWeight  float64  `yaml:"alignment_weight"`
	SeparationWeight float64  `yaml:"separation_weight"`
	AvoidanceWeight  float64  `yaml:"avoidance_weight"`
	ObstacleLayers   []string `yaml:"obstacle_layers"` // layer names the birds steer around
}

// MovementConfig holds the motion integrator parameters.
type MovementConfig struct {
	WalkSpeed float64 `yaml:"walk_speed"` // units per second
	RunSpeed  float64 `yaml:"run_speed"`
	TurnRate  float64 `yaml:"turn_rate"` // radians per second
}

// NavConfig holds the destination-seeking provider parameters.
type NavConfig struct {
	Speed        float64 `yaml:"speed"`
	ArriveRadius float64 `yaml:"arrive_radius"`
}

// KeeperConfig holds the wandering target parameters.
type KeeperConfig struct {
	Speed        float64 `yaml:"speed"`
	ArriveRadius float64 `yaml:"arrive_radius"`
	IdleMin      float64 `yaml:"idle_min"` // seconds to linger at a waypoint
	IdleMax      float64 `yaml:"idle_max"`
	Margin       float64 `yaml:"margin"` // keep waypoints this far from the fence
}

// ObstacleConfig places a static sphere blocker in the yard.
type ObstacleConfig struct {
	X      float64 `yaml:"x"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Layer  string  `yaml:"layer"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TicksPerSecond float64
	HalfWidth      float64 // yard half extent along X
	HalfDepth      float64 // yard half extent along Z
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Sim.DT <= 0 {
		c.Sim.DT = 1.0 / 60.0
	}
	c.Derived.TicksPerSecond = 1.0 / c.Sim.DT
	c.Derived.HalfWidth = c.World.Width / 2
	c.Derived.HalfDepth = c.World.Depth / 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
