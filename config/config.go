// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/boids/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Grid       GridConfig       `yaml:"grid"`
	Flock      FlockConfig      `yaml:"flock"`
	Population PopulationConfig `yaml:"population"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Tuning     TuningConfig     `yaml:"tuning"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Sprite    string `yaml:"sprite"` // Agent texture path; empty or missing draws triangles
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // 0 = use screen width
	Height int `yaml:"height"` // 0 = use screen height
}

// GridConfig holds spatial index parameters.
type GridConfig struct {
	CellSize     float64 `yaml:"cell_size"`
	CellCapacity int     `yaml:"cell_capacity"`
	QueryMax     int     `yaml:"query_max"` // 0 = 9 * cell_capacity
}

// FlockConfig holds the initial flocking parameters.
type FlockConfig struct {
	PerceptionRadius float64 `yaml:"perception_radius"`
	SeparationRadius float64 `yaml:"separation_radius"`
	MaxSpeed         float64 `yaml:"max_speed"`
	MaxForce         float64 `yaml:"max_force"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	Fused            bool    `yaml:"fused"` // Run the single-query kernel instead of three passes
}

// PopulationConfig holds agent store sizing.
type PopulationConfig struct {
	Capacity int `yaml:"capacity"`
	Initial  int `yaml:"initial"`
}

// SpawnConfig selects and tunes the initial-state generator.
type SpawnConfig struct {
	Mode       string  `yaml:"mode"` // "random" or "noise"
	Seed       int64   `yaml:"seed"`
	Border     int     `yaml:"border"`
	NoiseScale float64 `yaml:"noise_scale"`
	NoiseSpeed float64 `yaml:"noise_speed"`
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // Below this agent count stages run serially
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int     `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	TickBudgetMS        float64 `yaml:"tick_budget_ms"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	FlockFormed    FlockFormedConfig    `yaml:"flock_formed"`
	FlockDispersed FlockDispersedConfig `yaml:"flock_dispersed"`
	GridSaturation GridSaturationConfig `yaml:"grid_saturation"`
	OverBudget     OverBudgetConfig     `yaml:"over_budget"`
}

// FlockFormedConfig triggers when polarization rises through the threshold.
type FlockFormedConfig struct {
	Polarization float64 `yaml:"polarization"`
}

// FlockDispersedConfig triggers when polarization falls through the threshold.
type FlockDispersedConfig struct {
	Polarization float64 `yaml:"polarization"`
}

// GridSaturationConfig triggers when dropped inserts spike over the rolling average.
type GridSaturationConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinDropped int     `yaml:"min_dropped"`
}

// OverBudgetConfig triggers when the fraction of ticks over budget exceeds the threshold.
type OverBudgetConfig struct {
	Fraction float64 `yaml:"fraction"`
}

// TuningConfig holds live tuning settings.
type TuningConfig struct {
	WeightStep float64 `yaml:"weight_step"` // Weight change per frame a key is held
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	WorldW32  float32 // Effective world width
	WorldH32  float32 // Effective world height
	CellSize  float32
	GridCols  int
	GridRows  int
	QueryMax  int
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
// The merged configuration is validated before it is returned.
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
		if err := Merge(cfg, data); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Default returns the embedded defaults. It panics if they fail to parse,
// which can only happen if the embedded file is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Merge overlays YAML data onto cfg. Only fields present in data are changed.
// Derived values are recomputed; call Validate to check the result.
func Merge(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	cfg.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)

	c.Derived.CellSize = float32(c.Grid.CellSize)
	if c.Grid.CellSize > 0 {
		c.Derived.GridCols = int(c.Derived.WorldW32/c.Derived.CellSize) + 1
		c.Derived.GridRows = int(c.Derived.WorldH32/c.Derived.CellSize) + 1
	}

	c.Derived.QueryMax = c.Grid.QueryMax
	if c.Derived.QueryMax == 0 {
		c.Derived.QueryMax = 9 * c.Grid.CellCapacity
	}
}

// FlockParams returns the flocking parameters as the kernels consume them.
func (c *Config) FlockParams() components.Params {
	f := c.Flock
	return components.Params{
		PerceptionRadius: float32(f.PerceptionRadius),
		SeparationRadius: float32(f.SeparationRadius),
		MaxSpeed:         float32(f.MaxSpeed),
		MaxForce:         float32(f.MaxForce),
		SeparationWeight: float32(f.SeparationWeight),
		AlignmentWeight:  float32(f.AlignmentWeight),
		CohesionWeight:   float32(f.CohesionWeight),
	}
}

// SetFlockParams stores p back into the flock section, e.g. before WriteYAML.
func (c *Config) SetFlockParams(p components.Params) {
	c.Flock.PerceptionRadius = float64(p.PerceptionRadius)
	c.Flock.SeparationRadius = float64(p.SeparationRadius)
	c.Flock.MaxSpeed = float64(p.MaxSpeed)
	c.Flock.MaxForce = float64(p.MaxForce)
	c.Flock.SeparationWeight = float64(p.SeparationWeight)
	c.Flock.AlignmentWeight = float64(p.AlignmentWeight)
	c.Flock.CohesionWeight = float64(p.CohesionWeight)
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
