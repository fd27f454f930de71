// Package game owns the simulation aggregate and its fixed-step frame loop.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/config"
	"github.com/pthm-cable/boids/systems"
	"github.com/pthm-cable/boids/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Width, Height float32

	CellSize     float32
	CellCapacity int
	QueryMax     int

	Capacity int
	Params   components.Params
	Fused    bool

	Workers           int // 0 = GOMAXPROCS
	ParallelThreshold int

	StatsWindow     int32
	PerfWindow      int
	TickBudget      time.Duration
	BookmarkHistory int
	Bookmarks       telemetry.BookmarkThresholds

	Output        *telemetry.OutputManager
	LogStats      bool
	StatsCallback func(telemetry.WindowStats)
}

// OptionsFromConfig maps a loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	b := cfg.Bookmarks
	return Options{
		Width:             cfg.Derived.WorldW32,
		Height:            cfg.Derived.WorldH32,
		CellSize:          cfg.Derived.CellSize,
		CellCapacity:      cfg.Grid.CellCapacity,
		QueryMax:          cfg.Derived.QueryMax,
		Capacity:          cfg.Population.Capacity,
		Params:            cfg.FlockParams(),
		Fused:             cfg.Flock.Fused,
		Workers:           cfg.Parallel.Workers,
		ParallelThreshold: cfg.Parallel.Threshold,
		StatsWindow:       int32(cfg.Telemetry.StatsWindow),
		PerfWindow:        cfg.Telemetry.PerfCollectorWindow,
		TickBudget:        time.Duration(cfg.Telemetry.TickBudgetMS * float64(time.Millisecond)),
		BookmarkHistory:   cfg.Telemetry.BookmarkHistorySize,
		Bookmarks: telemetry.BookmarkThresholds{
			FormedPolarization:    b.FlockFormed.Polarization,
			DispersedPolarization: b.FlockDispersed.Polarization,
			SaturationMultiplier:  b.GridSaturation.Multiplier,
			SaturationMinDropped:  b.GridSaturation.MinDropped,
			OverBudgetFraction:    b.OverBudget.Fraction,
		},
	}
}

// Simulation owns all flock state. It is not safe for concurrent use:
// Step, Snapshot, and edits to Params must happen on one goroutine.
type Simulation struct {
	Store *components.Store
	Grid  *systems.SpatialGrid

	// Params is read once at the start of each Step; edit it between frames.
	Params components.Params

	bounds   systems.Bounds
	frame    systems.Frame
	fused    bool
	parallel *parallelState

	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)

	tick        int32
	lastRefused int
	lastStats   telemetry.WindowStats
	lastPerf    telemetry.PerfStats

	// Telemetry sample buffers, reused across windows
	speeds, velX, velY []float64
}

// New creates an empty simulation.
func New(opts Options) *Simulation {
	if opts.QueryMax <= 0 {
		opts.QueryMax = 9 * opts.CellCapacity
	}
	if opts.StatsWindow <= 0 {
		opts.StatsWindow = 600
	}
	if opts.BookmarkHistory <= 0 {
		opts.BookmarkHistory = 10
	}
	if opts.Bookmarks == (telemetry.BookmarkThresholds{}) {
		opts.Bookmarks = telemetry.DefaultBookmarkThresholds()
	}

	s := &Simulation{
		Store:            components.NewStore(opts.Capacity),
		Grid:             systems.NewSpatialGrid(opts.Width, opts.Height, opts.CellSize, opts.CellCapacity),
		Params:           opts.Params,
		bounds:           systems.Bounds{Width: opts.Width, Height: opts.Height},
		fused:            opts.Fused,
		perfCollector:    telemetry.NewPerfCollector(opts.PerfWindow),
		collector:        telemetry.NewCollector(opts.StatsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(opts.BookmarkHistory, opts.Bookmarks),
		outputManager:    opts.Output,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	s.perfCollector.SetBudget(opts.TickBudget)
	s.frame = systems.Frame{
		Store:        s.Store,
		Grid:         s.Grid,
		Params:       s.Params,
		MaxNeighbors: opts.QueryMax,
		Bounds:       s.bounds,
	}
	s.parallel = newParallelState(&s.frame, opts.Workers, opts.ParallelThreshold)

	return s
}

// NewFromConfig creates a simulation from cfg and populates it with the
// configured spawner. seed overrides cfg.Spawn.Seed when non-zero; if both are
// zero the current time is used. Each edit is applied to the derived Options
// before the simulation is built.
func NewFromConfig(cfg *config.Config, seed int64, edits ...func(*Options)) (*Simulation, error) {
	if seed == 0 {
		seed = cfg.Spawn.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sp, err := NewSpawner(cfg, seed)
	if err != nil {
		return nil, err
	}

	opts := OptionsFromConfig(cfg)
	for _, edit := range edits {
		edit(&opts)
	}

	s := New(opts)
	if created, err := s.Spawn(sp, cfg.Population.Initial); err != nil {
		slog.Warn("initial population truncated", "created", created,
			"requested", cfg.Population.Initial, "error", err)
	}
	return s, nil
}

// NewSpawner builds the initial-state generator named by cfg.Spawn.Mode.
func NewSpawner(cfg *config.Config, seed int64) (systems.Spawner, error) {
	bounds := systems.Bounds{Width: cfg.Derived.WorldW32, Height: cfg.Derived.WorldH32}
	switch cfg.Spawn.Mode {
	case "", "random":
		return systems.NewRandomSpawner(seed, bounds, cfg.Spawn.Border, components.DefaultPalette), nil
	case "noise":
		return systems.NewNoiseSpawner(seed, bounds, float32(cfg.Spawn.Border),
			float32(cfg.Spawn.NoiseScale), float32(cfg.Spawn.NoiseSpeed), components.DefaultPalette), nil
	default:
		return nil, fmt.Errorf("unknown spawn mode %q", cfg.Spawn.Mode)
	}
}

// Spawn creates up to n agents from sp. A full store stops spawning early and
// returns components.ErrStoreFull with the number created.
func (s *Simulation) Spawn(sp systems.Spawner, n int) (int, error) {
	return systems.Populate(s.Store, sp, n)
}

// Despawn deactivates agent id. The slot is reclaimed only by Compact.
func (s *Simulation) Despawn(id int) bool {
	return s.Store.Deactivate(id)
}

// Compact removes inactive slots and returns the old-to-new id remap.
// Call it between frames; ids held by the caller must be translated.
func (s *Simulation) Compact() []int {
	return s.Store.Compact()
}

// Step advances the simulation by one fixed step.
func (s *Simulation) Step() {
	s.perfCollector.StartTick()

	s.frame.Params = s.Params
	n := s.Store.Len()

	s.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	s.Grid.Rebuild(s.Store)

	s.perfCollector.StartPhase(telemetry.PhaseReset)
	s.parallel.run(systems.ResetAcceleration, n)

	if s.fused {
		s.perfCollector.StartPhase(telemetry.PhaseFlock)
		s.parallel.run(systems.Flock, n)
	} else {
		s.perfCollector.StartPhase(telemetry.PhaseSeparation)
		s.parallel.run(systems.Separation, n)
		s.perfCollector.StartPhase(telemetry.PhaseAlignment)
		s.parallel.run(systems.Alignment, n)
		s.perfCollector.StartPhase(telemetry.PhaseCohesion)
		s.parallel.run(systems.Cohesion, n)
	}

	s.perfCollector.StartPhase(telemetry.PhaseIntegrate)
	s.parallel.run(systems.Integrate, n)

	s.perfCollector.StartPhase(telemetry.PhaseWrap)
	s.parallel.run(systems.Wrap, n)

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.recordFrame()
	s.flushTelemetry()

	s.perfCollector.EndTick()
}

// Run steps until ctx is cancelled or maxTicks frames have run (0 = unbounded).
// Cancellation is observed between frames only.
func (s *Simulation) Run(ctx context.Context, maxTicks int32) error {
	for maxTicks == 0 || s.tick < maxTicks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Step()
	}
	return nil
}

// Close stops the worker pool. The simulation may not be stepped afterwards.
func (s *Simulation) Close() {
	s.parallel.stopWorkers()
}

// Tick returns the number of completed frames.
func (s *Simulation) Tick() int32 { return s.tick }

// Bounds returns the world rectangle.
func (s *Simulation) Bounds() systems.Bounds { return s.bounds }

// Fused reports whether the single-query kernel is in use.
func (s *Simulation) Fused() bool { return s.fused }

// SetFused switches between the fused kernel and the three separate passes.
func (s *Simulation) SetFused(fused bool) { s.fused = fused }

// Perf returns the current performance window.
func (s *Simulation) Perf() telemetry.PerfStats {
	return s.perfCollector.Stats()
}

// PerfCollector exposes the collector so the render loop can record frame timing.
func (s *Simulation) PerfCollector() *telemetry.PerfCollector {
	return s.perfCollector
}

// LastStats returns the most recently flushed stats window.
func (s *Simulation) LastStats() telemetry.WindowStats {
	return s.lastStats
}
