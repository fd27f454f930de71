package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/camera"
	"github.com/pthm-cable/boids/config"
	"github.com/pthm-cable/boids/renderer"
	"github.com/pthm-cable/boids/ui"
)

// maxStepsPerUpdate caps the speed-up keys.
const maxStepsPerUpdate = 10

// Game drives a Simulation from the raylib window loop.
// All methods must be called on the goroutine that owns the window.
type Game struct {
	sim *Simulation

	camera   *camera.Camera
	boids    *renderer.BoidRenderer
	overlays *ui.OverlayRegistry
	hud      *ui.HUD
	perf     *ui.PerfPanel
	flock    *ui.FlockStatsPanel
	tuning   *ui.TuningPanel
	controls *ui.ControlsPanel

	// Drawn state; the renderer reads only this copy
	snapshot *Snapshot
	hovered  int // index into snapshot, -1 if none

	paused         bool
	stepsPerUpdate int
	weightStep     float32
	tuningDirty    bool

	screenWidth, screenHeight float32
}

// NewGame wraps sim for interactive display. The raylib window must already exist.
func NewGame(sim *Simulation, cfg *config.Config) *Game {
	sw := float32(rl.GetScreenWidth())
	sh := float32(rl.GetScreenHeight())
	b := sim.Bounds()

	g := &Game{
		sim:            sim,
		camera:         camera.New(sw, sh, b.Width, b.Height),
		boids:          renderer.NewBoidRenderer(cfg.Screen.Sprite),
		overlays:       ui.NewOverlayRegistry(),
		hud:            ui.NewHUD(),
		perf:           ui.NewPerfPanel(int32(sw)-300, 10),
		flock:          ui.NewFlockStatsPanel(int32(sw)-330, 260, 320),
		tuning:         ui.NewTuningPanel(10, 200, 320, cfg.FlockParams()),
		controls:       ui.NewControlsPanel(10, 200, 240),
		hovered:        -1,
		stepsPerUpdate: 1,
		weightStep:     float32(cfg.Tuning.WeightStep),
		screenWidth:    sw,
		screenHeight:   sh,
	}
	g.boids.Init()
	g.snapshot = sim.Snapshot(nil)
	return g
}

// Update handles input and advances the simulation.
func (g *Game) Update() {
	g.sim.PerfCollector().RecordFrame()
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.sim.Step()
		}
	}

	// Single-buffer discipline: copy after stepping, before drawing.
	g.snapshot = g.sim.Snapshot(g.snapshot)
	g.updateHovered()
}

// Tick returns the simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}

// Unload frees window resources and logs any tuning changes made this session.
func (g *Game) Unload() {
	g.boids.Unload()
	if g.tuningDirty {
		slog.Info("flocking parameters changed", "params", g.sim.Params)
	}
}
