package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/renderer"
	"github.com/pthm-cable/boids/ui"
)

const controlsLegend = "[1-6] weights  [Space] pause  [N] step  [</>] speed  [F] fused  [Tab] overlays  [Arrows/Wheel] camera"

// Draw renders the last snapshot and the enabled panels.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(renderer.Background)

	g.drawWorldOverlays()
	g.boids.Draw(g.camera, g.snapshot.Pos, g.snapshot.Vel, g.snapshot.Color)
	g.drawDebugOverlays()
	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the screen-space panels.
func (g *Game) drawUI() {
	y := int32(10)
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		y = g.hud.Draw(ui.HUDData{
			Params:         g.sim.Params,
			Agents:         g.snapshot.Len(),
			Capacity:       g.sim.Store.Cap(),
			GridCols:       g.sim.Grid.Cols(),
			GridRows:       g.sim.Grid.Rows(),
			Tick:           g.sim.Tick(),
			StepsPerUpdate: g.stepsPerUpdate,
			Paused:         g.paused,
			Fused:          g.sim.Fused(),
		})
	}

	if g.overlays.IsEnabled(ui.OverlayTuning) {
		g.tuning.SetPosition(10, y)
		if g.tuning.Draw(&g.sim.Params) {
			g.tuningDirty = true
		}
	} else {
		g.controls.SetPosition(10, y)
		g.controls.Draw(g.overlays)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perf.Draw(g.sim.Perf())
	}
	if g.overlays.IsEnabled(ui.OverlayFlockStats) {
		g.flock.Draw(g.sim.LastStats())
	}

	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)
}
