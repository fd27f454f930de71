package game

import (
	"github.com/pthm-cable/boids/renderer"
	"github.com/pthm-cable/boids/ui"
)

// drawWorldOverlays draws overlays that sit beneath the agents.
func (g *Game) drawWorldOverlays() {
	switch {
	case g.overlays.IsEnabled(ui.OverlayGrid):
		renderer.DrawGridLines(g.camera, g.sim.Grid)
	case g.overlays.IsEnabled(ui.OverlayDensity):
		renderer.DrawOccupancy(g.camera, g.sim.Grid)
	}
}

// drawDebugOverlays draws overlays on top of the agents.
func (g *Game) drawDebugOverlays() {
	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		renderer.DrawVelocities(g.camera, g.snapshot.Pos, g.snapshot.Vel)
	}
	if g.hovered >= 0 && g.hovered < g.snapshot.Len() {
		renderer.DrawPerception(g.camera, g.snapshot.Pos[g.hovered], g.sim.Params)
	}
}
