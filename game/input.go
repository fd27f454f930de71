package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/renderer"
	"github.com/pthm-cable/boids/ui"
	"github.com/pthm-cable/boids/vecmath"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyF) {
		g.sim.SetFused(!g.sim.Fused())
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.controls.Toggle()
	}

	// Single-step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyN) {
		g.sim.Step()
	}

	if ui.ApplyWeightKeys(&g.sim.Params, ui.DefaultWeightKeys, g.weightStep, rl.IsKeyDown) {
		g.tuningDirty = true
	}

	g.handleOverlayKeys()
	g.handleCameraInput()
}

// handleOverlayKeys toggles overlays bound to a pressed key.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.overlays.HandleKeyPress(key)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.perf.SetPosition(int32(w)-300, 10)
	g.flock.SetPosition(int32(w)-330, 260)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor with the wheel
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		m := rl.GetMousePosition()
		g.camera.ZoomAt(vecmath.Vec2{X: m.X, Y: m.Y}, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}

// updateHovered finds the drawn agent under the cursor.
func (g *Game) updateHovered() {
	if !g.overlays.IsEnabled(ui.OverlayPerception) {
		g.hovered = -1
		return
	}
	m := rl.GetMousePosition()
	w := g.camera.ScreenToWorld(vecmath.Vec2{X: m.X, Y: m.Y})
	g.hovered = renderer.Nearest(g.snapshot.Pos, w, 3*renderer.SpriteSize)
}
