package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/camera"
	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/vecmath"
)

// velocityScale stretches velocity lines so max speed reads at normal zoom.
const velocityScale = 4

// DrawVelocities draws a line from each visible agent along its velocity.
func DrawVelocities(cam *camera.Camera, pos, vel []vecmath.Vec2) {
	c := rl.Color{R: 120, G: 200, B: 255, A: 140}
	for i := range pos {
		if !cam.IsVisible(pos[i], SpriteSize) {
			continue
		}
		a := cam.WorldToScreen(pos[i])
		b := cam.WorldToScreen(pos[i].Add(vel[i].Scale(velocityScale)))
		rl.DrawLineV(rl.Vector2{X: a.X, Y: a.Y}, rl.Vector2{X: b.X, Y: b.Y}, c)
	}
}

// DrawPerception outlines the perception and separation radii around p.
func DrawPerception(cam *camera.Camera, p vecmath.Vec2, params components.Params) {
	s := cam.WorldToScreen(p)
	center := rl.Vector2{X: s.X, Y: s.Y}
	rl.DrawCircleLinesV(center, params.PerceptionRadius*cam.Zoom, rl.Color{R: 100, G: 220, B: 100, A: 200})
	rl.DrawCircleLinesV(center, params.SeparationRadius*cam.Zoom, rl.Color{R: 230, G: 90, B: 90, A: 200})
}

// Nearest returns the index in pos closest to p within maxDist, or -1.
func Nearest(pos []vecmath.Vec2, p vecmath.Vec2, maxDist float32) int {
	best := -1
	bestSq := maxDist * maxDist
	for i := range pos {
		if d := vecmath.DistSq(pos[i], p); d <= bestSq {
			best = i
			bestSq = d
		}
	}
	return best
}
