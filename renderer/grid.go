package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/camera"
	"github.com/pthm-cable/boids/systems"
	"github.com/pthm-cable/boids/vecmath"
)

var gridLineColor = rl.Color{R: 70, G: 70, B: 70, A: 120}

// DrawGridLines draws the spatial index cell boundaries.
func DrawGridLines(cam *camera.Camera, g *systems.SpatialGrid) {
	cs := g.CellSize()
	w := float32(g.Cols()) * cs
	h := float32(g.Rows()) * cs

	for c := 0; c <= g.Cols(); c++ {
		x := float32(c) * cs
		a := cam.WorldToScreen(vecmath.Vec2{X: x, Y: 0})
		b := cam.WorldToScreen(vecmath.Vec2{X: x, Y: h})
		rl.DrawLineV(rl.Vector2{X: a.X, Y: a.Y}, rl.Vector2{X: b.X, Y: b.Y}, gridLineColor)
	}
	for r := 0; r <= g.Rows(); r++ {
		y := float32(r) * cs
		a := cam.WorldToScreen(vecmath.Vec2{X: 0, Y: y})
		b := cam.WorldToScreen(vecmath.Vec2{X: w, Y: y})
		rl.DrawLineV(rl.Vector2{X: a.X, Y: a.Y}, rl.Vector2{X: b.X, Y: b.Y}, gridLineColor)
	}
}

// DrawOccupancy shades each non-empty cell by how full it is.
func DrawOccupancy(cam *camera.Camera, g *systems.SpatialGrid) {
	cs := g.CellSize()
	size := cs * cam.Zoom
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			n := len(g.Cell(c, r))
			if n == 0 {
				continue
			}
			s := cam.WorldToScreen(vecmath.Vec2{X: float32(c) * cs, Y: float32(r) * cs})
			rl.DrawRectangleV(rl.Vector2{X: s.X, Y: s.Y}, rl.Vector2{X: size, Y: size}, OccupancyColor(n, g.CellCap()))
		}
	}
}

// OccupancyColor maps a cell's fill to a translucent blue-to-yellow ramp,
// and to red once the cell is at capacity.
func OccupancyColor(n, capacity int) rl.Color {
	if capacity <= 0 || n >= capacity {
		return rl.Color{R: 220, G: 40, B: 40, A: 140}
	}
	t := float32(n) / float32(capacity)
	return rl.Color{
		R: uint8(40 + t*200),
		G: uint8(60 + t*160),
		B: uint8(160 - t*120),
		A: uint8(40 + t*80),
	}
}
