// Package camera maps between world and screen space for the renderer.
package camera

import "github.com/pthm-cable/boids/vecmath"

// Camera controls the viewport into a bounded world.
// The world does not wrap for drawing purposes; the view is clamped to it.
type Camera struct {
	// Center of the view in world coordinates
	Center vecmath.Vec2

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world. The starting zoom fits the
// whole world in the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole world is visible.
func (c *Camera) fitZoom() float32 {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		return 1
	}
	return min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts a world position to screen coordinates.
func (c *Camera) WorldToScreen(p vecmath.Vec2) vecmath.Vec2 {
	return vecmath.Vec2{
		X: c.ViewportW/2 + (p.X-c.Center.X)*c.Zoom,
		Y: c.ViewportH/2 + (p.Y-c.Center.Y)*c.Zoom,
	}
}

// ScreenToWorld converts screen coordinates to a world position.
func (c *Camera) ScreenToWorld(s vecmath.Vec2) vecmath.Vec2 {
	return vecmath.Vec2{
		X: c.Center.X + (s.X-c.ViewportW/2)/c.Zoom,
		Y: c.Center.Y + (s.Y-c.ViewportH/2)/c.Zoom,
	}
}

// IsVisible reports whether a circle at p could be on screen.
// Conservative, used for culling.
func (c *Camera) IsVisible(p vecmath.Vec2, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(p.X-c.Center.X) <= halfW && absf(p.Y-c.Center.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by a delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.Center.X += dx / c.Zoom
	c.Center.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the world point under screen
// position s fixed, as for mouse-wheel zoom.
func (c *Camera) ZoomAt(s vecmath.Vec2, factor float32) {
	anchor := c.ScreenToWorld(s)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.Center.X = anchor.X - (s.X-c.ViewportW/2)/c.Zoom
	c.Center.Y = anchor.Y - (s.Y-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset shows the whole world.
func (c *Camera) Reset() {
	c.Center = vecmath.Vec2{X: c.WorldW / 2, Y: c.WorldH / 2}
	c.Zoom = c.MinZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.Center.X - halfW, c.Center.Y - halfH, c.Center.X + halfW, c.Center.Y + halfH
}

// clampCenter keeps the view inside the world. When the view is larger than
// the world along an axis, the world is centered on that axis.
func (c *Camera) clampCenter() {
	c.Center.X = clampAxis(c.Center.X, c.ViewportW/(2*c.Zoom), c.WorldW)
	c.Center.Y = clampAxis(c.Center.Y, c.ViewportH/(2*c.Zoom), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
