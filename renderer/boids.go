// Package renderer draws the flock and world overlays with raylib.
package renderer

import (
	"image/color"
	"log/slog"
	"math"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/boids/camera"
	"github.com/pthm-cable/boids/vecmath"
)

// Sprite geometry in world units.
const (
	SpriteSize   = 8
	SpriteOrigin = SpriteSize / 2
)

// Background is the clear color behind the flock.
var Background = rl.Color{R: 31, G: 31, B: 31, A: 255}

// BoidRenderer draws agents as a tinted sprite rotated to face their velocity.
// Without a sprite file it draws oriented triangles instead.
type BoidRenderer struct {
	spritePath  string
	texture     rl.Texture2D
	hasTexture  bool
	initialized bool
}

// NewBoidRenderer creates a renderer for the sprite at path. An empty path
// selects triangles.
func NewBoidRenderer(path string) *BoidRenderer {
	return &BoidRenderer{spritePath: path}
}

// Init loads the sprite (must be called after the raylib window is created).
func (b *BoidRenderer) Init() {
	if b.initialized {
		return
	}
	b.initialized = true

	if b.spritePath == "" {
		return
	}
	if _, err := os.Stat(b.spritePath); err != nil {
		slog.Warn("boid sprite unavailable, drawing triangles", "path", b.spritePath, "error", err)
		return
	}
	b.texture = rl.LoadTexture(b.spritePath)
	b.hasTexture = b.texture.ID != 0
}

// Draw renders every agent. The slices are parallel and hold only agents to draw.
func (b *BoidRenderer) Draw(cam *camera.Camera, pos, vel []vecmath.Vec2, colors []color.RGBA) {
	if !b.initialized {
		b.Init()
	}

	size := SpriteSize * cam.Zoom
	source := rl.Rectangle{X: 0, Y: 0, Width: float32(b.texture.Width), Height: float32(b.texture.Height)}
	origin := rl.Vector2{X: size / 2, Y: size / 2}

	for i := range pos {
		if !cam.IsVisible(pos[i], SpriteSize) {
			continue
		}
		s := cam.WorldToScreen(pos[i])
		tint := rl.Color(colors[i])

		if b.hasTexture {
			dest := rl.Rectangle{X: s.X, Y: s.Y, Width: size, Height: size}
			rl.DrawTexturePro(b.texture, source, dest, origin, SpriteRotation(vel[i]), tint)
			continue
		}
		v1, v2, v3 := TriangleVertices(s, vel[i], size/2)
		rl.DrawTriangle(v1, v2, v3, tint)
	}
}

// Unload frees the sprite texture.
func (b *BoidRenderer) Unload() {
	if b.hasTexture {
		rl.UnloadTexture(b.texture)
		b.hasTexture = false
	}
	b.initialized = false
}

// SpriteRotation returns the sprite rotation in degrees for a velocity.
// The sprite points up, so a heading of 0 (facing +x) maps to 90.
func SpriteRotation(vel vecmath.Vec2) float32 {
	return vel.Heading()*rl.Rad2deg + 90
}

// TriangleVertices returns a triangle centered at s pointing along vel, in
// counter-clockwise order as raylib expects for screen space.
func TriangleVertices(s, vel vecmath.Vec2, radius float32) (front, backRight, backLeft rl.Vector2) {
	h := float64(vel.Heading())
	cos, sin := float32(math.Cos(h)), float32(math.Sin(h))

	front = rl.Vector2{X: s.X + cos*radius*1.5, Y: s.Y + sin*radius*1.5}

	const backAngle = 2.5 // radians off the heading
	bl := h + backAngle
	br := h - backAngle
	backLeft = rl.Vector2{X: s.X + float32(math.Cos(bl))*radius, Y: s.Y + float32(math.Sin(bl))*radius}
	backRight = rl.Vector2{X: s.X + float32(math.Cos(br))*radius, Y: s.Y + float32(math.Sin(br))*radius}
	return front, backRight, backLeft
}
