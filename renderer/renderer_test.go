package renderer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/boids/vecmath"
)

func TestSpriteRotation(t *testing.T) {
	tests := []struct {
		name string
		vel  vecmath.Vec2
		want float32
	}{
		{"east", vecmath.Vec2{X: 1, Y: 0}, 90},
		{"south", vecmath.Vec2{X: 0, Y: 1}, 180},
		{"north", vecmath.Vec2{X: 0, Y: -1}, 0},
		{"west", vecmath.Vec2{X: -1, Y: 0}, 270},
		{"stationary", vecmath.Vec2{}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SpriteRotation(tt.vel), 1e-3)
		})
	}
}

func TestTriangleVerticesFacing(t *testing.T) {
	s := vecmath.Vec2{X: 50, Y: 50}
	front, backRight, backLeft := TriangleVertices(s, vecmath.Vec2{X: 2, Y: 0}, 4)

	assert.InDelta(t, 56, front.X, 1e-4)
	assert.InDelta(t, 50, front.Y, 1e-4)
	assert.Less(t, backLeft.X, float32(50))
	assert.Less(t, backRight.X, float32(50))
	assert.InDelta(t, backLeft.Y-50, 50-backRight.Y, 1e-4, "symmetric about the heading")

	// raylib culls clockwise triangles; screen-space cross product must be negative.
	cross := (backRight.X-front.X)*(backLeft.Y-front.Y) - (backRight.Y-front.Y)*(backLeft.X-front.X)
	assert.Less(t, cross, float32(0))
}

func TestOccupancyColor(t *testing.T) {
	full := OccupancyColor(100, 100)
	assert.Equal(t, uint8(220), full.R)
	assert.Equal(t, OccupancyColor(0, 0), full, "zero capacity reads as full")

	low := OccupancyColor(10, 100)
	high := OccupancyColor(90, 100)
	assert.Less(t, low.A, high.A)
	assert.Less(t, low.R, high.R)
}

func TestNearest(t *testing.T) {
	pos := []vecmath.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 3, Y: 4}}
	assert.Equal(t, 2, Nearest(pos, vecmath.Vec2{X: 3, Y: 3}, 5))
	assert.Equal(t, -1, Nearest(pos, vecmath.Vec2{X: 100, Y: 100}, 5))
	assert.Equal(t, -1, Nearest(nil, vecmath.Vec2{}, float32(math.Inf(1))))
}
