// Package vecmath provides the 2D vector helpers used by the flocking systems.
package vecmath

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float32
}

// Zero is the zero vector.
var Zero = Vec2{}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// LenSq returns the squared magnitude. Use for comparisons to avoid the sqrt.
func (v Vec2) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the magnitude.
func (v Vec2) Len() float32 {
	return sqrt32(v.LenSq())
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float32 {
	return a.Sub(b).Len()
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b Vec2) float32 {
	return a.Sub(b).LenSq()
}

// Limit rescales v to magnitude max when |v| exceeds it and returns v unchanged otherwise.
// A negative cap is treated as zero.
func Limit(v Vec2, max float32) Vec2 {
	if max < 0 {
		max = 0
	}
	magSq := v.LenSq()
	if magSq > max*max {
		mag := sqrt32(magSq)
		return Vec2{(v.X / mag) * max, (v.Y / mag) * max}
	}
	return v
}

// SetMag returns v rescaled to magnitude mag.
// The zero vector has no direction and is returned as-is.
func SetMag(v Vec2, mag float32) Vec2 {
	current := v.Len()
	if current > 0 {
		return Vec2{(v.X / current) * mag, (v.Y / current) * mag}
	}
	return v
}

// Heading returns the angle of v in radians relative to the X axis, in [-Pi, Pi].
func (v Vec2) Heading() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
