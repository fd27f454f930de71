package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/vecmath"
)

// Spawner produces initial agent state.
type Spawner interface {
	Next() (pos, vel vecmath.Vec2, c color.RGBA)
}

// Populate creates n agents from sp. It stops at the first refusal and
// returns how many agents were created along with the store's error.
func Populate(s *components.Store, sp Spawner, n int) (int, error) {
	for i := 0; i < n; i++ {
		pos, vel, c := sp.Next()
		if _, err := s.Create(pos, vel, c); err != nil {
			return i, err
		}
	}
	return n, nil
}

// RandomSpawner places agents at uniform integer positions inside a border
// and gives each velocity component a value in {-1, -0.75, ..., 1}.
type RandomSpawner struct {
	rng     *rand.Rand
	bounds  Bounds
	border  int
	palette []color.RGBA
}

// NewRandomSpawner returns a seeded spawner. An empty palette falls back to
// components.DefaultPalette.
func NewRandomSpawner(seed int64, bounds Bounds, border int, palette []color.RGBA) *RandomSpawner {
	if len(palette) == 0 {
		palette = components.DefaultPalette
	}
	return &RandomSpawner{
		rng:     rand.New(rand.NewSource(seed)),
		bounds:  bounds,
		border:  max(border, 0),
		palette: palette,
	}
}

// Next implements Spawner.
func (r *RandomSpawner) Next() (vecmath.Vec2, vecmath.Vec2, color.RGBA) {
	pos := vecmath.Vec2{
		X: float32(r.intIn(r.border, int(r.bounds.Width)-r.border)),
		Y: float32(r.intIn(r.border, int(r.bounds.Height)-r.border)),
	}
	vel := vecmath.Vec2{
		X: float32(r.intIn(-4, 4)) * 0.25,
		Y: float32(r.intIn(-4, 4)) * 0.25,
	}
	return pos, vel, r.palette[r.rng.Intn(len(r.palette))]
}

// intIn returns a uniform integer in [lo, hi]. An empty range yields lo.
func (r *RandomSpawner) intIn(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}

// NoiseSpawner seeds agents from a coherent simplex noise field, so agents
// that start close together head in similar directions and share a color.
// Positions are uniform random; headings and colors come from the field.
type NoiseSpawner struct {
	rng     *rand.Rand
	noise   opensimplex.Noise32
	bounds  Bounds
	border  float32
	scale   float32
	speed   float32
	palette []color.RGBA
}

// NewNoiseSpawner returns a seeded noise spawner. scale is the noise frequency
// in cycles per world unit; speed is the initial speed of every agent.
func NewNoiseSpawner(seed int64, bounds Bounds, border, scale, speed float32, palette []color.RGBA) *NoiseSpawner {
	if len(palette) == 0 {
		palette = components.DefaultPalette
	}
	return &NoiseSpawner{
		rng:     rand.New(rand.NewSource(seed)),
		noise:   opensimplex.NewNormalized32(seed),
		bounds:  bounds,
		border:  max(border, 0),
		scale:   scale,
		speed:   speed,
		palette: palette,
	}
}

// Next implements Spawner.
func (n *NoiseSpawner) Next() (vecmath.Vec2, vecmath.Vec2, color.RGBA) {
	pos := vecmath.Vec2{
		X: n.floatIn(n.border, n.bounds.Width-n.border),
		Y: n.floatIn(n.border, n.bounds.Height-n.border),
	}

	// Noise is normalized to [0, 1); offset the second sample so heading and
	// color are not correlated.
	h := n.noise.Eval2(pos.X*n.scale, pos.Y*n.scale)
	heading := float64(h) * 2 * math.Pi
	vel := vecmath.Vec2{
		X: float32(math.Cos(heading)) * n.speed,
		Y: float32(math.Sin(heading)) * n.speed,
	}

	c := n.noise.Eval2(pos.X*n.scale+1000, pos.Y*n.scale+1000)
	idx := int(c * float32(len(n.palette)))
	idx = min(max(idx, 0), len(n.palette)-1)

	return pos, vel, n.palette[idx]
}

func (n *NoiseSpawner) floatIn(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + n.rng.Float32()*(hi-lo)
}
