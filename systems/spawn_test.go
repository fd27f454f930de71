package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/boids/components"
)

func TestRandomSpawnerRanges(t *testing.T) {
	bounds := Bounds{Width: 300, Height: 200}
	sp := NewRandomSpawner(42, bounds, 20, nil)

	allowed := map[float32]bool{-1: true, -0.75: true, -0.5: true, -0.25: true, 0: true, 0.25: true, 0.5: true, 0.75: true, 1: true}
	for i := 0; i < 1000; i++ {
		pos, vel, c := sp.Next()
		assert.GreaterOrEqual(t, pos.X, float32(20))
		assert.LessOrEqual(t, pos.X, float32(280))
		assert.GreaterOrEqual(t, pos.Y, float32(20))
		assert.LessOrEqual(t, pos.Y, float32(180))
		assert.Equal(t, float32(int(pos.X)), pos.X, "integer positions")
		assert.True(t, allowed[vel.X], "vel.X %v", vel.X)
		assert.True(t, allowed[vel.Y], "vel.Y %v", vel.Y)
		assert.Contains(t, components.DefaultPalette, c)
	}
}

func TestRandomSpawnerDeterministic(t *testing.T) {
	bounds := Bounds{Width: 300, Height: 200}
	a := NewRandomSpawner(7, bounds, 20, nil)
	b := NewRandomSpawner(7, bounds, 20, nil)
	for i := 0; i < 50; i++ {
		pa, va, ca := a.Next()
		pb, vb, cb := b.Next()
		require.Equal(t, pa, pb)
		require.Equal(t, va, vb)
		require.Equal(t, ca, cb)
	}
}

func TestRandomSpawnerBorderWiderThanWorld(t *testing.T) {
	sp := NewRandomSpawner(1, Bounds{Width: 30, Height: 30}, 20, nil)
	pos, _, _ := sp.Next()
	assert.Equal(t, float32(20), pos.X)
	assert.Equal(t, float32(20), pos.Y)
}

func TestNoiseSpawner(t *testing.T) {
	bounds := Bounds{Width: 500, Height: 400}
	sp := NewNoiseSpawner(3, bounds, 10, 0.01, 2, nil)

	for i := 0; i < 500; i++ {
		pos, vel, c := sp.Next()
		assert.GreaterOrEqual(t, pos.X, float32(10))
		assert.LessOrEqual(t, pos.X, float32(490))
		assert.GreaterOrEqual(t, pos.Y, float32(10))
		assert.LessOrEqual(t, pos.Y, float32(390))
		assert.InDelta(t, 2, vel.Len(), 1e-4, "fixed initial speed")
		assert.Contains(t, components.DefaultPalette, c)
	}
}

func TestPopulate(t *testing.T) {
	s := components.NewStore(10)
	sp := NewRandomSpawner(1, Bounds{Width: 100, Height: 100}, 5, nil)

	n, err := Populate(s, sp, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, s.ActiveCount())

	n, err = Populate(s, sp, 10)
	assert.ErrorIs(t, err, components.ErrStoreFull)
	assert.Equal(t, 6, n)
	assert.Equal(t, 10, s.ActiveCount())
	assert.Equal(t, 1, s.Refused())
}
