package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/boids/vecmath"
)

func TestStoreCreate(t *testing.T) {
	s := NewStore(4)

	id0, err := s.Create(vecmath.Vec2{X: 1, Y: 2}, vecmath.Vec2{X: 0.5}, DefaultPalette[0])
	require.NoError(t, err)
	id1, err := s.Create(vecmath.Vec2{X: 3, Y: 4}, vecmath.Vec2{}, DefaultPalette[1])
	require.NoError(t, err)

	assert.Equal(t, 0, id0)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.ActiveCount())
	assert.Equal(t, vecmath.Vec2{X: 3, Y: 4}, s.Pos[id1])
	assert.Equal(t, vecmath.Zero, s.Acc[id0], "acceleration starts at zero")
	assert.True(t, s.Active[id0])
}

func TestStoreCapacity(t *testing.T) {
	const max = 8
	s := NewStore(max)

	for i := 0; i < max; i++ {
		_, err := s.Create(vecmath.Vec2{X: float32(i)}, vecmath.Vec2{}, DefaultPalette[0])
		require.NoError(t, err)
	}

	id, err := s.Create(vecmath.Vec2{}, vecmath.Vec2{}, DefaultPalette[0])
	assert.ErrorIs(t, err, ErrStoreFull)
	assert.Equal(t, -1, id)
	assert.Equal(t, max, s.ActiveCount())
	assert.Equal(t, max, s.Len())
	assert.Equal(t, 1, s.Refused())
}

func TestStoreZeroCapacity(t *testing.T) {
	s := NewStore(0)
	_, err := s.Create(vecmath.Vec2{}, vecmath.Vec2{}, DefaultPalette[0])
	assert.ErrorIs(t, err, ErrStoreFull)
	assert.Equal(t, 0, s.ActiveCount())
}

func TestStoreDeactivate(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 3; i++ {
		_, err := s.Create(vecmath.Vec2{X: float32(i)}, vecmath.Vec2{}, DefaultPalette[i])
		require.NoError(t, err)
	}

	assert.True(t, s.Deactivate(1))
	assert.False(t, s.Deactivate(1), "second deactivate is a no-op")
	assert.False(t, s.Deactivate(7), "out of range")
	assert.False(t, s.Deactivate(-1), "negative id")

	assert.Equal(t, 2, s.ActiveCount())
	assert.Equal(t, 3, s.Len(), "tombstoned slot stays allocated")

	// Ids are not reused: the store is still full.
	_, err := s.Create(vecmath.Vec2{}, vecmath.Vec2{}, DefaultPalette[0])
	assert.ErrorIs(t, err, ErrStoreFull)
}

func TestStoreCompact(t *testing.T) {
	s := NewStore(5)
	for i := 0; i < 5; i++ {
		_, err := s.Create(vecmath.Vec2{X: float32(i)}, vecmath.Vec2{Y: float32(i)}, DefaultPalette[i])
		require.NoError(t, err)
	}
	s.Deactivate(0)
	s.Deactivate(3)

	remap := s.Compact()

	assert.Equal(t, []int{-1, 0, 1, -1, 2}, remap)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.ActiveCount())
	for oldID, newID := range remap {
		if newID < 0 {
			continue
		}
		assert.Equal(t, float32(oldID), s.Pos[newID].X, "position follows remap")
		assert.Equal(t, float32(oldID), s.Vel[newID].Y, "velocity follows remap")
		assert.Equal(t, DefaultPalette[oldID], s.Color[newID], "color follows remap")
		assert.True(t, s.Active[newID])
	}

	// Freed slots can be used again after compaction.
	id, err := s.Create(vecmath.Vec2{}, vecmath.Vec2{}, DefaultPalette[0])
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestParamsMaxRadius(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, float32(20), p.MaxRadius())

	p.SeparationRadius = 35
	assert.Equal(t, float32(35), p.MaxRadius())
}
