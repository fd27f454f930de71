package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/boids/components"
)

func held(keys ...int32) func(int32) bool {
	return func(k int32) bool {
		for _, h := range keys {
			if h == k {
				return true
			}
		}
		return false
	}
}

func TestApplyWeightKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []int32
		sep     float32
		ali     float32
		coh     float32
		changed bool
	}{
		{"none", nil, 3, 1, 0.5, false},
		{"raise separation", []int32{rl.KeyOne}, 3.01, 1, 0.5, true},
		{"lower separation", []int32{rl.KeyTwo}, 2.99, 1, 0.5, true},
		{"alignment pair cancels", []int32{rl.KeyThree, rl.KeyFour}, 3, 1, 0.5, true},
		{"lower cohesion", []int32{rl.KeySix}, 3, 1, 0.49, true},
		{"unbound key", []int32{rl.KeySeven}, 3, 1, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := components.DefaultParams()
			changed := ApplyWeightKeys(&p, DefaultWeightKeys, 0.01, held(tt.keys...))
			assert.Equal(t, tt.changed, changed)
			assert.InDelta(t, tt.sep, p.SeparationWeight, 1e-6)
			assert.InDelta(t, tt.ali, p.AlignmentWeight, 1e-6)
			assert.InDelta(t, tt.coh, p.CohesionWeight, 1e-6)
			assert.Equal(t, components.DefaultParams().MaxSpeed, p.MaxSpeed)
		})
	}
}

func TestApplyWeightKeysGoesNegative(t *testing.T) {
	p := components.DefaultParams()
	for i := 0; i < 100; i++ {
		ApplyWeightKeys(&p, DefaultWeightKeys, 0.01, held(rl.KeySix))
	}
	assert.InDelta(t, -0.5, p.CohesionWeight, 1e-4)
}

func TestOverlayRegistry(t *testing.T) {
	r := NewOverlayRegistry()
	assert.Equal(t, []OverlayID{OverlayHUD}, r.EnabledOverlays())
	assert.Equal(t, []string{"panels", "world", "debug"}, r.Categories())

	id, on, ok := r.HandleKeyPress(rl.KeyG)
	assert.True(t, ok)
	assert.True(t, on)
	assert.Equal(t, OverlayGrid, id)

	// Occupancy and grid lines are mutually exclusive.
	r.Toggle(OverlayDensity)
	assert.True(t, r.IsEnabled(OverlayDensity))
	assert.False(t, r.IsEnabled(OverlayGrid))

	_, _, ok = r.HandleKeyPress(rl.KeyZ)
	assert.False(t, ok)
	assert.False(t, r.Toggle("missing"))

	r.SetEnabled(OverlayHUD, false)
	assert.Equal(t, []OverlayID{OverlayDensity}, r.EnabledOverlays())
	assert.Len(t, r.ByCategory("debug"), 2)
}

func TestSliderEdit(t *testing.T) {
	tests := []struct {
		name     string
		cur      float32
		next     float32
		want     float32
		modified bool
	}{
		{"untouched in range", 3, 3, 3, false},
		{"dragged in range", 3, 4.5, 4.5, true},
		{"above range pinned by slider", 10.5, 10, 10.5, false},
		{"below range pinned by slider", -12, -10, -12, false},
		{"above range dragged down", 10.5, 7, 7, true},
		{"at bound untouched", 10, 10, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sliderEdit(tt.cur, tt.next, -10, 10)
			assert.Equal(t, tt.modified, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeightKeysPastSliderRangeKept(t *testing.T) {
	p := components.DefaultParams()
	p.SeparationWeight = 9.995
	ApplyWeightKeys(&p, DefaultWeightKeys, 0.01, held(rl.KeyOne))
	assert.Greater(t, p.SeparationWeight, float32(10))

	// The slider for a [-10, 10] field reports the pinned bound.
	_, ok := sliderEdit(p.SeparationWeight, 10, -10, 10)
	assert.False(t, ok)
}
