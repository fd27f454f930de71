// Package components defines the agent store and the data shared by the flocking systems.
package components

import "image/color"

// Params holds the tunable flocking parameters.
// The simulation copies Params at the start of each frame, so edits made
// between frames take effect on the next one and kernels never see a torn value.
type Params struct {
	PerceptionRadius float32 `inspect:"bar,max:100"`
	SeparationRadius float32 `inspect:"bar,max:100"`
	MaxSpeed         float32 `inspect:"bar,max:20"`
	MaxForce         float32 `inspect:"bar,max:5"`

	SeparationWeight float32 `inspect:"bar,min:-10,max:10"`
	AlignmentWeight  float32 `inspect:"bar,min:-10,max:10"`
	CohesionWeight   float32 `inspect:"bar,min:-10,max:10"`
}

// DefaultParams returns the stock flocking tuning.
func DefaultParams() Params {
	return Params{
		PerceptionRadius: 20,
		SeparationRadius: 10,
		MaxSpeed:         5,
		MaxForce:         0.7,
		SeparationWeight: 3,
		AlignmentWeight:  1,
		CohesionWeight:   0.5,
	}
}

// MaxRadius returns the larger of the two behavior radii.
// A grid cell should be at least this wide.
func (p Params) MaxRadius() float32 {
	if p.SeparationRadius > p.PerceptionRadius {
		return p.SeparationRadius
	}
	return p.PerceptionRadius
}

// DefaultPalette is the stock five-color agent palette.
var DefaultPalette = []color.RGBA{
	{R: 100, G: 143, B: 255, A: 255},
	{R: 120, G: 94, B: 240, A: 255},
	{R: 220, G: 38, B: 127, A: 255},
	{R: 254, G: 97, B: 0, A: 255},
	{R: 255, G: 176, B: 0, A: 255},
}
