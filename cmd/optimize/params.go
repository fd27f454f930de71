package main

import (
	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name string  // Column name in the log
	Path string  // Config path
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector holds the set of optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the steering weight parameter set.
// Negative weights are allowed; they invert a behavior.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "separation_weight", Path: "flock.separation_weight", Min: -2, Max: 6},
			{Name: "alignment_weight", Path: "flock.alignment_weight", Min: -2, Max: 4},
			{Name: "cohesion_weight", Path: "flock.cohesion_weight", Min: -2, Max: 4},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply writes clamped weights into p, in Specs order.
func (pv *ParamVector) Apply(p *components.Params, values []float64) {
	c := pv.Clamp(values)
	p.SeparationWeight = float32(c[0])
	p.AlignmentWeight = float32(c[1])
	p.CohesionWeight = float32(c[2])
}

// Extract reads the current weights from a config, in Specs order.
func (pv *ParamVector) Extract(cfg *config.Config) []float64 {
	return []float64{
		cfg.Flock.SeparationWeight,
		cfg.Flock.AlignmentWeight,
		cfg.Flock.CohesionWeight,
	}
}

// ApplyToConfig stores the weights in cfg's flock section.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	p := cfg.FlockParams()
	pv.Apply(&p, values)
	cfg.SetFlockParams(p)
}
