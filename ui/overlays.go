package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayHUD        OverlayID = "hud"
	OverlayTuning     OverlayID = "tuning"
	OverlayPerf       OverlayID = "perf"
	OverlayFlockStats OverlayID = "flock_stats"
	OverlayGrid       OverlayID = "grid"
	OverlayDensity    OverlayID = "density"
	OverlayVelocity   OverlayID = "velocity"
	OverlayPerception OverlayID = "perception"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "G", "V")
	Category    string      // Grouping: "panels", "world", "debug"
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
	order       []OverlayID // Maintains insertion order for display
}

// NewOverlayRegistry creates a registry with default overlays.
// The HUD starts enabled; everything else starts off.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayHUD, true)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayHUD,
		Name:        "HUD",
		Description: "FPS, weights, agent count and grid size",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayTuning,
		Name:        "Tuning Sliders",
		Description: "Edit every flocking parameter",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Frame Timing",
		Description: "Per-phase share of the tick budget",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "panels",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFlockStats,
		Name:        "Flock Stats",
		Description: "Speed, polarization and degradation counters",
		Key:         rl.KeyS,
		KeyLabel:    "S",
		Category:    "panels",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Grid Lines",
		Description: "Spatial index cell boundaries",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "world",
		Exclusive:   []OverlayID{OverlayDensity},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayDensity,
		Name:        "Cell Occupancy",
		Description: "Shade cells by agents per cell, red when full",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "world",
		Exclusive:   []OverlayID{OverlayGrid},
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayVelocity,
		Name:        "Velocity Vectors",
		Description: "Line from each agent along its velocity",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayPerception,
		Name:        "Perception Radii",
		Description: "Behavior radii around the agent under the cursor",
		Key:         rl.KeyR,
		KeyLabel:    "R",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.order = append(r.order, desc.ID)
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	newState := !r.enabled[id]
	r.SetEnabled(id, newState)
	return newState
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled

	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			newState := r.Toggle(desc.ID)
			return desc.ID, newState, true
		}
	}
	return "", false, false
}

// EnabledOverlays returns a list of currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, id := range r.order {
		if r.enabled[id] {
			result = append(result, id)
		}
	}
	return result
}
