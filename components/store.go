package components

import (
	"errors"
	"image/color"

	"github.com/pthm-cable/boids/vecmath"
)

// ErrStoreFull is returned by Create when the store has reached capacity.
var ErrStoreFull = errors.New("agent store full")

// Store holds agent state as parallel arrays indexed by agent id.
// Ids are assigned append-only and are never reused while the store lives.
// Inactive slots are tombstones: every system skips them.
type Store struct {
	Pos    []vecmath.Vec2
	Vel    []vecmath.Vec2
	Acc    []vecmath.Vec2
	Color  []color.RGBA
	Active []bool

	capacity int
	active   int
	refused  int
}

// NewStore creates an empty store that accepts up to capacity agents.
func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		Pos:      make([]vecmath.Vec2, 0, capacity),
		Vel:      make([]vecmath.Vec2, 0, capacity),
		Acc:      make([]vecmath.Vec2, 0, capacity),
		Color:    make([]color.RGBA, 0, capacity),
		Active:   make([]bool, 0, capacity),
		capacity: capacity,
	}
}

// Create appends an active agent and returns its id.
// When the store is full the agent is refused and ErrStoreFull is returned.
func (s *Store) Create(pos, vel vecmath.Vec2, c color.RGBA) (int, error) {
	if len(s.Pos) >= s.capacity {
		s.refused++
		return -1, ErrStoreFull
	}
	id := len(s.Pos)
	s.Pos = append(s.Pos, pos)
	s.Vel = append(s.Vel, vel)
	s.Acc = append(s.Acc, vecmath.Zero)
	s.Color = append(s.Color, c)
	s.Active = append(s.Active, true)
	s.active++
	return id, nil
}

// Len returns the number of allocated slots, active or not.
func (s *Store) Len() int { return len(s.Pos) }

// Cap returns the maximum number of agents the store accepts.
func (s *Store) Cap() int { return s.capacity }

// ActiveCount returns the number of active agents.
func (s *Store) ActiveCount() int { return s.active }

// Refused returns how many Create calls were rejected because the store was full.
func (s *Store) Refused() int { return s.refused }

// Deactivate marks id inactive. It returns false if id is out of range or already inactive.
// The slot stays allocated until Compact runs.
func (s *Store) Deactivate(id int) bool {
	if id < 0 || id >= len(s.Active) || !s.Active[id] {
		return false
	}
	s.Active[id] = false
	s.Acc[id] = vecmath.Zero
	s.active--
	return true
}

// Compact removes inactive slots, preserving the relative order of active agents.
// It returns a remap from old id to new id, with -1 for removed slots.
// Compact invalidates every id held outside the store, so callers must run it
// between frames and translate their references through the remap.
func (s *Store) Compact() []int {
	remap := make([]int, len(s.Pos))
	next := 0
	for i := range s.Pos {
		if !s.Active[i] {
			remap[i] = -1
			continue
		}
		remap[i] = next
		if next != i {
			s.Pos[next] = s.Pos[i]
			s.Vel[next] = s.Vel[i]
			s.Acc[next] = s.Acc[i]
			s.Color[next] = s.Color[i]
			s.Active[next] = true
		}
		next++
	}
	s.Pos = s.Pos[:next]
	s.Vel = s.Vel[:next]
	s.Acc = s.Acc[:next]
	s.Color = s.Color[:next]
	s.Active = s.Active[:next]
	return remap
}
