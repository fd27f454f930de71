package game

import (
	"image/color"

	"github.com/pthm-cable/boids/vecmath"
)

// Snapshot is a copy of the drawable state of active agents after a frame.
// Ids holds the store index of each entry.
type Snapshot struct {
	Tick  int32
	Ids   []int32
	Pos   []vecmath.Vec2
	Vel   []vecmath.Vec2
	Color []color.RGBA
}

// Len returns the number of agents in the snapshot.
func (sn *Snapshot) Len() int { return len(sn.Ids) }

// Snapshot copies active agents into dst, reusing its backing arrays, and
// returns it. A nil dst allocates a new Snapshot. The result does not alias
// the store, so it can be drawn while the next frame is stepped.
func (s *Simulation) Snapshot(dst *Snapshot) *Snapshot {
	if dst == nil {
		dst = &Snapshot{}
	}
	st := s.Store
	dst.Tick = s.tick
	dst.Ids = dst.Ids[:0]
	dst.Pos = dst.Pos[:0]
	dst.Vel = dst.Vel[:0]
	dst.Color = dst.Color[:0]

	for i, active := range st.Active {
		if !active {
			continue
		}
		dst.Ids = append(dst.Ids, int32(i))
		dst.Pos = append(dst.Pos, st.Pos[i])
		dst.Vel = append(dst.Vel, st.Vel[i])
		dst.Color = append(dst.Color, st.Color[i])
	}
	return dst
}
