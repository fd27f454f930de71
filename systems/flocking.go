package systems

import (
	"github.com/pthm-cable/boids/components"
	"github.com/pthm-cable/boids/vecmath"
)

// Frame is the view every per-agent stage works against.
// Params is a per-frame copy; kernels never see edits made mid-frame.
type Frame struct {
	Store        *components.Store
	Grid         *SpatialGrid
	Params       components.Params
	MaxNeighbors int
	Bounds       Bounds
}

// Bounds is the world rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width, Height float32
}

// Scratch is per-worker state for the kernels.
// Reuse one per worker across frames to avoid allocation in the hot path.
type Scratch struct {
	Neighbors []int32

	// Coincident counts neighbor pairs skipped by separation because they share a position.
	Coincident int
	// Steered counts agents that received a contribution.
	Steered int
}

// NewScratch returns scratch sized for queries of up to maxNeighbors ids.
func NewScratch(maxNeighbors int) *Scratch {
	return &Scratch{Neighbors: make([]int32, 0, max(maxNeighbors, 0))}
}

// Reset zeroes the per-frame counters.
func (s *Scratch) Reset() {
	s.Coincident = 0
	s.Steered = 0
}

// Kernel processes agents with ids in [i0, i1).
// Kernels write only Acc[i] for i in their range, so disjoint ranges may run concurrently.
type Kernel func(f *Frame, i0, i1 int, s *Scratch)

// steer turns a desired direction into a weighted, force-limited correction.
func steer(desired, vel vecmath.Vec2, p *components.Params, weight float32) vecmath.Vec2 {
	force := vecmath.SetMag(desired, p.MaxSpeed).Sub(vel)
	return vecmath.Limit(force, p.MaxForce).Scale(weight)
}

// Separation steers each agent away from neighbors closer than SeparationRadius.
// Each neighbor contributes the unit vector pointing from it to the agent.
func Separation(f *Frame, i0, i1 int, s *Scratch) {
	st := f.Store
	radius := f.Params.SeparationRadius
	if radius <= 0 {
		return
	}

	for i := i0; i < i1; i++ {
		if !st.Active[i] {
			continue
		}
		self := st.Pos[i]
		s.Neighbors = f.Grid.QueryInto(s.Neighbors, self, radius, f.MaxNeighbors)

		var sum vecmath.Vec2
		count := 0
		for _, nid := range s.Neighbors {
			j := int(nid)
			if j == i || !st.Active[j] {
				continue
			}
			diff := self.Sub(st.Pos[j])
			d := diff.Len()
			if d == 0 {
				s.Coincident++
				continue
			}
			if d < radius {
				sum = sum.Add(diff.Scale(1 / d))
				count++
			}
		}

		if count > 0 {
			avg := sum.Scale(1 / float32(count))
			st.Acc[i] = st.Acc[i].Add(steer(avg, st.Vel[i], &f.Params, f.Params.SeparationWeight))
			s.Steered++
		}
	}
}

// Alignment steers each agent toward the average velocity of neighbors within PerceptionRadius.
func Alignment(f *Frame, i0, i1 int, s *Scratch) {
	st := f.Store
	radius := f.Params.PerceptionRadius
	if radius <= 0 {
		return
	}
	radiusSq := radius * radius

	for i := i0; i < i1; i++ {
		if !st.Active[i] {
			continue
		}
		self := st.Pos[i]
		s.Neighbors = f.Grid.QueryInto(s.Neighbors, self, radius, f.MaxNeighbors)

		var sum vecmath.Vec2
		count := 0
		for _, nid := range s.Neighbors {
			j := int(nid)
			if j == i || !st.Active[j] {
				continue
			}
			if vecmath.DistSq(self, st.Pos[j]) < radiusSq {
				sum = sum.Add(st.Vel[j])
				count++
			}
		}

		if count > 0 {
			avg := sum.Scale(1 / float32(count))
			st.Acc[i] = st.Acc[i].Add(steer(avg, st.Vel[i], &f.Params, f.Params.AlignmentWeight))
			s.Steered++
		}
	}
}

// Cohesion steers each agent toward the centroid of neighbors within PerceptionRadius.
func Cohesion(f *Frame, i0, i1 int, s *Scratch) {
	st := f.Store
	radius := f.Params.PerceptionRadius
	if radius <= 0 {
		return
	}
	radiusSq := radius * radius

	for i := i0; i < i1; i++ {
		if !st.Active[i] {
			continue
		}
		self := st.Pos[i]
		s.Neighbors = f.Grid.QueryInto(s.Neighbors, self, radius, f.MaxNeighbors)

		var sum vecmath.Vec2
		count := 0
		for _, nid := range s.Neighbors {
			j := int(nid)
			if j == i || !st.Active[j] {
				continue
			}
			if vecmath.DistSq(self, st.Pos[j]) < radiusSq {
				sum = sum.Add(st.Pos[j])
				count++
			}
		}

		if count > 0 {
			centroid := sum.Scale(1 / float32(count))
			st.Acc[i] = st.Acc[i].Add(steer(centroid.Sub(self), st.Vel[i], &f.Params, f.Params.CohesionWeight))
			s.Steered++
		}
	}
}

// Flock runs all three rules from a single query at the larger radius.
// Sums stay in locals and each agent's acceleration is written once.
// Results match the separate kernels except when a query is truncated.
func Flock(f *Frame, i0, i1 int, s *Scratch) {
	st := f.Store
	p := &f.Params
	sepR := p.SeparationRadius
	perR := p.PerceptionRadius
	radius := p.MaxRadius()
	if radius <= 0 {
		return
	}
	perRSq := perR * perR

	for i := i0; i < i1; i++ {
		if !st.Active[i] {
			continue
		}
		self := st.Pos[i]
		s.Neighbors = f.Grid.QueryInto(s.Neighbors, self, radius, f.MaxNeighbors)

		var sepSum, aliSum, cohSum vecmath.Vec2
		sepCount, perCount := 0, 0
		for _, nid := range s.Neighbors {
			j := int(nid)
			if j == i || !st.Active[j] {
				continue
			}
			other := st.Pos[j]
			diff := self.Sub(other)
			dSq := diff.LenSq()

			if sepR > 0 {
				if dSq == 0 {
					s.Coincident++
				} else if d := diff.Len(); d < sepR {
					sepSum = sepSum.Add(diff.Scale(1 / d))
					sepCount++
				}
			}
			if perR > 0 && dSq < perRSq {
				aliSum = aliSum.Add(st.Vel[j])
				cohSum = cohSum.Add(other)
				perCount++
			}
		}

		var acc vecmath.Vec2
		steered := false
		if sepCount > 0 {
			acc = acc.Add(steer(sepSum.Scale(1/float32(sepCount)), st.Vel[i], p, p.SeparationWeight))
			steered = true
		}
		if perCount > 0 {
			inv := 1 / float32(perCount)
			acc = acc.Add(steer(aliSum.Scale(inv), st.Vel[i], p, p.AlignmentWeight))
			acc = acc.Add(steer(cohSum.Scale(inv).Sub(self), st.Vel[i], p, p.CohesionWeight))
			steered = true
		}
		if steered {
			st.Acc[i] = st.Acc[i].Add(acc)
			s.Steered++
		}
	}
}
