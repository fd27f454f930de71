package systems

import "github.com/pthm-cable/boids/vecmath"

// ResetAcceleration zeroes the acceleration of active agents in [i0, i1).
// It runs once per frame before any kernel adds to Acc.
func ResetAcceleration(f *Frame, i0, i1 int, _ *Scratch) {
	st := f.Store
	for i := i0; i < i1; i++ {
		if st.Active[i] {
			st.Acc[i] = vecmath.Zero
		}
	}
}

// Integrate applies acceleration to velocity, clamps speed to MaxSpeed,
// then advances position by one step.
func Integrate(f *Frame, i0, i1 int, _ *Scratch) {
	st := f.Store
	maxSpeed := f.Params.MaxSpeed
	for i := i0; i < i1; i++ {
		if !st.Active[i] {
			continue
		}
		v := vecmath.Limit(st.Vel[i].Add(st.Acc[i]), maxSpeed)
		st.Vel[i] = v
		st.Pos[i] = st.Pos[i].Add(v)
	}
}
