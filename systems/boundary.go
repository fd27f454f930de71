package systems

// Wrap teleports agents that left the bounds to the opposite edge.
// The test is strict: a coordinate exactly on an edge stays put.
// Neighbor queries do not see across edges; an agent near x=0 and one near
// x=Width are not neighbors.
func Wrap(f *Frame, i0, i1 int, _ *Scratch) {
	st := f.Store
	w, h := f.Bounds.Width, f.Bounds.Height
	for i := i0; i < i1; i++ {
		if !st.Active[i] {
			continue
		}
		p := &st.Pos[i]
		if p.X < 0 {
			p.X = w
		} else if p.X > w {
			p.X = 0
		}
		if p.Y < 0 {
			p.Y = h
		} else if p.Y > h {
			p.Y = 0
		}
	}
}
