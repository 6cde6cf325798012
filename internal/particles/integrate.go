package particles

import "gonum.org/v1/gonum/spatial/r2"

// integrate performs one position-Verlet step. Damping is applied to the
// implicit velocity, Prev takes the pre-update position and the
// acceleration is consumed.
func (s *Simulation) integrate(dt float64) {
	dt2 := dt * dt
	for i := range s.Particles {
		p := &s.Particles[i]
		pos := p.Pos
		vel := r2.Scale(s.damping, r2.Sub(p.Pos, p.Prev))
		p.Pos = r2.Add(r2.Add(pos, vel), r2.Scale(dt2, p.Acc))
		p.Prev = pos
		p.Acc = r2.Vec{}
	}
}
