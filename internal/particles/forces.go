package particles

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	attractorSoftening = 5.0
	attractorStrength  = 300000.0
)

// applyForces overwrites every particle's acceleration with this step's
// gravity and attractor contributions.
func (s *Simulation) applyForces() {
	for i := range s.Particles {
		p := &s.Particles[i]
		var a r2.Vec
		if s.GravityEnabled {
			a.Y -= s.gravity
		}
		if s.AttractorEnabled {
			a = r2.Add(a, attraction(p.Pos, s.Attractor))
		}
		p.Acc = a
	}
}

// attraction is the softened inverse-square pull from pos toward target.
// The direction is normalized by the softened distance, so it stays
// finite when pos sits exactly on the target.
func attraction(pos, target r2.Vec) r2.Vec {
	dir := r2.Sub(target, pos)
	d2 := r2.Norm2(dir) + attractorSoftening
	dir = r2.Scale(1/math.Sqrt(d2), dir)
	return r2.Scale(attractorStrength/d2, dir)
}
