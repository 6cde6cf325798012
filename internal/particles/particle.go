package particles

import "gonum.org/v1/gonum/spatial/r2"

// Color is a normalized RGB triple. Physics never reads it.
type Color struct {
	R, G, B float64
}

// Particle is a single simulated disc. Velocity is not stored; it is
// implied by the distance travelled since the previous step.
type Particle struct {
	Pos    r2.Vec
	Prev   r2.Vec
	Acc    r2.Vec
	Radius float64
	Mass   float64
	Color  Color
}

// Velocity returns the implicit per-step displacement Pos - Prev.
func (p *Particle) Velocity() r2.Vec {
	return r2.Sub(p.Pos, p.Prev)
}

// InvMass returns 1/Mass.
func (p *Particle) InvMass() float64 {
	return 1 / p.Mass
}
