package metrics

import "github.com/san-kum/verlet/internal/particles"

const containmentTolerance = 1e-9

// BoundsViolations counts particle observations outside the clamped world.
type BoundsViolations struct {
	name       string
	violations int
}

func NewBoundsViolations() *BoundsViolations {
	return &BoundsViolations{name: "bounds_violations"}
}

func (b *BoundsViolations) Name() string { return b.name }

func (b *BoundsViolations) Observe(s *particles.Simulation, t float64) {
	w, h := s.Width(), s.Height()
	for i := range s.Particles {
		if !particles.Contained(&s.Particles[i], w, h, containmentTolerance) {
			b.violations++
		}
	}
}

func (b *BoundsViolations) Value() float64 { return float64(b.violations) }

func (b *BoundsViolations) Reset() { b.violations = 0 }
