package metrics

import "github.com/san-kum/verlet/internal/particles"

// MaxPenetration tracks the deepest overlap seen between any two discs.
// It scans all pairs, so it costs as much as a collision pass.
type MaxPenetration struct {
	name  string
	max   float64
	pairs particles.Broadphase
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration", pairs: particles.BruteForce{}}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(s *particles.Simulation, t float64) {
	ps := s.Particles
	m.pairs.Pairs(ps, func(i, j int) {
		if d := particles.Penetration(&ps[i], &ps[j]); d > m.max {
			m.max = d
		}
	})
}

func (m *MaxPenetration) Value() float64 { return m.max }

func (m *MaxPenetration) Reset() { m.max = 0 }
