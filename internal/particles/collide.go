package particles

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// normalEpsilon keeps the contact normal finite for nearly coincident
// centers. Exactly coincident pairs never reach it.
const normalEpsilon = 1e-6

// Broadphase produces candidate pairs for narrow-phase resolution. visit
// may move particles, and later candidates must observe those moves.
type Broadphase interface {
	Pairs(ps []Particle, visit func(i, j int))
}

// BruteForce visits every unordered pair (i, j), i < j, in lexicographic
// order. O(n²); a uniform grid would be the first thing to replace it
// with for large counts.
type BruteForce struct{}

func (BruteForce) Pairs(ps []Particle, visit func(i, j int)) {
	n := len(ps)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			visit(i, j)
		}
	}
}

// collide runs one relaxation pass over the broad-phase candidates.
func (s *Simulation) collide() {
	if !s.CollisionsEnabled {
		return
	}
	ps := s.Particles
	s.broad.Pairs(ps, func(i, j int) {
		resolve(&ps[i], &ps[j])
	})
}

// resolve separates an overlapping pair along the contact normal. Each
// disc moves by its share of the combined inverse mass, so the heavier
// one moves less. Returns false when the pair is apart or exactly
// coincident.
func resolve(a, b *Particle) bool {
	d := r2.Sub(b.Pos, a.Pos)
	dist2 := r2.Norm2(d)
	r := a.Radius + b.Radius
	if dist2 <= 0 || dist2 >= r*r {
		return false
	}

	dist := math.Sqrt(dist2)
	overlap := r - dist
	n := r2.Scale(1/(dist+normalEpsilon), d)

	imA, imB := a.InvMass(), b.InvMass()
	sum := imA + imB
	a.Pos = r2.Sub(a.Pos, r2.Scale(overlap*imA/sum, n))
	b.Pos = r2.Add(b.Pos, r2.Scale(overlap*imB/sum, n))
	return true
}

// Penetration returns (ra+rb) - distance for an overlapping pair, or 0.
func Penetration(a, b *Particle) float64 {
	r := a.Radius + b.Radius
	dist2 := r2.Norm2(r2.Sub(b.Pos, a.Pos))
	if dist2 >= r*r {
		return 0
	}
	return r - math.Sqrt(dist2)
}
