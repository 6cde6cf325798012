package particles

// VertexStride is the number of float32 values per particle in the render
// buffer: x, y, radius, r, g, b.
const VertexStride = 6

// AppendVertices appends the render tuple of every particle, in index
// order, to dst and returns the extended slice.
func (s *Simulation) AppendVertices(dst []float32) []float32 {
	if s == nil {
		return dst
	}
	for i := range s.Particles {
		p := &s.Particles[i]
		dst = append(dst,
			float32(p.Pos.X), float32(p.Pos.Y), float32(p.Radius),
			float32(p.Color.R), float32(p.Color.G), float32(p.Color.B),
		)
	}
	return dst
}

// KineticEnergy returns the proxy Σ|Pos - Prev|² over all particles.
func (s *Simulation) KineticEnergy() float64 {
	if s == nil {
		return 0
	}
	total := 0.0
	for i := range s.Particles {
		v := s.Particles[i].Velocity()
		total += v.X*v.X + v.Y*v.Y
	}
	return total
}
