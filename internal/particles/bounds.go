package particles

// confine clamps every position into [r, width-r] x [r, height-r]. Prev is
// left alone, so wall contact keeps its implicit velocity until damping
// and collisions bleed it off.
func (s *Simulation) confine() {
	for i := range s.Particles {
		p := &s.Particles[i]
		r := p.Radius
		if p.Pos.X < r {
			p.Pos.X = r
		}
		if p.Pos.X > s.width-r {
			p.Pos.X = s.width - r
		}
		if p.Pos.Y < r {
			p.Pos.Y = r
		}
		if p.Pos.Y > s.height-r {
			p.Pos.Y = s.height - r
		}
	}
}

// Contained reports whether p lies inside the clamped region of a
// width x height world, allowing tol of slack.
func Contained(p *Particle, width, height, tol float64) bool {
	r := p.Radius
	return p.Pos.X >= r-tol && p.Pos.X <= width-r+tol &&
		p.Pos.Y >= r-tol && p.Pos.Y <= height-r+tol
}
