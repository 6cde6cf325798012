package particles

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultDamping = 0.999
	DefaultGravity = 400.0 // world units/s², toward -y

	spawnMargin  = 20.0
	minRadius    = 2.0
	radiusSpread = 4.0
	maxSpawnVel  = 25.0
	spawnDt      = 1.0 / 60.0
	minColor     = 0.7
	colorSpread  = 0.3
)

// MinWorldExtent is the exclusive lower bound on world width and height:
// spawning keeps a margin on every side.
const MinWorldExtent = 2 * spawnMargin

// Source is a uniform generator in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Simulation owns the particles and the global parameters the host may
// toggle between steps.
type Simulation struct {
	Particles []Particle

	GravityEnabled    bool
	CollisionsEnabled bool
	AttractorEnabled  bool
	Attractor         r2.Vec

	width, height float64
	damping       float64
	gravity       float64

	rng   Source
	broad Broadphase
}

// Option configures a Simulation at construction.
type Option func(*Simulation)

// WithDamping sets the per-step velocity decay factor, expected in (0, 1).
func WithDamping(d float64) Option {
	return func(s *Simulation) { s.damping = d }
}

// WithGravity sets the gravity magnitude.
func WithGravity(g float64) Option {
	return func(s *Simulation) { s.gravity = g }
}

// WithBroadphase replaces the candidate pair producer.
func WithBroadphase(b Broadphase) Option {
	return func(s *Simulation) { s.broad = b }
}

// New allocates count particles in a width x height world and randomizes
// them from rng. A nil rng falls back to a time-seeded generator.
func New(count int, width, height float64, rng Source, opts ...Option) (*Simulation, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidParameter, count)
	}
	if !validExtent(width) || !validExtent(height) {
		return nil, fmt.Errorf("%w: world %gx%g must exceed %g in both axes",
			ErrInvalidParameter, width, height, MinWorldExtent)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Simulation{
		Particles:         make([]Particle, count),
		GravityEnabled:    true,
		CollisionsEnabled: true,
		AttractorEnabled:  false,
		Attractor:         r2.Vec{X: width * 0.5, Y: height * 0.5},
		width:             width,
		height:            height,
		damping:           DefaultDamping,
		gravity:           DefaultGravity,
		rng:               rng,
		broad:             BruteForce{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if !(s.damping > 0 && s.damping < 1) {
		return nil, fmt.Errorf("%w: damping must be in (0, 1), got %g", ErrInvalidParameter, s.damping)
	}
	if math.IsNaN(s.gravity) || math.IsInf(s.gravity, 0) {
		return nil, fmt.Errorf("%w: gravity must be finite", ErrInvalidParameter)
	}
	if s.broad == nil {
		s.broad = BruteForce{}
	}

	for i := range s.Particles {
		p := &s.Particles[i]
		s.scatter(p)
		p.Color = Color{
			R: minColor + colorSpread*rng.Float64(),
			G: minColor + colorSpread*rng.Float64(),
			B: minColor + colorSpread*rng.Float64(),
		}
	}
	return s, nil
}

func validExtent(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > MinWorldExtent
}

// scatter draws radius, position and initial velocity for p.
func (s *Simulation) scatter(p *Particle) {
	r := minRadius + radiusSpread*s.rng.Float64()
	x := spawnMargin + s.rng.Float64()*(s.width-2*spawnMargin)
	y := spawnMargin + s.rng.Float64()*(s.height-2*spawnMargin)
	vx := (s.rng.Float64() - 0.5) * 2 * maxSpawnVel
	vy := (s.rng.Float64() - 0.5) * 2 * maxSpawnVel

	p.Pos = r2.Vec{X: x, Y: y}
	p.Prev = r2.Vec{X: x - vx*spawnDt, Y: y - vy*spawnDt}
	p.Acc = r2.Vec{}
	p.Radius = r
	p.Mass = r * r
}

// Reset re-randomizes every particle in place. Count, world size, flags
// and colors are kept. It is a no-op on a freed or zero Simulation.
func (s *Simulation) Reset() {
	if s == nil || s.Particles == nil || s.rng == nil {
		return
	}
	for i := range s.Particles {
		s.scatter(&s.Particles[i])
	}
}

// Free releases the particle storage. Safe to call more than once.
func (s *Simulation) Free() {
	if s == nil {
		return
	}
	s.Particles = nil
}

// Len returns the particle count.
func (s *Simulation) Len() int { return len(s.Particles) }

// Width returns the world width.
func (s *Simulation) Width() float64 { return s.width }

// Height returns the world height.
func (s *Simulation) Height() float64 { return s.height }

// Damping returns the per-step velocity decay factor.
func (s *Simulation) Damping() float64 { return s.damping }

// Gravity returns the gravity magnitude.
func (s *Simulation) Gravity() float64 { return s.gravity }

// Step advances the simulation by one fixed timestep: forces, one
// integration, then iterations rounds of collisions followed by bounds.
func (s *Simulation) Step(dt float64, iterations int) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", ErrInvalidParameter, dt)
	}
	if iterations < 0 {
		return fmt.Errorf("%w: solver iterations must be non-negative, got %d", ErrInvalidParameter, iterations)
	}
	if s == nil || len(s.Particles) == 0 {
		return nil
	}

	s.applyForces()
	s.integrate(dt)
	for i := 0; i < iterations; i++ {
		s.collide()
		s.confine()
	}
	return nil
}
