package particles_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/verlet/internal/particles"
)

const (
	tick       = 1.0 / 120.0
	worldW     = 800.0
	worldH     = 600.0
	tolerance  = 1e-9
	separation = 1e-4
)

func newSim(count int, seed int64, opts ...particles.Option) *particles.Simulation {
	s, err := particles.New(count, worldW, worldH, rand.New(rand.NewSource(seed)), opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func place(s *particles.Simulation, i int, x, y, r float64) {
	p := &s.Particles[i]
	p.Pos = r2.Vec{X: x, Y: y}
	p.Prev = p.Pos
	p.Radius = r
	p.Mass = r * r
}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("rejects degenerate parameters", func() {
			_, err := particles.New(0, worldW, worldH, rand.New(rand.NewSource(1)))
			Expect(err).To(MatchError(particles.ErrInvalidParameter))

			_, err = particles.New(10, -1, worldH, rand.New(rand.NewSource(1)))
			Expect(err).To(MatchError(particles.ErrInvalidParameter))
		})

		It("falls back to its own generator when none is given", func() {
			s, err := particles.New(16, worldW, worldH, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Len()).To(Equal(16))
			Expect(s.Step(tick, 2)).To(Succeed())
		})
	})

	Describe("energy dissipation", func() {
		It("never increases the kinetic-energy proxy without external forces", func() {
			s := newSim(300, 11)
			s.GravityEnabled = false
			s.AttractorEnabled = false
			s.CollisionsEnabled = false

			prev := s.KineticEnergy()
			for i := 0; i < 240; i++ {
				Expect(s.Step(tick, 2)).To(Succeed())
				e := s.KineticEnergy()
				Expect(e).To(BeNumerically("<=", prev+tolerance))
				prev = e
			}
		})
	})

	DescribeTable("boundary containment",
		func(gravity, collisions, attractor bool) {
			s := newSim(250, 5)
			s.GravityEnabled = gravity
			s.CollisionsEnabled = collisions
			s.AttractorEnabled = attractor
			s.Attractor = r2.Vec{X: 10, Y: worldH - 10}

			for step := 0; step < 180; step++ {
				Expect(s.Step(tick, 2)).To(Succeed())
				for i := range s.Particles {
					Expect(particles.Contained(&s.Particles[i], worldW, worldH, tolerance)).To(BeTrue(),
						"particle %d escaped at step %d: %v", i, step, s.Particles[i].Pos)
				}
			}
		},
		Entry("all forces off", false, false, false),
		Entry("gravity only", true, false, false),
		Entry("gravity and collisions", true, true, false),
		Entry("attractor in a corner", false, true, true),
		Entry("everything on", true, true, true),
	)

	Describe("collision resolution", func() {
		var s *particles.Simulation

		BeforeEach(func() {
			s = newSim(2, 1)
			s.GravityEnabled = false
			s.AttractorEnabled = false
			s.CollisionsEnabled = true
		})

		It("separates an overlapping pair given enough iterations", func() {
			place(s, 0, 300, 300, 5)
			place(s, 1, 303, 302, 4)

			Expect(s.Step(tick, 8)).To(Succeed())

			a, b := s.Particles[0], s.Particles[1]
			dist := r2.Norm(r2.Sub(b.Pos, a.Pos))
			Expect(dist).To(BeNumerically(">=", a.Radius+b.Radius-separation))
		})

		It("moves the heavier disc less, in inverse proportion to mass", func() {
			place(s, 0, 300, 300, 2)
			place(s, 1, 305, 300, 6)

			Expect(s.Step(tick, 1)).To(Succeed())

			moveA := r2.Norm(r2.Sub(s.Particles[0].Pos, r2.Vec{X: 300, Y: 300}))
			moveB := r2.Norm(r2.Sub(s.Particles[1].Pos, r2.Vec{X: 305, Y: 300}))
			Expect(moveA / moveB).To(BeNumerically("~", 36.0/4.0, 1e-9))
		})

		It("leaves exactly coincident discs where they are", func() {
			place(s, 0, 300, 300, 3)
			place(s, 1, 300, 300, 3)

			Expect(s.Step(tick, 4)).To(Succeed())

			Expect(s.Particles[0].Pos).To(Equal(r2.Vec{X: 300, Y: 300}))
			Expect(s.Particles[1].Pos).To(Equal(r2.Vec{X: 300, Y: 300}))
		})
	})

	Describe("integration", func() {
		It("derives the next position from position history alone", func() {
			s := newSim(1, 1, particles.WithDamping(0.99))
			s.GravityEnabled = false
			s.AttractorEnabled = false
			s.CollisionsEnabled = false
			s.Particles[0].Pos = r2.Vec{X: 100, Y: 100}
			s.Particles[0].Prev = r2.Vec{X: 100, Y: 105}

			Expect(s.Step(tick, 1)).To(Succeed())

			Expect(s.Particles[0].Pos.X).To(BeNumerically("~", 100, tolerance))
			Expect(s.Particles[0].Pos.Y).To(BeNumerically("~", 95.05, tolerance))
			Expect(s.Particles[0].Prev).To(Equal(r2.Vec{X: 100, Y: 100}))
		})

		It("pulls particles toward the attractor", func() {
			s := newSim(1, 1)
			s.GravityEnabled = false
			s.CollisionsEnabled = false
			s.AttractorEnabled = true
			s.Attractor = r2.Vec{X: 500, Y: 300}
			place(s, 0, 300, 300, 3)

			Expect(s.Step(tick, 1)).To(Succeed())

			Expect(s.Particles[0].Pos.X).To(BeNumerically(">", 300))
			Expect(s.Particles[0].Pos.Y).To(BeNumerically("~", 300, tolerance))
		})
	})

	Describe("reset", func() {
		It("keeps shape and reproduces the same layout for the same seed", func() {
			a := newSim(50, 42)
			b := newSim(50, 42)
			before := make([]r2.Vec, a.Len())
			for i := range a.Particles {
				before[i] = a.Particles[i].Pos
			}

			a.Reset()
			b.Reset()

			Expect(a.Len()).To(Equal(50))
			Expect(a.Width()).To(Equal(worldW))
			Expect(a.Height()).To(Equal(worldH))
			changed := 0
			for i := range a.Particles {
				Expect(a.Particles[i].Pos).To(Equal(b.Particles[i].Pos))
				if a.Particles[i].Pos != before[i] {
					changed++
				}
			}
			Expect(changed).To(BeNumerically(">", 0))
		})
	})

	Describe("teardown", func() {
		It("tolerates repeated and zero-value frees", func() {
			s := newSim(8, 1)
			Expect(func() {
				s.Free()
				s.Free()
				var zero particles.Simulation
				zero.Free()
				zero.Reset()
			}).NotTo(Panic())
			Expect(s.Len()).To(Equal(0))
		})
	})

	Describe("render buffer", func() {
		It("emits six scalars per particle in index order", func() {
			s := newSim(10, 3)
			buf := s.AppendVertices(nil)
			Expect(buf).To(HaveLen(10 * particles.VertexStride))
			for i := range s.Particles {
				Expect(float64(buf[i*particles.VertexStride+2])).
					To(BeNumerically("~", s.Particles[i].Radius, 1e-5))
			}
			Expect(math.IsNaN(float64(buf[0]))).To(BeFalse())
		})
	})
})
