// Package particles implements a fixed-timestep 2D particle solver.
//
// A [Simulation] owns a fixed set of discs and advances them with
// position-Verlet integration:
//
//   - global forces: constant gravity and a softened inverse-square attractor
//   - integration: velocity is implicit in Pos - Prev and damped every step
//   - collisions: pairwise positional correction weighted by inverse mass
//   - bounds: component-wise clamping into the world rectangle
//
// # Example
//
//	rng := rand.New(rand.NewSource(42))
//	s, err := particles.New(2000, 1200, 800, rng)
//	if err != nil {
//	    return err
//	}
//	defer s.Free()
//	for i := 0; i < 120; i++ {
//	    _ = s.Step(1.0/120.0, 2)
//	}
//	buf := s.AppendVertices(nil)
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. The host must not read
// particle state while Step runs and must not call Step reentrantly.
package particles
