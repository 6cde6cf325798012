package sim

import (
	"fmt"

	"github.com/san-kum/verlet/internal/particles"
)

// Controller issues host commands (flags, attractor, reset) before a step.
type Controller interface {
	Apply(s *particles.Simulation, step int, t float64) error
}

type Observer interface {
	OnStep(s *particles.Simulation, step int, t float64)
}

type Metric interface {
	Name() string
	Observe(s *particles.Simulation, t float64)
	Value() float64
	Reset()
}

type Config struct {
	Dt            float64
	Duration      float64
	Iterations    int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 120.0,
		Duration:      10.0,
		Iterations:    2,
		ValidateState: true,
	}
}

type Result struct {
	Times       []float64
	Energy      []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
