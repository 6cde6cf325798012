package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/verlet/internal/particles"
)

// ErrNoEngine is returned when a Simulator has no engine to drive.
var ErrNoEngine = errors.New("sim: no engine")

// Simulator drives an engine headless at a fixed timestep.
type Simulator struct {
	engine     *particles.Simulation
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(engine *particles.Simulation, controller Controller) *Simulator {
	return &Simulator{
		engine:     engine,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Engine returns the driven simulation.
func (s *Simulator) Engine() *particles.Simulation { return s.engine }

// Run steps the engine for cfg.Duration. Cancellation is checked between
// steps; a step in flight always completes.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if s.engine == nil {
		return nil, ErrNoEngine
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Energy:  make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	initialEnergy := s.engine.KineticEnergy()
	result.Times = append(result.Times, t)
	result.Energy = append(result.Energy, initialEnergy)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		t = float64(i) * cfg.Dt
		if s.controller != nil {
			if err := s.controller.Apply(s.engine, i, t); err != nil {
				return result, fmt.Errorf("controller at step %d: %w", i, err)
			}
		}

		if err := s.engine.Step(cfg.Dt, cfg.Iterations); err != nil {
			return result, err
		}
		t = float64(i+1) * cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !finite(s.engine) {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		for _, m := range s.metrics {
			m.Observe(s.engine, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.engine, i, t)
		}

		result.Times = append(result.Times, t)
		result.Energy = append(result.Energy, s.engine.KineticEnergy())
	}

	s.finish(result, initialEnergy)
	return result, nil
}

func (s *Simulator) finish(result *Result, initialEnergy float64) {
	if n := len(result.Energy); n > 0 && initialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.Energy[n-1]-initialEnergy) / initialEnergy
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", cfg.Iterations)
	}
	return nil
}

func finite(s *particles.Simulation) bool {
	for i := range s.Particles {
		p := &s.Particles[i]
		if math.IsNaN(p.Pos.X) || math.IsNaN(p.Pos.Y) || math.IsInf(p.Pos.X, 0) || math.IsInf(p.Pos.Y, 0) {
			return false
		}
	}
	return true
}
