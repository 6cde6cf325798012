package automation

import (
	"context"
	"time"

	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
)

// SweepResult holds one point of a solver-iteration sweep.
type SweepResult struct {
	Iterations     int
	Elapsed        time.Duration
	FinalEnergy    float64
	MaxPenetration float64
}

// SweepIterations reruns the same seeded setup once per iteration count,
// trading solver fidelity against cost.
func SweepIterations(ctx context.Context, build sim.Factory, seed int64, cfg sim.Config, iterations []int) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(iterations))

	for _, n := range iterations {
		s, err := build(seed)
		if err != nil {
			return results, err
		}
		pen := metrics.NewMaxPenetration()
		s.AddMetric(pen)

		runCfg := cfg
		runCfg.Iterations = n

		start := time.Now()
		result, err := s.Run(ctx, runCfg)
		if err != nil {
			return results, err
		}

		final := 0.0
		if len(result.Energy) > 0 {
			final = result.Energy[len(result.Energy)-1]
		}
		results = append(results, SweepResult{
			Iterations:     n,
			Elapsed:        time.Since(start),
			FinalEnergy:    final,
			MaxPenetration: pen.Value(),
		})
	}

	return results, nil
}
