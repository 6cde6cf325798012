// Package metrics provides run diagnostics observed after every step.
package metrics

import "github.com/san-kum/verlet/internal/sim"

// Default returns the metrics recorded for a headless run. The pairwise
// penetration scan is skipped when cheap is set.
func Default(cheap bool) []sim.Metric {
	ms := []sim.Metric{
		NewKineticEnergy(),
		NewEnergyDrift(),
		NewBoundsViolations(),
	}
	if !cheap {
		ms = append(ms, NewMaxPenetration())
	}
	return ms
}
