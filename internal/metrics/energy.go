package metrics

import (
	"math"

	"github.com/san-kum/verlet/internal/particles"
)

// KineticEnergy reports the last observed Σ|Pos - Prev|².
type KineticEnergy struct {
	name    string
	last    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s *particles.Simulation, t float64) {
	k.last = s.KineticEnergy()
	k.samples++
}

func (k *KineticEnergy) Value() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.last = 0
	k.samples = 0
}

// EnergyDrift is |E_last - E_first| / E_first over the observed samples.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *particles.Simulation, t float64) {
	energy := s.KineticEnergy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyDrift) Value() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return math.Abs(e.currentEnergy-e.initialEnergy) / e.initialEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}
