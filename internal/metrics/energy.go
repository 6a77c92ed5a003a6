package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/smoothfield/internal/field"
)

// Energies returns the Hamiltonian of every sample in field order.
func Energies(f *field.Field) []float64 {
	out := make([]float64, 0, f.Len())
	f.Each(func(s *field.Sample) {
		out = append(out, s.Body.Energy(s.Phase))
	})
	return out
}

// Energy is the field-mean energy averaged over observed ticks.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f *field.Field) {
	if f.Len() == 0 {
		return
	}
	e.totalEnergy += stat.Mean(Energies(f), nil)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of the field-mean energy
// from the first observed tick.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f *field.Field) {
	if f.Len() == 0 {
		return
	}
	energy := stat.Mean(Energies(f), nil)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergySpread is the standard deviation of sample energies at the last
// observed tick.
type EnergySpread struct {
	name   string
	stddev float64
}

func NewEnergySpread() *EnergySpread {
	return &EnergySpread{name: "energy_spread"}
}

func (e *EnergySpread) Name() string { return e.name }

func (e *EnergySpread) Observe(f *field.Field) {
	if f.Len() < 2 {
		e.stddev = 0
		return
	}
	e.stddev = stat.StdDev(Energies(f), nil)
}

func (e *EnergySpread) Value() float64 { return e.stddev }
func (e *EnergySpread) Reset()         { e.stddev = 0 }
