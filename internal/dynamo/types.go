package dynamo

import (
	"fmt"
	"math"
)

// PhasePoint is (theta1, theta2, p1, p2): the two arm angles and their
// conjugate momenta.
type PhasePoint [4]float64

func (p PhasePoint) Theta1() float64 { return p[0] }
func (p PhasePoint) Theta2() float64 { return p[1] }
func (p PhasePoint) P1() float64     { return p[2] }
func (p PhasePoint) P2() float64     { return p[3] }

func (p PhasePoint) Add(other PhasePoint) PhasePoint {
	return PhasePoint{p[0] + other[0], p[1] + other[1], p[2] + other[2], p[3] + other[3]}
}

func (p PhasePoint) Sub(other PhasePoint) PhasePoint {
	return PhasePoint{p[0] - other[0], p[1] - other[1], p[2] - other[2], p[3] - other[3]}
}

func (p PhasePoint) Scale(factor float64) PhasePoint {
	return PhasePoint{p[0] * factor, p[1] * factor, p[2] * factor, p[3] * factor}
}

func (p PhasePoint) Norm() float64 {
	sum := 0.0
	for _, v := range p {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (p PhasePoint) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AngleGap is the larger of the two absolute angle differences.
func (p PhasePoint) AngleGap(other PhasePoint) float64 {
	return math.Max(math.Abs(p[0]-other[0]), math.Abs(p[1]-other[1]))
}

func (p PhasePoint) String() string {
	return fmt.Sprintf("(θ1=%.4f θ2=%.4f p1=%.4f p2=%.4f)", p[0], p[1], p[2], p[3])
}

// Lerp returns b*alpha + a*(1-alpha). The endpoints return a and b unchanged
// so interpolation never perturbs the samples it starts from.
func Lerp(a, b PhasePoint, alpha float64) PhasePoint {
	switch alpha {
	case 0:
		return a
	case 1:
		return b
	}
	return b.Scale(alpha).Add(a.Scale(1 - alpha))
}

// System is an autonomous ODE over a phase point.
type System interface {
	Derive(x PhasePoint) PhasePoint
}

type Hamiltonian interface {
	Energy(x PhasePoint) float64
}

type Integrator interface {
	Step(sys System, x PhasePoint, h float64) PhasePoint
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// RandSource supplies uniform draws in [0, 1). *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}
