package integrators

import "github.com/san-kum/smoothfield/internal/dynamo"

// DefaultStep is the fixed step the field advances by each tick.
const DefaultStep = 0.0125

// RK4 is the classical fourth-order Runge-Kutta stepper.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.PhasePoint, h float64) dynamo.PhasePoint {
	k1 := sys.Derive(x)
	k2 := sys.Derive(x.Add(k1.Scale(0.5 * h)))
	k3 := sys.Derive(x.Add(k2.Scale(0.5 * h)))
	k4 := sys.Derive(x.Add(k3.Scale(h)))

	var result dynamo.PhasePoint
	h6 := h / 6.0
	for i := range x {
		result[i] = x[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
