package integrators

import "github.com/san-kum/smoothfield/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.PhasePoint, h float64) dynamo.PhasePoint {
	return x.Add(sys.Derive(x).Scale(h))
}
