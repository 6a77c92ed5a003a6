package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

const (
	DefaultGravity = 10.0
	DefaultLength  = 75.0
	DefaultMass    = 10.0
)

// DoublePendulum is two identical uniform rods of length Length and mass
// Mass hinged end to end, in Hamiltonian form.
// State: [theta1, theta2, p1, p2]
type DoublePendulum struct {
	G      float64
	Length float64
	Mass   float64
}

func NewDoublePendulum() *DoublePendulum {
	return &DoublePendulum{
		G:      DefaultGravity,
		Length: DefaultLength,
		Mass:   DefaultMass,
	}
}

func (d *DoublePendulum) Validate() error {
	if !(d.Length > 0) {
		return fmt.Errorf("length must be positive, got %g: %w", d.Length, dynamo.ErrParameterBounds)
	}
	if !(d.Mass > 0) {
		return fmt.Errorf("mass must be positive, got %g: %w", d.Mass, dynamo.ErrParameterBounds)
	}
	return nil
}

// Velocities returns the angular velocities conjugate to (p1, p2).
func (d *DoublePendulum) Velocities(x dynamo.PhasePoint) (theta1dot, theta2dot float64) {
	t1, t2, p1, p2 := x[0], x[1], x[2], x[3]
	c := math.Cos(t1 - t2)
	k := 6.0 / (d.Mass * d.Length * d.Length)
	den := 16.0 - 9.0*c*c

	theta1dot = k * (2*p1 - 3*p2*c) / den
	theta2dot = k * (8*p2 - 3*p1*c) / den
	return
}

// Derive implements dynamo.System.
func (d *DoublePendulum) Derive(x dynamo.PhasePoint) dynamo.PhasePoint {
	t1, t2 := x[0], x[1]
	theta1dot, theta2dot := d.Velocities(x)

	mL2 := d.Mass * d.Length * d.Length
	gl := d.G / d.Length
	s := math.Sin(t1 - t2)

	p1dot := -0.5 * mL2 * (theta1dot*theta2dot*s + 3*gl*math.Sin(t1))
	p2dot := -0.5 * mL2 * (-theta1dot*theta2dot*s + gl*math.Sin(t2))

	return dynamo.PhasePoint{theta1dot, theta2dot, p1dot, p2dot}
}

// Energy implements dynamo.Hamiltonian. Kinetic energy is quadratic in the
// momenta, so T = (theta1dot*p1 + theta2dot*p2) / 2.
func (d *DoublePendulum) Energy(x dynamo.PhasePoint) float64 {
	theta1dot, theta2dot := d.Velocities(x)
	ke := 0.5 * (theta1dot*x[2] + theta2dot*x[3])
	pe := -0.5 * d.Mass * d.G * d.Length * (3*math.Cos(x[0]) + math.Cos(x[1]))
	return ke + pe
}

// Joints returns the hinge and tip positions for an anchor at (x, y).
func (d *DoublePendulum) Joints(x, y float64, p dynamo.PhasePoint) (x1, y1, x2, y2 float64) {
	x1 = x + d.Length*math.Sin(p[0])
	y1 = y - d.Length*math.Cos(p[0])
	x2 = x1 + d.Length*math.Sin(p[1])
	y2 = y1 - d.Length*math.Cos(p[1])
	return
}

// GetParams implements dynamo.Configurable
func (d *DoublePendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"g":      d.G,
		"length": d.Length,
		"mass":   d.Mass,
	}
}

// SetParam implements dynamo.Configurable
func (d *DoublePendulum) SetParam(name string, value float64) error {
	switch name {
	case "g":
		d.G = value
	case "length":
		if !(value > 0) {
			return fmt.Errorf("length %g: %w", value, dynamo.ErrParameterBounds)
		}
		d.Length = value
	case "mass":
		if !(value > 0) {
			return fmt.Errorf("mass %g: %w", value, dynamo.ErrParameterBounds)
		}
		d.Mass = value
	default:
		return fmt.Errorf("unknown param %q: %w", name, dynamo.ErrParameterBounds)
	}
	return nil
}
