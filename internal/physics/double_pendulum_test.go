package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

func TestDoublePendulumEquilibrium(t *testing.T) {
	dp := NewDoublePendulum()

	dx := dp.Derive(dynamo.PhasePoint{0, 0, 0, 0})
	for i, v := range dx {
		if v != 0 {
			t.Errorf("expected zero derivative component %d, got %g", i, v)
		}
	}
}

func TestDoublePendulumKnownDerivative(t *testing.T) {
	dp := &DoublePendulum{G: 10, Length: 1, Mass: 1}

	// theta1 = theta2 = 0 with p1 = 1: cos = 1, den = 7
	dx := dp.Derive(dynamo.PhasePoint{0, 0, 1, 0})
	if math.Abs(dx[0]-12.0/7.0) > 1e-12 {
		t.Errorf("theta1dot = %f, want %f", dx[0], 12.0/7.0)
	}
	if math.Abs(dx[1]+18.0/7.0) > 1e-12 {
		t.Errorf("theta2dot = %f, want %f", dx[1], -18.0/7.0)
	}
	if dx[2] != 0 || dx[3] != 0 {
		t.Errorf("expected zero momentum change, got %f %f", dx[2], dx[3])
	}
}

func TestDoublePendulumSymmetry(t *testing.T) {
	dp := NewDoublePendulum()

	dx1 := dp.Derive(dynamo.PhasePoint{0.1, 0.2, 0, 0})
	dx2 := dp.Derive(dynamo.PhasePoint{-0.1, -0.2, 0, 0})

	if math.Abs(dx1[2]+dx2[2]) > 1e-9 {
		t.Errorf("expected antisymmetric p1dot: %f vs %f", dx1[2], dx2[2])
	}
	if math.Abs(dx1[3]+dx2[3]) > 1e-9 {
		t.Errorf("expected antisymmetric p2dot: %f vs %f", dx1[3], dx2[3])
	}
}

func TestDoublePendulumEnergy(t *testing.T) {
	dp := &DoublePendulum{G: 10, Length: 2, Mass: 3}

	// hanging at rest: V = -m g L (3 + 1) / 2
	if got, want := dp.Energy(dynamo.PhasePoint{}), -0.5*3*10*2*4.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("rest energy = %f, want %f", got, want)
	}

	moving := dynamo.PhasePoint{0.3, -0.2, 5, 1}
	still := dynamo.PhasePoint{0.3, -0.2, 0, 0}
	if dp.Energy(moving) <= dp.Energy(still) {
		t.Error("kinetic energy must be positive")
	}
}

func TestDoublePendulumJoints(t *testing.T) {
	dp := &DoublePendulum{G: 10, Length: 75, Mass: 10}

	x1, y1, x2, y2 := dp.Joints(1, 2, dynamo.PhasePoint{0, math.Pi / 2, 0, 0})
	if math.Abs(x1-1) > 1e-12 || math.Abs(y1+73) > 1e-12 {
		t.Errorf("joint = (%f, %f), want (1, -73)", x1, y1)
	}
	if math.Abs(x2-76) > 1e-12 || math.Abs(y2+73) > 1e-9 {
		t.Errorf("tip = (%f, %f), want (76, -73)", x2, y2)
	}
}

func TestDoublePendulumParams(t *testing.T) {
	dp := NewDoublePendulum()

	if err := dp.SetParam("length", 10); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if dp.GetParams()["length"] != 10 {
		t.Errorf("length not applied: %v", dp.GetParams())
	}
	if err := dp.SetParam("mass", 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := dp.SetParam("damping", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}

func TestDoublePendulumValidate(t *testing.T) {
	tests := []struct {
		name  string
		dp    DoublePendulum
		valid bool
	}{
		{"default", *NewDoublePendulum(), true},
		{"zero length", DoublePendulum{G: 10, Length: 0, Mass: 1}, false},
		{"negative mass", DoublePendulum{G: 10, Length: 1, Mass: -1}, false},
		{"NaN length", DoublePendulum{G: 10, Length: math.NaN(), Mass: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dp.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, valid = %v", err, tt.valid)
			}
		})
	}
}
