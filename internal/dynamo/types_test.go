package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestPhasePoint_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		point PhasePoint
		valid bool
	}{
		{"zeros", PhasePoint{}, true},
		{"normal", PhasePoint{1, 2, 3, 4}, true},
		{"with NaN", PhasePoint{1, math.NaN(), 0, 0}, false},
		{"with +Inf", PhasePoint{0, 0, math.Inf(1), 0}, false},
		{"with -Inf", PhasePoint{0, 0, 0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestPhasePoint_Arithmetic(t *testing.T) {
	a := PhasePoint{1, 2, 3, 4}
	b := PhasePoint{4, 5, 6, 7}

	if got := a.Add(b); got != (PhasePoint{5, 7, 9, 11}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (PhasePoint{3, 3, 3, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != (PhasePoint{2, 4, 6, 8}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := (PhasePoint{1, 1, 1, 1}).Norm(); math.Abs(got-2) > 1e-12 {
		t.Errorf("Norm = %v, want 2", got)
	}
}

func TestPhasePoint_AngleGap(t *testing.T) {
	a := PhasePoint{0.1, 0.5, 100, -100}
	b := PhasePoint{0.15, 0.2, 0, 0}

	if got := a.AngleGap(b); math.Abs(got-0.3) > 1e-12 {
		t.Errorf("AngleGap = %v, want 0.3 (momenta must not count)", got)
	}
}

func TestLerp_Endpoints(t *testing.T) {
	cur := PhasePoint{3.1, 2.9000244140625, 0.123456789, -7.1}
	next := PhasePoint{3.0999999, 2.91, 1e-9, 42}

	if got := Lerp(cur, next, 0); got != cur {
		t.Errorf("Lerp(0) = %v, want %v", got, cur)
	}
	if got := Lerp(cur, next, 1); got != next {
		t.Errorf("Lerp(1) = %v, want %v", got, next)
	}

	mid := Lerp(PhasePoint{0, 0, 0, 0}, PhasePoint{2, 4, 6, 8}, 0.5)
	if mid != (PhasePoint{1, 2, 3, 4}) {
		t.Errorf("Lerp(0.5) = %v", mid)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Tick: 12, Wrapped: ErrFieldTooSmall}
	if !errors.Is(err, ErrFieldTooSmall) {
		t.Error("SimulationError does not unwrap to its cause")
	}
	expected := "tick 12: dynamo: field below minimum size"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
