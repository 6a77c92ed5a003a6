package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/smoothfield/internal/dynamo"
	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/integrators"
	"github.com/san-kum/smoothfield/internal/physics"
)

func seeded(t *testing.T, capacity int, opts ...Option) *Simulation {
	t.Helper()
	opts = append([]Option{WithRand(rand.New(rand.NewSource(42)))}, opts...)
	s, err := Initialize(capacity, DefaultSeed(), opts...)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func TestInitializeSeeding(t *testing.T) {
	seed := DefaultSeed()
	seed.X, seed.Y = 5, -5
	s, err := Initialize(256, seed, WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if s.Field().Len() != 256 || s.Capacity() != 256 {
		t.Fatalf("len %d, capacity %d", s.Field().Len(), s.Capacity())
	}

	i := 0
	s.Field().Each(func(smp *field.Sample) {
		want := 2.9 + (0.1/256)*float64(i+1)
		if smp.Phase[0] != 3.1 || smp.Phase[1] != want {
			t.Errorf("sample %d: %v, want theta2 %f", i, smp.Phase, want)
		}
		if smp.Phase[2] != 0 || smp.Phase[3] != 0 {
			t.Errorf("sample %d has non-zero momenta", i)
		}
		if smp.X != 5 || smp.Y != -5 || smp.Index != i {
			t.Errorf("sample %d: anchor (%f,%f) index %d", i, smp.X, smp.Y, smp.Index)
		}
		i++
	})
}

func TestInitializeInvalid(t *testing.T) {
	if _, err := Initialize(field.MinSize-1, DefaultSeed()); !errors.Is(err, dynamo.ErrCapacity) {
		t.Errorf("expected ErrCapacity, got %v", err)
	}

	bad := DefaultSeed()
	bad.Body.Mass = 0
	if _, err := Initialize(64, bad); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for mass, got %v", err)
	}

	if _, err := Initialize(64, DefaultSeed(), WithStep(0)); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for step, got %v", err)
	}

	if _, err := Initialize(64, DefaultSeed(), WithEpsilon(0.01, 0.02)); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for jitter, got %v", err)
	}

	nan := DefaultSeed()
	nan.Theta1 = math.NaN()
	if _, err := Initialize(64, nan); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for NaN theta1, got %v", err)
	}

	inf := DefaultSeed()
	inf.Spread = math.Inf(1)
	if _, err := Initialize(64, inf); !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState for infinite spread, got %v", err)
	}
}

func TestTickAdvancesEverySample(t *testing.T) {
	s := seeded(t, 64)
	before := s.Snapshot()

	if _, err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	rk4 := integrators.NewRK4()
	after := s.Snapshot()
	for i := range before {
		want := rk4.Step(&before[i].Body, before[i].Phase, integrators.DefaultStep)
		if after[i].Phase != want {
			t.Fatalf("sample %d: got %v, want %v", i, after[i].Phase, want)
		}
	}
	if s.Ticks() != 1 {
		t.Errorf("Ticks = %d", s.Ticks())
	}
}

func TestTickEquilibriumField(t *testing.T) {
	seed := SeedParams{Body: *physics.NewDoublePendulum()}
	s, err := Initialize(16, seed, WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	// Spread 0 puts every sample at the exact equilibrium
	for i := 0; i < 200; i++ {
		st, err := s.Tick()
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if st.Inserted != 0 {
			t.Fatalf("tick %d inserted %d samples into a degenerate field", i, st.Inserted)
		}
	}
	s.Field().Each(func(smp *field.Sample) {
		if smp.Phase != (dynamo.PhasePoint{}) {
			t.Errorf("sample left equilibrium: %v", smp.Phase)
		}
	})
}

func TestTogglePause(t *testing.T) {
	s := seeded(t, 32)

	if !s.TogglePause() || !s.Paused() {
		t.Fatal("expected paused after first toggle")
	}
	before := s.Snapshot()
	for i := 0; i < 5; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	after := s.Snapshot()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("sample %d mutated while paused", i)
		}
	}
	if s.Ticks() != 0 {
		t.Errorf("paused ticks counted: %d", s.Ticks())
	}

	if s.TogglePause() {
		t.Error("expected running after second toggle")
	}
}

func TestTickCapacityAndMinimum(t *testing.T) {
	s := seeded(t, field.MinSize)
	s.Field().Back().Phase[0] = 1.5

	for i := 0; i < 50; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if n := s.Field().Len(); n != field.MinSize {
			t.Fatalf("tick %d: len %d", i, n)
		}
	}
}

func TestTickTooSmallIsFatal(t *testing.T) {
	s := seeded(t, 8)
	for s.Field().Len() >= field.MinSize {
		s.Field().PopBack()
	}
	before := s.Field().Front().Phase

	_, err := s.Tick()
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || !errors.Is(err, dynamo.ErrFieldTooSmall) {
		t.Fatalf("expected SimulationError wrapping ErrFieldTooSmall, got %v", err)
	}
	if simErr.Tick != 0 {
		t.Errorf("tick = %d", simErr.Tick)
	}
	if s.Ticks() != 0 {
		t.Errorf("failed tick was counted: %d", s.Ticks())
	}
	if s.Field().Front().Phase == before {
		t.Error("samples should be integrated before the failing sweep")
	}
}

type countMetric struct {
	observed int
	maxLen   int
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(f *field.Field) {
	c.observed++
	if f.Len() > c.maxLen {
		c.maxLen = f.Len()
	}
}
func (c *countMetric) Value() float64 { return float64(c.observed) }
func (c *countMetric) Reset()         { c.observed, c.maxLen = 0, 0 }

type tickRecorder struct {
	ticks []int
	stats []field.Stats
}

func (r *tickRecorder) OnTick(tick int, st field.Stats, f *field.Field) {
	r.ticks = append(r.ticks, tick)
	r.stats = append(r.stats, st)
}

func TestMetricsAndObservers(t *testing.T) {
	m := &countMetric{}
	rec := &tickRecorder{}
	s := seeded(t, 64, WithMetrics(m), WithObserver(rec))

	for i := 0; i < 10; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	if got := s.Metrics()["count"]; got != 10 {
		t.Errorf("metric observed %f ticks", got)
	}
	if m.maxLen > 64 {
		t.Errorf("metric saw len %d above capacity", m.maxLen)
	}
	if len(rec.ticks) != 10 || rec.ticks[9] != 10 {
		t.Errorf("observer ticks %v", rec.ticks)
	}
	for _, st := range rec.stats {
		if st.Pairs != 63 && st.Evicted() == 0 {
			t.Errorf("expected 63 visited pairs without eviction, got %+v", st)
		}
	}

	s.ResetMetrics()
	if m.Value() != 0 {
		t.Error("ResetMetrics did not reset")
	}
}

func TestEulerOption(t *testing.T) {
	s := seeded(t, 16, WithIntegrator(integrators.NewEuler()), WithStep(0.001))
	before := s.Snapshot()[0]

	if _, err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	got := s.Snapshot()[0].Phase
	want := before.Phase.Add(before.Body.Derive(before.Phase).Scale(0.001))
	if got != want || s.Step() != 0.001 {
		t.Errorf("got %v, want %v", got, want)
	}
	if math.IsNaN(got[0]) {
		t.Error("NaN after Euler step")
	}
}
