package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/smoothfield/internal/dynamo"
	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/integrators"
	"github.com/san-kum/smoothfield/internal/physics"
)

// SeedParams describes the initial cluster: every sample shares the body,
// anchor, theta1 and momenta, and theta2 is spread linearly across the
// field.
type SeedParams struct {
	Body   physics.DoublePendulum
	X, Y   float64
	Theta1 float64
	Theta2 float64
	Spread float64
	P1, P2 float64
}

func DefaultSeed() SeedParams {
	return SeedParams{
		Body:   *physics.NewDoublePendulum(),
		Theta1: 3.1,
		Theta2: 2.9,
		Spread: 0.1,
	}
}

// Theta2At returns the seeded theta2 of sample i in a field of capacity n.
func (p SeedParams) Theta2At(i, n int) float64 {
	return p.Theta2 + (p.Spread/float64(n))*float64(i+1)
}

type Metric interface {
	Name() string
	Observe(f *field.Field)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tick int, st field.Stats, f *field.Field)
}

// Simulation owns the field and advances it one tick at a time. It is not
// safe for concurrent use; renderers read it between ticks.
type Simulation struct {
	field      *field.Field
	integrator dynamo.Integrator
	resampler  *field.Resampler
	h          float64
	paused     bool
	ticks      int
	metrics    []Metric
	observers  []Observer
}

type Option func(*Simulation)

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(s *Simulation) { s.integrator = integ }
}

func WithStep(h float64) Option {
	return func(s *Simulation) { s.h = h }
}

func WithRand(src dynamo.RandSource) Option {
	return func(s *Simulation) { s.resampler.Rand = src }
}

func WithEpsilon(eps, jitter float64) Option {
	return func(s *Simulation) {
		s.resampler.Epsilon = eps
		s.resampler.Jitter = jitter
	}
}

func WithMetrics(metrics ...Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, metrics...) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// Initialize seeds a field of exactly capacity samples.
func Initialize(capacity int, seed SeedParams, opts ...Option) (*Simulation, error) {
	if err := seed.Body.Validate(); err != nil {
		return nil, err
	}
	f, err := field.New(capacity)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		field:      f,
		integrator: integrators.NewRK4(),
		resampler:  field.NewResampler(rand.New(rand.NewSource(time.Now().UnixNano()))),
		h:          integrators.DefaultStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !(s.h > 0) {
		return nil, fmt.Errorf("step must be positive, got %g: %w", s.h, dynamo.ErrParameterBounds)
	}
	if !(s.resampler.Epsilon > s.resampler.Jitter) || s.resampler.Jitter < 0 {
		return nil, fmt.Errorf("epsilon %g with jitter %g: %w", s.resampler.Epsilon, s.resampler.Jitter, dynamo.ErrParameterBounds)
	}

	first := dynamo.PhasePoint{seed.Theta1, seed.Theta2At(0, capacity), seed.P1, seed.P2}
	last := dynamo.PhasePoint{seed.Theta1, seed.Theta2At(capacity-1, capacity), seed.P1, seed.P2}
	if !first.IsValid() || !last.IsValid() {
		return nil, fmt.Errorf("seed %v to %v: %w", first, last, dynamo.ErrInvalidState)
	}

	for i := 0; i < capacity; i++ {
		f.PushBack(field.Sample{
			Body:  seed.Body,
			Phase: dynamo.PhasePoint{seed.Theta1, seed.Theta2At(i, capacity), seed.P1, seed.P2},
			X:     seed.X,
			Y:     seed.Y,
			Index: i,
		})
	}
	return s, nil
}

// Tick advances every sample one step, refreshes ranks, then resamples
// every adjacent pair. Integration finishes before any resampling decision
// is made. A paused simulation does nothing. On error the field is left
// integrated but not resampled and the tick is not counted.
func (s *Simulation) Tick() (field.Stats, error) {
	if s.paused {
		return field.Stats{}, nil
	}

	s.field.Each(func(smp *field.Sample) {
		smp.Phase = s.integrator.Step(&smp.Body, smp.Phase, s.h)
	})
	s.field.Reindex()

	st, err := s.resampler.Sweep(s.field)
	if err != nil {
		return st, &dynamo.SimulationError{Tick: s.ticks, Wrapped: err}
	}
	s.ticks++

	for _, m := range s.metrics {
		m.Observe(s.field)
	}
	for _, o := range s.observers {
		o.OnTick(s.ticks, st, s.field)
	}
	return st, nil
}

// TogglePause flips the pause flag and returns the new value.
func (s *Simulation) TogglePause() bool {
	s.paused = !s.paused
	return s.paused
}

func (s *Simulation) Paused() bool                { return s.paused }
func (s *Simulation) Field() *field.Field         { return s.field }
func (s *Simulation) Snapshot() []field.Sample    { return s.field.Snapshot() }
func (s *Simulation) Capacity() int               { return s.field.Capacity() }
func (s *Simulation) Ticks() int                  { return s.ticks }
func (s *Simulation) Step() float64               { return s.h }
func (s *Simulation) Resampler() *field.Resampler { return s.resampler }

// Metrics reports the current value of every registered metric.
func (s *Simulation) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// ResetMetrics clears accumulated metric state.
func (s *Simulation) ResetMetrics() {
	for _, m := range s.metrics {
		m.Reset()
	}
}
