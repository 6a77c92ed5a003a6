package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/smoothfield/internal/config"
	"github.com/san-kum/smoothfield/internal/metrics"
	"github.com/san-kum/smoothfield/internal/sim"
	"github.com/san-kum/smoothfield/internal/storage"
)

// Result is what a headless run leaves behind: the run settings, final
// metric values and one record per completed tick.
type Result struct {
	Meta  storage.RunMetadata
	Ticks []storage.TickRecord
}

// Experiment runs a configured field for a fixed number of ticks without
// a renderer.
type Experiment struct {
	preset    string
	cfg       config.Config
	simulator *sim.Simulation
	recorder  *storage.Recorder
}

func New(preset string, cfg *config.Config) *Experiment {
	return &Experiment{preset: preset, cfg: *cfg}
}

// DefaultMetrics are registered on every headless run. The stability
// threshold is twice the resampling threshold, which a healthy field never
// reaches after a sweep.
func DefaultMetrics(epsilon float64) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewEnergySpread(),
		metrics.NewPeakGap(),
		metrics.NewStability(2 * epsilon),
	}
}

func (e *Experiment) Setup() error {
	e.recorder = storage.NewRecorder(e.cfg.Dt)
	s, err := e.cfg.NewSimulation(
		sim.WithMetrics(DefaultMetrics(e.cfg.Resample.Epsilon)...),
		sim.WithObserver(e.recorder),
	)
	if err != nil {
		return err
	}
	e.simulator = s
	return nil
}

// Run ticks until ticks have completed, ctx is done, or a tick fails. The
// result always covers the ticks that did complete.
func (e *Experiment) Run(ctx context.Context, ticks int) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	var runErr error
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if _, err := e.simulator.Tick(); err != nil {
			runErr = err
			break
		}
	}

	return &Result{
		Meta: storage.RunMetadata{
			Preset:     e.preset,
			Seed:       e.cfg.Seed,
			Dt:         e.cfg.Dt,
			Capacity:   e.cfg.Capacity,
			Ticks:      e.simulator.Ticks(),
			Integrator: e.cfg.Integrator,
			Epsilon:    e.cfg.Resample.Epsilon,
			Theta1:     e.cfg.InitState.Theta1,
			Theta2:     e.cfg.InitState.Theta2,
			Spread:     e.cfg.InitState.Spread,
			Elapsed:    time.Since(start),
			Metrics:    e.simulator.Metrics(),
		},
		Ticks: e.recorder.Records,
	}, runErr
}

// GetSimulator returns the underlying simulation, e.g. for a final
// snapshot.
func (e *Experiment) GetSimulator() *sim.Simulation {
	return e.simulator
}
