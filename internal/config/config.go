package config

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/smoothfield/internal/dynamo"
	"github.com/san-kum/smoothfield/internal/field"
	"github.com/san-kum/smoothfield/internal/integrators"
	"github.com/san-kum/smoothfield/internal/physics"
	"github.com/san-kum/smoothfield/internal/sim"
)

const (
	DefaultCapacity = 4096
	DefaultFrameMs  = 16
	DefaultTicks    = 600
	DefaultTheta1   = 3.1
	DefaultTheta2   = 2.9
	DefaultSpread   = 0.1
)

type Config struct {
	Integrator string          `yaml:"integrator"`
	Capacity   int             `yaml:"capacity"`
	Dt         float64         `yaml:"dt"`
	FrameMs    int             `yaml:"frame_ms"`
	Ticks      int             `yaml:"ticks"`
	Seed       int64           `yaml:"seed"`
	Resample   ResampleConfig  `yaml:"resample"`
	InitState  InitStateConfig `yaml:"init_state"`
}

type ResampleConfig struct {
	Epsilon float64 `yaml:"epsilon"`
	Jitter  float64 `yaml:"jitter"`
}

type InitStateConfig struct {
	G      float64 `yaml:"g"`
	Length float64 `yaml:"length"`
	Mass   float64 `yaml:"mass"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	Spread float64 `yaml:"spread"`
	P1     float64 `yaml:"p1"`
	P2     float64 `yaml:"p2"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "rk4",
		Capacity:   DefaultCapacity,
		Dt:         integrators.DefaultStep,
		FrameMs:    DefaultFrameMs,
		Ticks:      DefaultTicks,
		Resample: ResampleConfig{
			Epsilon: field.DefaultEpsilon,
			Jitter:  field.DefaultJitter,
		},
		InitState: InitStateConfig{
			G:      physics.DefaultGravity,
			Length: physics.DefaultLength,
			Mass:   physics.DefaultMass,
			Theta1: DefaultTheta1,
			Theta2: DefaultTheta2,
			Spread: DefaultSpread,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations Initialize would refuse, so bad files
// fail at load time.
func (c *Config) Validate() error {
	if c.Capacity < field.MinSize {
		return fmt.Errorf("capacity %d below %d: %w", c.Capacity, field.MinSize, dynamo.ErrCapacity)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %g: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.FrameMs <= 0 {
		return fmt.Errorf("frame_ms must be positive, got %d: %w", c.FrameMs, dynamo.ErrParameterBounds)
	}
	if c.Resample.Jitter < 0 || !(c.Resample.Epsilon > c.Resample.Jitter) {
		return fmt.Errorf("epsilon %g with jitter %g: %w", c.Resample.Epsilon, c.Resample.Jitter, dynamo.ErrParameterBounds)
	}
	if _, err := integrators.Get(c.Integrator); err != nil {
		return err
	}
	body := c.Body()
	return body.Validate()
}

func (c *Config) Body() physics.DoublePendulum {
	return physics.DoublePendulum{
		G:      c.InitState.G,
		Length: c.InitState.Length,
		Mass:   c.InitState.Mass,
	}
}

func (c *Config) SeedParams() sim.SeedParams {
	return sim.SeedParams{
		Body:   c.Body(),
		X:      c.InitState.X,
		Y:      c.InitState.Y,
		Theta1: c.InitState.Theta1,
		Theta2: c.InitState.Theta2,
		Spread: c.InitState.Spread,
		P1:     c.InitState.P1,
		P2:     c.InitState.P2,
	}
}

// SimOptions translates the config into simulation options. A zero seed
// leaves the time-seeded default source in place.
func (c *Config) SimOptions() ([]sim.Option, error) {
	integ, err := integrators.Get(c.Integrator)
	if err != nil {
		return nil, err
	}
	opts := []sim.Option{
		sim.WithIntegrator(integ),
		sim.WithStep(c.Dt),
		sim.WithEpsilon(c.Resample.Epsilon, c.Resample.Jitter),
	}
	if c.Seed != 0 {
		opts = append(opts, sim.WithRand(rand.New(rand.NewSource(c.Seed))))
	}
	return opts, nil
}

// NewSimulation validates the config and seeds a simulation from it.
func (c *Config) NewSimulation(extra ...sim.Option) (*sim.Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.SimOptions()
	if err != nil {
		return nil, err
	}
	return sim.Initialize(c.Capacity, c.SeedParams(), append(opts, extra...)...)
}

// ParamNames lists the keys accepted by SetParam.
func ParamNames() []string {
	return []string{"capacity", "dt", "epsilon", "jitter", "theta1", "theta2", "spread", "p1", "p2", "g", "length", "mass"}
}

// SetParam sets one numeric setting by name. Sweeps and scenario files
// address settings this way. Body parameters are checked by the pendulum
// itself.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "capacity":
		c.Capacity = int(value)
	case "dt":
		c.Dt = value
	case "epsilon":
		c.Resample.Epsilon = value
	case "jitter":
		c.Resample.Jitter = value
	case "theta1":
		c.InitState.Theta1 = value
	case "theta2":
		c.InitState.Theta2 = value
	case "spread":
		c.InitState.Spread = value
	case "p1":
		c.InitState.P1 = value
	case "p2":
		c.InitState.P2 = value
	case "g", "length", "mass":
		body := c.Body()
		var p dynamo.Configurable = &body
		if err := p.SetParam(name, value); err != nil {
			return err
		}
		c.InitState.G, c.InitState.Length, c.InitState.Mass = body.G, body.Length, body.Mass
	default:
		return fmt.Errorf("unknown parameter %q (known: %v): %w", name, ParamNames(), dynamo.ErrParameterBounds)
	}
	return nil
}

// Param reads one setting by the names SetParam accepts.
func (c *Config) Param(name string) (float64, error) {
	switch name {
	case "capacity":
		return float64(c.Capacity), nil
	case "dt":
		return c.Dt, nil
	case "epsilon":
		return c.Resample.Epsilon, nil
	case "jitter":
		return c.Resample.Jitter, nil
	case "theta1":
		return c.InitState.Theta1, nil
	case "theta2":
		return c.InitState.Theta2, nil
	case "spread":
		return c.InitState.Spread, nil
	case "p1":
		return c.InitState.P1, nil
	case "p2":
		return c.InitState.P2, nil
	case "g", "length", "mass":
		body := c.Body()
		var p dynamo.Configurable = &body
		return p.GetParams()[name], nil
	}
	return 0, fmt.Errorf("unknown parameter %q (known: %v): %w", name, ParamNames(), dynamo.ErrParameterBounds)
}
