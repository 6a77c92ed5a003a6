package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/smoothfield/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if cfg.Dt != 0.0125 {
		t.Errorf("expected dt 0.0125, got %f", cfg.Dt)
	}
	if cfg.Resample.Epsilon != 0.01 || cfg.Resample.Jitter != 1e-4 {
		t.Errorf("unexpected resample config %+v", cfg.Resample)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.yaml")

	cfg := DefaultConfig()
	cfg.Capacity = 128
	cfg.Seed = 42
	cfg.InitState.Theta1 = 1.25
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"capacity", func(c *Config) { c.Capacity = 4 }, dynamo.ErrCapacity},
		{"dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrParameterBounds},
		{"frame", func(c *Config) { c.FrameMs = 0 }, dynamo.ErrParameterBounds},
		{"epsilon", func(c *Config) { c.Resample.Epsilon = 1e-5 }, dynamo.ErrParameterBounds},
		{"length", func(c *Config) { c.InitState.Length = 0 }, dynamo.ErrParameterBounds},
		{"mass", func(c *Config) { c.InitState.Mass = math.NaN() }, dynamo.ErrParameterBounds},
		{"integrator", func(c *Config) { c.Integrator = "leapfrog" }, dynamo.ErrUnknownIntegrator},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("original")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.Theta1 != 2.9 || cfg.InitState.Theta2 != 1.3 || cfg.Capacity != 32768 {
		t.Errorf("unexpected original preset %+v", cfg.InitState)
	}

	cfg.Capacity = 7
	if Presets["original"].Capacity != 32768 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Error("presets should be sorted")
		}
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestNewSimulation(t *testing.T) {
	cfg := GetPreset("small")
	cfg.Seed = 7

	s, err := cfg.NewSimulation()
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	if s.Capacity() != 64 || s.Field().Len() != 64 {
		t.Errorf("expected 64 samples, got %d", s.Field().Len())
	}
	if got := s.Field().Front().Phase.Theta1(); got != 2.0 {
		t.Errorf("theta1 = %f", got)
	}
	if s.Step() != cfg.Dt {
		t.Errorf("step = %f", s.Step())
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	for i, name := range ParamNames() {
		if err := cfg.SetParam(name, float64(100+i)); err != nil {
			t.Errorf("SetParam(%s): %v", name, err)
		}
	}
	if cfg.Capacity != 100 || cfg.Dt != 101 || cfg.InitState.Mass != 111 {
		t.Errorf("unexpected config %+v", cfg)
	}

	for i, name := range ParamNames() {
		v, err := cfg.Param(name)
		if err != nil || v != float64(100+i) {
			t.Errorf("Param(%s) = %g, %v", name, v, err)
		}
	}

	if err := cfg.SetParam("omega", 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if _, err := cfg.Param("omega"); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestSetParam_BodyBounds(t *testing.T) {
	cfg := DefaultConfig()
	for _, name := range []string{"length", "mass"} {
		before, _ := cfg.Param(name)
		if err := cfg.SetParam(name, 0); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("SetParam(%s, 0): expected ErrParameterBounds, got %v", name, err)
		}
		if after, _ := cfg.Param(name); after != before {
			t.Errorf("%s changed to %g on a rejected set", name, after)
		}
	}
	if err := cfg.SetParam("g", 9.81); err != nil || cfg.InitState.G != 9.81 {
		t.Errorf("g not applied: %g, %v", cfg.InitState.G, err)
	}
}
