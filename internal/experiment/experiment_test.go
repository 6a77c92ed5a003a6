package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/smoothfield/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.GetPreset("small")
	cfg.Seed = 1
	return cfg
}

func TestRun(t *testing.T) {
	exp := New("small", smallConfig())
	if err := exp.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	res, err := exp.Run(context.Background(), 20)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Meta.Ticks != 20 || len(res.Ticks) != 20 {
		t.Errorf("expected 20 ticks, got %d / %d", res.Meta.Ticks, len(res.Ticks))
	}
	for _, name := range []string{"energy", "energy_drift", "energy_spread", "peak_gap", "stability"} {
		if _, ok := res.Meta.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if res.Meta.Metrics["stability"] != 0 {
		t.Errorf("expected no stability violations, got %f", res.Meta.Metrics["stability"])
	}
	for _, rec := range res.Ticks {
		if rec.Len != 64 {
			t.Errorf("tick %d: len %d", rec.Tick, rec.Len)
		}
	}
}

func TestRun_NotSetup(t *testing.T) {
	if _, err := New("small", smallConfig()).Run(context.Background(), 1); err == nil {
		t.Error("expected error before setup")
	}
}

func TestRun_Cancelled(t *testing.T) {
	exp := New("small", smallConfig())
	if err := exp.Setup(); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := exp.Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Meta.Ticks != 0 {
		t.Error("expected an empty partial result")
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Capacity = 2
	if err := New("small", cfg).Setup(); err == nil {
		t.Error("expected setup to reject capacity 2")
	}
}
