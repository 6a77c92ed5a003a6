package automation

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/smoothfield/internal/config"
	"github.com/san-kum/smoothfield/internal/storage"
)

const scenarioYAML = `
name: smoke
description: two short runs
steps:
  - preset: small
    ticks: 5
    seed: 1
    params:
      capacity: 16
    save_as: first
  - preset: small
    ticks: 3
    seed: 2
    params:
      capacity: 8
      dt: 0.02
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	store := storage.New(t.TempDir())
	results, err := RunScenario(context.Background(), sc, store, io.Discard)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RunID == "" || results[1].RunID != "" {
		t.Error("only the step with save_as should be stored")
	}
	if results[0].Meta.Ticks != 5 || results[1].Meta.Capacity != 8 {
		t.Errorf("unexpected results %+v / %+v", results[0].Meta, results[1].Meta)
	}

	runs, err := store.List()
	if err != nil || len(runs) != 1 || runs[0].Preset != "first" {
		t.Errorf("expected one stored run, got %v, %v", runs, err)
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario_BadParam(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "small", Params: map[string]float64{"omega": 1}}}}
	if _, err := RunScenario(context.Background(), sc, nil, io.Discard); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("small")
	base.Capacity = 16

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 0.01,
		NumTrials:    3,
		Ticks:        5,
		Seed:         9,
	}, io.Discard)
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 trials, got %d", len(results))
	}
	for _, r := range results {
		if math.Abs(r.Theta1-base.InitState.Theta1) > 0.01 {
			t.Errorf("trial %d theta1 %f outside perturbation", r.TrialID, r.Theta1)
		}
		if r.Seed == 0 {
			t.Error("trial seed must be non-zero")
		}
	}

	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 3 {
		t.Errorf("stats do not cover every trial: %d + %d", stable, unstable)
	}

	mean, std := MetricSummary(results, "energy")
	if mean == 0 || std < 0 {
		t.Errorf("unexpected energy summary %f ± %f", mean, std)
	}
	if m, s := MetricSummary(results, "missing"); m != 0 || s != 0 {
		t.Error("missing metric should summarise to zero")
	}
}
