package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/smoothfield/internal/config"
	"github.com/san-kum/smoothfield/internal/experiment"
	"github.com/san-kum/smoothfield/internal/storage"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset, applies params by name and runs for
// Ticks ticks. A step with SaveAs set is written to the run store.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Ticks  int                `yaml:"ticks"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

type StepResult struct {
	Step  int
	RunID string
	*experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

func (s ScenarioStep) config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "ribbon"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	cfg.Seed = s.Seed
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. store may be nil, in which
// case SaveAs is ignored. Progress goes to out.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, out io.Writer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "step %d/%d: %s, %d samples, %d ticks\n", i+1, len(scenario.Steps), step.Preset, cfg.Capacity, cfg.Ticks)

		label := step.SaveAs
		if label == "" {
			label = step.Preset
		}
		exp := experiment.New(label, cfg)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := exp.Run(ctx, cfg.Ticks)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: res}
		if store != nil && step.SaveAs != "" {
			if sr.RunID, err = store.Save(res.Meta, res.Ticks); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			fmt.Fprintf(out, "  saved %s\n", sr.RunID)
		}
		results = append(results, sr)
	}

	return results, nil
}

// MonteCarloConfig repeats a run with the seed angles jittered by up to
// Perturbation and a fresh resampler seed per trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Ticks        int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID        int
	Theta1, Theta2 float64
	Seed           int64
	Metrics        map[string]float64
	// Stable reports that no tick ended with a gap above twice epsilon or
	// a non-finite sample.
	Stable bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, out io.Writer) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.InitState.Theta1 += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		c.InitState.Theta2 += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		c.Seed = rng.Int63() | 1

		exp := experiment.New("montecarlo", &c)
		if err := exp.Setup(); err != nil {
			return results, err
		}
		res, err := exp.Run(ctx, cfg.Ticks)
		if err != nil {
			return results, err
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Theta1:  c.InitState.Theta1,
			Theta2:  c.InitState.Theta2,
			Seed:    c.Seed,
			Metrics: res.Meta.Metrics,
			Stable:  res.Meta.Metrics["stability"] == 0,
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(out, "monte carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// MetricSummary returns the mean and standard deviation of one metric
// across trials.
func MetricSummary(results []MonteCarloResult, name string) (mean, stddev float64) {
	xs := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Metrics[name]; ok {
			xs = append(xs, v)
		}
	}
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}
