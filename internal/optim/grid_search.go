package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/smoothfield/internal/config"
	"github.com/san-kum/smoothfield/internal/experiment"
)

// Trial is one grid point and the metric it produced.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch runs a headless experiment at every combination of parameter
// values and keeps the one minimising a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	def := config.DefaultConfig()
	for i, name := range params {
		if _, err := def.Param(name); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search returns the best parameters, their metric value and every trial
// in grid order. Trials whose config fails validation or whose run fails
// are kept with Err set and never win. ctx cancellation stops the search
// and returns what has run so far.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	ticks int,
	metricName string,
) (map[string]float64, float64, []Trial, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	g.searchRecursive(ctx, 0, make(map[string]float64), base, ticks, metricName, &best, &bestParams, &trials)

	if bestParams == nil {
		if err := ctx.Err(); err != nil {
			return nil, best, trials, err
		}
		return nil, best, trials, fmt.Errorf("no successful trial")
	}
	return bestParams, best, trials, ctx.Err()
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	ticks int,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	trials *[]Trial,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		trial := Trial{Params: current}
		trial.Value, trial.Err = g.evaluate(ctx, base, current, ticks, metricName)
		*trials = append(*trials, trial)

		if trial.Err == nil && trial.Value < *best {
			*best = trial.Value
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, base, ticks, metricName, best, bestParams, trials)
	}
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, ticks int, metricName string) (float64, error) {
	cfg := *base
	for name, v := range params {
		if err := cfg.SetParam(name, v); err != nil {
			return 0, err
		}
	}

	exp := experiment.New("sweep", &cfg)
	if err := exp.Setup(); err != nil {
		return 0, err
	}
	res, err := exp.Run(ctx, ticks)
	if err != nil {
		return 0, err
	}
	val, ok := res.Meta.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", metricName)
	}
	return val, nil
}
