package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/smoothfield/internal/automation"
	"github.com/san-kum/smoothfield/internal/optim"
	"github.com/san-kum/smoothfield/internal/storage"
)

// parseRange reads "name=min:max:steps" into a name and evenly spaced values.
func parseRange(spec string) (string, []float64, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid range %q, want name=min:max:steps", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid range %q, want name=min:max:steps", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", spec, err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil || steps < 1 {
		return "", nil, fmt.Errorf("%s: steps must be a positive integer", spec)
	}

	if steps == 1 {
		return name, []float64{lo}, nil
	}
	values := make([]float64, steps)
	for i := range values {
		values[i] = lo + (hi-lo)*float64(i)/float64(steps-1)
	}
	return name, values, nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ticks, _ := cmd.Flags().GetInt("ticks")
	metric, _ := cmd.Flags().GetString("metric")

	var names []string
	var ranges [][]float64
	for _, spec := range args {
		n, values, err := parseRange(spec)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, values)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over %v, minimising %s (%d ticks per trial)\n\n", name, names, metric, ticks)
	best, value, trials, err := gs.Search(ctx, cfg, ticks, metric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, t := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%.4g\t", t.Params[n])
		}
		if t.Err != nil {
			fmt.Fprintf(w, "error: %v\n", t.Err)
		} else {
			fmt.Fprintf(w, "%.6g\n", t.Value)
		}
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if best != nil {
		fmt.Printf("\nbest %s = %.6g at %v\n", metric, value, best)
	}
	return err
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %s\n", sc.Name, sc.Description)
	results, err := automation.RunScenario(ctx, sc, st, os.Stdout)

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tTICKS\tPEAK GAP\tENERGY DRIFT\tRUN ID")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.5f\t%.3e\t%s\n", r.Step, r.Meta.Preset, r.Meta.Ticks,
			r.Meta.Metrics["peak_gap"], r.Meta.Metrics["energy_drift"], r.RunID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	trials, _ := cmd.Flags().GetInt("trials")
	ticks, _ := cmd.Flags().GetInt("ticks")
	perturbation, _ := cmd.Flags().GetFloat64("perturbation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("monte carlo on %s: %d trials, %d ticks, perturbation %g\n", name, trials, ticks, perturbation)
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Ticks:        ticks,
		Seed:         cfg.Seed,
	}, os.Stdout)
	if len(results) == 0 {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n\n", stable, unstable)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV")
	for _, key := range sortedKeys(results[0].Metrics) {
		mean, std := automation.MetricSummary(results, key)
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\n", key, mean, std)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}
