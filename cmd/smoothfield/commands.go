package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/smoothfield/internal/analysis"
	"github.com/san-kum/smoothfield/internal/config"
	"github.com/san-kum/smoothfield/internal/dynamo"
	"github.com/san-kum/smoothfield/internal/experiment"
	"github.com/san-kum/smoothfield/internal/export"
	"github.com/san-kum/smoothfield/internal/gui"
	"github.com/san-kum/smoothfield/internal/integrators"
	"github.com/san-kum/smoothfield/internal/render"
	"github.com/san-kum/smoothfield/internal/sim"
	"github.com/san-kum/smoothfield/internal/storage"
	"github.com/san-kum/smoothfield/internal/viz"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(name, func() (*sim.Simulation, error) {
		return cfg.NewSimulation()
	}, time.Duration(cfg.FrameMs)*time.Millisecond)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	fps := int32(1000 / cfg.FrameMs)
	return gui.Run("smoothfield :: "+name, func() (*sim.Simulation, error) {
		return cfg.NewSimulation()
	}, max(fps, 1))
}

// runExperiment ticks a configured field headless. Ctrl+C stops it early
// and the partial run is still returned.
func runExperiment(cfg *config.Config, name string) (*experiment.Experiment, *experiment.Result, error) {
	exp := experiment.New(name, cfg)
	if err := exp.Setup(); err != nil {
		return nil, nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d samples, %d ticks...\n", name, cfg.Capacity, cfg.Ticks)
	res, err := exp.Run(ctx, cfg.Ticks)
	if err != nil && ctx.Err() == nil {
		return exp, res, err
	}
	if ctx.Err() != nil {
		fmt.Printf("interrupted after %d ticks\n", res.Meta.Ticks)
	}
	return exp, res, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	_, res, runErr := runExperiment(cfg, name)
	if res == nil {
		return runErr
	}

	runID, err := st.Save(res.Meta, res.Ticks)
	if err != nil {
		return err
	}

	totals := tickTotals(res.Ticks)
	fmt.Printf("completed in %v\n", res.Meta.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", res.Meta.Ticks)
	fmt.Printf("inserted: %d  evicted: %d front, %d back\n", totals.Inserted, totals.EvictedFront, totals.EvictedBack)
	fmt.Println("\nmetrics:")
	for _, key := range sortedKeys(res.Meta.Metrics) {
		fmt.Printf("  %s: %.6g\n", key, res.Meta.Metrics[key])
	}
	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSAMPLES\tTICKS\tDT\tINTEG\tPEAK GAP")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\t%.5f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Capacity,
			run.Ticks,
			run.Dt,
			run.Integrator,
			run.Metrics["peak_gap"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	recs, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s (%d samples, dt %.4f)\n\n", meta.Preset, meta.Capacity, meta.Dt)

	series := []struct {
		caption string
		value   func(storage.TickRecord) float64
	}{
		{"max adjacent gap", func(r storage.TickRecord) float64 { return r.MaxGap }},
		{"samples inserted per tick", func(r storage.TickRecord) float64 { return float64(r.Inserted) }},
		{"mean energy", func(r storage.TickRecord) float64 { return r.MeanEnergy }},
	}

	for _, s := range series {
		data := make([]float64, len(recs))
		for i, r := range recs {
			data[i] = s.value(r)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	recs, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return storage.ExportJSON(os.Stdout, *meta, recs)
	}
	if err := storage.ExportJSONFile(out, *meta, recs); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", out)
	return nil
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, res, err := runExperiment(cfg, name)
	if err != nil {
		return err
	}

	f := exp.GetSimulator().Field()
	render.Recolor(f)

	out, _ := cmd.Flags().GetString("out")
	if err := export.WriteFieldSVG(out, f.Snapshot(), width, height, zoom); err != nil {
		return err
	}
	fmt.Printf("wrote %d samples after %d ticks to %s\n", f.Len(), res.Meta.Ticks, out)
	return nil
}

func seedPoint(cfg *config.Config) dynamo.PhasePoint {
	return dynamo.PhasePoint{cfg.InitState.Theta1, cfg.InitState.Theta2, cfg.InitState.P1, cfg.InitState.P2}
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}

	body := cfg.Body()
	x0 := seedPoint(cfg)
	lambda := analysis.LyapunovExponent(&body, integ, x0, cfg.Dt, duration, perturbation)
	exps := analysis.LyapunovSpectrum(&body, integ, x0, cfg.Dt, duration, perturbation)

	fmt.Printf("seed %s: %s\n", name, x0)
	fmt.Printf("largest exponent: %.4f /s\n", lambda)
	if lambda > 0 {
		// neighbouring samples separate by a factor e over this time
		fmt.Printf("separation e-folding time: %.2fs (~%.0f ticks)\n", 1/lambda, 1/(lambda*cfg.Dt))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nPERTURBED\tEXPONENT")
	for i, label := range []string{"theta1", "theta2", "p1", "p2"} {
		fmt.Fprintf(w, "%s\t%.4f\n", label, exps[i])
	}
	return w.Flush()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}

	body := cfg.Body()
	labels := []string{"theta1", "theta2", "p1", "p2"}
	var points []analysis.Point

	if cross, _ := cmd.Flags().GetInt("poincare"); cross >= 0 {
		section := analysis.GeneratePoincareSection(&body, integ, seedPoint(cfg), cross, 0, xAxis, yAxis, cfg.Dt, duration)
		if section == nil {
			return fmt.Errorf("indices must be in [0, 3], got %d, %d and %d", cross, xAxis, yAxis)
		}
		points = section.Points
		fmt.Printf("poincare section at %s = 0 (upward): %s vs %s over %.1fs, %d crossings\n\n",
			labels[cross], labels[yAxis], labels[xAxis], duration, len(points))
	} else {
		portrait := analysis.GeneratePhasePortrait(&body, integ, seedPoint(cfg), xAxis, yAxis, cfg.Dt, duration)
		if portrait == nil {
			return fmt.Errorf("axes must be in [0, 3], got %d and %d", xAxis, yAxis)
		}
		points = portrait.Points
		fmt.Printf("phase portrait: %s vs %s over %.1fs (energy drift %.2e)\n\n",
			labels[yAxis], labels[xAxis], duration, portrait.EnergyDrift)
	}
	fmt.Print(analysis.PhasePortraitToASCII(points, 80, 24))

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return nil
	}
	pts := make([]render.Point, len(points))
	for i, p := range points {
		pts[i] = render.Point{X: p.X, Y: p.Y}
	}
	if err := os.WriteFile(out, []byte(export.TrajectoryToSVG(pts, 800, 600, "#20ffff")), 0644); err != nil {
		return err
	}
	fmt.Printf("\nwrote %s\n", out)
	return nil
}

func spectrum(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("samples")

	if n < 8 {
		return fmt.Errorf("need at least 8 samples, got %d", n)
	}

	body := cfg.Body()
	s := analysis.GenerateSpectrum(&body, integ, seedPoint(cfg), xAxis, cfg.Dt, n)
	if s == nil {
		return fmt.Errorf("index must be in [0, 3], got %d", xAxis)
	}

	labels := []string{"theta1", "theta2", "p1", "p2"}
	fmt.Printf("%s spectrum of %s over %.1fs\n\n", labels[xAxis], name, float64(n)*cfg.Dt)

	// the low end holds the pendulum modes; the rest is a flat floor
	bins := min(len(s.Power), 200)
	fmt.Println(asciigraph.Plot(s.Power[1:bins],
		asciigraph.Height(12), asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|X(f)|, %.3f to %.3f Hz", s.Freqs[1], s.Freqs[bins-1]))))
	fmt.Printf("\ndominant frequency: %.4f Hz (period %.3fs)\n", s.Dominant(), 1/s.Dominant())
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("ticks")
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	fmt.Printf("comparing integrators on %s (%d samples, %d ticks, seed %d)\n\n", name, cfg.Capacity, n, cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tENERGY DRIFT\tINSERTED\tEVICTED\tPEAK GAP")

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}
	for _, integName := range names {
		c := *cfg
		c.Integrator = integName
		c.Ticks = n
		exp := experiment.New(name, &c)
		if err := exp.Setup(); err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", integName, err)
			continue
		}
		res, err := exp.Run(context.Background(), n)
		if err != nil {
			fmt.Fprintf(w, "%s\terror after %d ticks: %v\n", integName, res.Meta.Ticks, err)
			continue
		}
		totals := tickTotals(res.Ticks)
		fmt.Fprintf(w, "%s\t%v\t%.3e\t%d\t%d\t%.5f\n",
			integName, res.Meta.Elapsed.Round(time.Millisecond),
			res.Meta.Metrics["energy_drift"], totals.Inserted, totals.Evicted(), res.Meta.Metrics["peak_gap"])
	}

	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("ticks")

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SAMPLES\tTICKS\tTIME\tTICKS/SEC\tSAMPLE STEPS/SEC")

	for _, c := range []int{256, 1024, 4096, 16384} {
		opts, err := cfg.SimOptions()
		if err != nil {
			return err
		}
		opts = append(opts, sim.WithRand(rand.New(rand.NewSource(42))))
		s, err := sim.Initialize(c, cfg.SeedParams(), opts...)
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < n; i++ {
			if _, err := s.Tick(); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.0f\n",
			c, n, elapsed.Round(time.Millisecond),
			float64(n)/elapsed.Seconds(), float64(n*c)/elapsed.Seconds())
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSAMPLES\tTHETA1\tTHETA2\tSPREAD")
	for _, p := range config.ListPresets() {
		cfg := config.GetPreset(p)
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%g\n", p, cfg.Capacity, cfg.InitState.Theta1, cfg.InitState.Theta2, cfg.InitState.Spread)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
