package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/smoothfield/internal/config"
	"github.com/san-kum/smoothfield/internal/integrators"
	"github.com/san-kum/smoothfield/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	capacity   int
	dt         float64
	theta1     float64
	theta2     float64
	spread     float64
	epsilon    float64
	integrator string
	seed       int64
	frameMs    int
	// Snapshot output
	width  int
	height int
	zoom   float64
	// Analysis
	duration     float64
	perturbation float64
	xAxis        int
	yAxis        int
)

// main registers commands and flags, opens the terminal preset picker when
// no subcommand is given, and exits 1 if a command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "smoothfield",
		Short:        "double pendulum ensemble with adaptive resampling",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".smoothfield", "data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the field in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addFieldFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameMs, "frame-ms", config.DefaultFrameMs, "milliseconds between ticks")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the field in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addFieldFlags(guiCmd)
	guiCmd.Flags().IntVar(&frameMs, "frame-ms", config.DefaultFrameMs, "milliseconds between ticks")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless for a number of ticks and log the run",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addFieldFlags(runCmd)
	runCmd.Flags().Int("ticks", config.DefaultTicks, "number of ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-tick statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and write the final field as SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addFieldFlags(snapshotCmd)
	snapshotCmd.Flags().Int("ticks", config.DefaultTicks, "number of ticks")
	snapshotCmd.Flags().StringP("out", "o", "field.svg", "output file")
	snapshotCmd.Flags().IntVar(&width, "width", 1280, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", 720, "image height")
	snapshotCmd.Flags().Float64Var(&zoom, "zoom", 1, "zoom relative to the fitted view")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent of the seed",
		Args:  cobra.NoArgs,
		RunE:  lyapunov,
	}
	addFieldFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&duration, "time", 30, "integration time")
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial separation")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase space plot of the seed trajectory",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	addFieldFlags(phaseCmd)
	phaseCmd.Flags().Float64Var(&duration, "time", 30, "integration time")
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "phase index for x-axis (theta1, theta2, p1, p2)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "phase index for y-axis")
	phaseCmd.Flags().StringP("out", "o", "", "also write SVG to this file")
	phaseCmd.Flags().Int("poincare", -1, "plot the section where this phase index crosses 0 upwards instead (-1 = off)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "power spectrum of one coordinate of the seed trajectory",
		Args:  cobra.NoArgs,
		RunE:  spectrum,
	}
	addFieldFlags(spectrumCmd)
	spectrumCmd.Flags().Int("samples", 4096, "number of integration steps")
	spectrumCmd.Flags().IntVar(&xAxis, "index", 0, "phase index (theta1, theta2, p1, p2)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same field (all registered when none given)",
		Args:  cobra.ArbitraryArgs,
		RunE:  compareIntegrators,
	}
	addFieldFlags(compareCmd)
	compareCmd.Flags().Int("ticks", 200, "number of ticks")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput for several capacities",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	addFieldFlags(benchCmd)
	benchCmd.Flags().Int("ticks", 50, "ticks per capacity")

	sweepCmd := &cobra.Command{
		Use:   "sweep name=min:max:steps ...",
		Short: "grid search parameters minimising a metric",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sweep,
	}
	addFieldFlags(sweepCmd)
	sweepCmd.Flags().Int("ticks", 100, "ticks per trial")
	sweepCmd.Flags().String("metric", "peak_gap", "metric to minimise")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run with jittered seed angles",
		Args:  cobra.NoArgs,
		RunE:  monteCarlo,
	}
	addFieldFlags(monteCarloCmd)
	monteCarloCmd.Flags().Int("ticks", 100, "ticks per trial")
	monteCarloCmd.Flags().Int("trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64("perturbation", 1e-3, "maximum seed angle jitter")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addFieldFlags(configCmd)

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, plotCmd, exportJSONCmd, snapshotCmd,
		lyapunovCmd, phaseCmd, spectrumCmd, compareCmd, benchCmd, sweepCmd, scenarioCmd, monteCarloCmd,
		presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&preset, "preset", "ribbon", "preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	cmd.Flags().IntVar(&capacity, "capacity", def.Capacity, "number of samples")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "integration step")
	cmd.Flags().Float64Var(&theta1, "theta1", def.InitState.Theta1, "seed angle of the first rod")
	cmd.Flags().Float64Var(&theta2, "theta2", def.InitState.Theta2, "seed angle of the second rod")
	cmd.Flags().Float64Var(&spread, "spread", def.InitState.Spread, "theta2 spread across the field")
	cmd.Flags().Float64Var(&epsilon, "epsilon", def.Resample.Epsilon, "resampling threshold")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator,
		"integrator ("+strings.Join(integrators.Names(), ", ")+")")
	cmd.Flags().Int64Var(&seed, "seed", 0, "resampler random seed (0 = time based)")
}

// resolveConfig starts from the preset, applies the config file, then any
// flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	name := preset
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if !cmd.Flags().Changed("preset") {
			name = "custom"
		}
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("theta1") {
		cfg.InitState.Theta1 = theta1
	}
	if flags.Changed("theta2") {
		cfg.InitState.Theta2 = theta2
	}
	if flags.Changed("spread") {
		cfg.InitState.Spread = spread
	}
	if flags.Changed("epsilon") {
		cfg.Resample.Epsilon = epsilon
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Lookup("ticks") != nil && flags.Changed("ticks") {
		cfg.Ticks, _ = flags.GetInt("ticks")
	}
	if flags.Lookup("frame-ms") != nil && flags.Changed("frame-ms") {
		cfg.FrameMs = frameMs
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}
