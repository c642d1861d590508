package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/san-kum/sigpath/internal/config"
	"github.com/san-kum/sigpath/internal/experiment"
	"github.com/san-kum/sigpath/internal/logging"
	"github.com/san-kum/sigpath/internal/metrics"
	"github.com/san-kum/sigpath/internal/storage"
	"github.com/san-kum/sigpath/internal/viz"
)

var (
	dataDir     string
	storageKind string
	configFile  string
	logLevel    string
	logFormat   string
	metricsAddr string
	themeName   string

	integrator string
	preset     string
	start      float64
	end        float64
	points     int
	relTol     float64
	absTol     float64
	maxStep    float64
	constants  map[string]string
	initial    map[string]string
	showPlot   bool
	noSave     bool
	species    []string

	sweepConst  string
	sweepValues []float64
	members     int
	spread      float64
	seed        int64
	workers     int
)

var (
	logger    *slog.Logger
	collector *metrics.Collector
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sigpath",
		Short:         "signaling pathway kinetics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultStorageDir, "run storage directory")
	pf.StringVar(&storageKind, "storage", "", "run storage driver (file|sqlite)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")
	pf.StringVar(&logFormat, "log-format", "", "log format (text|json)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
	pf.StringVar(&themeName, "theme", "lab", "color theme ("+strings.Join(viz.ThemeNames(), "|")+")")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "simulate a model and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the trajectory after the run")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	inspectCmd := &cobra.Command{
		Use:   "inspect [model]",
		Short: "show the compiled reaction network and its diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectModel,
	}
	inspectCmd.Flags().StringToStringVar(&constants, "const", nil, "constant override (name=value)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored concentrations",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&species, "species", nil, "species to plot (default: first six)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarize a stored run: extrema, steady state, oscillation",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "step through a stored run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [path]",
		Short: "export a run's trajectory to CSV",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [path]",
		Short: "export a run's metadata and trajectory to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [path]",
		Short: "render a run's concentrations to an SVG chart",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  exportSVG,
	}

	convertCmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "convert a model between SBML, JSON and YAML",
		Args:  cobra.ExactArgs(2),
		RunE:  convertModel,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list solver presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "vary one constant and report the settled response",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepConstant,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepConst, "vary", "", "constant to vary")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", nil, "values for the constant")
	sweepCmd.Flags().StringSliceVar(&species, "species", nil, "species to report")
	_ = sweepCmd.MarkFlagRequired("vary")
	_ = sweepCmd.MarkFlagRequired("values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run concurrent simulations from perturbed initial states",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&members, "n", 16, "ensemble size")
	ensembleCmd.Flags().Float64Var(&spread, "spread", 0.1, "relative perturbation of initial concentrations")
	ensembleCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	ensembleCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default: GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, inspectCmd, listCmd, plotCmd, analyzeCmd, replayCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, convertCmd, presetsCmd, sweepCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk45|rk4|euler)")
	f.StringVar(&preset, "preset", "", "solver preset ("+strings.Join(config.ListPresets(), "|")+")")
	f.Float64Var(&start, "start", config.DefaultStart, "start time")
	f.Float64Var(&end, "end", config.DefaultEnd, "end time")
	f.IntVar(&points, "points", config.DefaultPoints, "number of output time points")
	f.Float64Var(&relTol, "rtol", 0, "relative tolerance (rk45)")
	f.Float64Var(&absTol, "atol", 0, "absolute tolerance (rk45)")
	f.Float64Var(&maxStep, "max-step", 0, "maximum internal step")
	f.StringToStringVar(&constants, "const", nil, "constant override (name=value)")
	f.StringToStringVar(&initial, "init", nil, "initial concentration override (species=value)")
}

// setup builds the logger and metrics collector shared by every command.
func setup(cmd *cobra.Command) error {
	level, format := "info", "text"
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		level, format = cfg.Log.Level, cfg.Log.Format
	}
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}
	logger = logging.New(level, format, os.Stderr)
	slog.SetDefault(logger)
	viz.SetTheme(themeName)

	if metricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	collector = c

	srv := &http.Server{
		Addr:              metricsAddr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", metricsAddr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", metricsAddr)
	return nil
}

// resolveConfig layers config file, preset and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	flags := cmd.Flags()
	if flags.Lookup("preset") != nil && preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Apply(cfg)
	}

	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("start") {
		cfg.Timeline.Start = start
	}
	if flags.Changed("end") {
		cfg.Timeline.End = end
	}
	if flags.Changed("points") {
		cfg.Timeline.Points = points
	}
	if flags.Changed("rtol") {
		cfg.Solver.RelTol = relTol
	}
	if flags.Changed("atol") {
		cfg.Solver.AbsTol = absTol
	}
	if flags.Changed("max-step") {
		cfg.Solver.MaxStep = maxStep
	}
	if flags.Changed("storage") {
		cfg.Storage.Driver = storageKind
	}
	if flags.Changed("data") || cfg.Storage.Dir == "" {
		cfg.Storage.Dir = dataDir
	}

	var err error
	if cfg.Constants, err = mergeFloats(cfg.Constants, constants, "--const"); err != nil {
		return nil, err
	}
	if cfg.InitialOverrides, err = mergeFloats(cfg.InitialOverrides, initial, "--init"); err != nil {
		return nil, err
	}

	if cfg.Model == "" {
		return nil, errors.New("no model given: pass a model file or set model in the config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFloats(dst map[string]float64, src map[string]string, flag string) (map[string]float64, error) {
	if len(src) == 0 {
		return dst, nil
	}
	if dst == nil {
		dst = make(map[string]float64, len(src))
	}
	for k, v := range src {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%s %s=%s: %w", flag, k, v, err)
		}
		dst[k] = f
	}
	return dst, nil
}

func newExperiment(cmd *cobra.Command, args []string) (*experiment.Experiment, *config.Config, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(cfg, experiment.NewRegistry(), logger)
	exp.SetCollector(collector)
	if err := exp.Setup(); err != nil {
		return nil, nil, err
	}
	return exp, cfg, nil
}

// openStore opens run storage from the config file when one is given, and
// from the global flags otherwise.
func openStore(cmd *cobra.Command) (storage.Store, error) {
	driver, dir := "file", dataDir
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		driver = cfg.Storage.Driver
		if !cmd.Flags().Changed("data") && cfg.Storage.Dir != "" {
			dir = cfg.Storage.Dir
		}
	}
	if cmd.Flags().Changed("storage") {
		driver = storageKind
	}
	return openStorage(driver, dir)
}

func openStorage(driver, dir string) (storage.Store, error) {
	st, err := storage.Open(driver, dir)
	if err != nil {
		return nil, err
	}
	if err := st.Init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
