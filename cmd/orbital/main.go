package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/config"
	"github.com/RaLLy08/orbital-motion/internal/metrics"
	"github.com/RaLLy08/orbital-motion/internal/viz"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile  string
	preset      string
	logLevel    string
	metricsAddr string
	// Overrides applied on top of the preset and config file.
	body        string
	strategy    string
	startLat    float64
	startLon    float64
	targetLat   float64
	targetLon   float64
	population  int
	generations int
	seed        int64
	workers     int
	multiplier  float64
	// optimize and fly
	outFile    string
	paramsFile string
	useTUI     bool
	// live
	theme string
	// sweep and dispersion
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	trials     int
	sigma      float64
)

var (
	v        = viper.New()
	registry = prometheus.NewRegistry()
)

// main is the entry point for the orbital CLI.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orbital",
		Short:         "rocket ascent simulator and trajectory optimizer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pf.StringVar(&body, "body", config.DefaultBody, "central body")
	pf.StringVar(&strategy, "strategy", config.DefaultStrategy, "search strategy (genetic, grid)")
	pf.Float64Var(&startLat, "start-lat", 0, "launch site latitude (deg)")
	pf.Float64Var(&startLon, "start-lon", 0, "launch site longitude (deg)")
	pf.Float64Var(&targetLat, "target-lat", 0, "target latitude (deg)")
	pf.Float64Var(&targetLon, "target-lon", 8, "target longitude (deg)")
	pf.IntVar(&population, "population", 50, "population size")
	pf.IntVar(&generations, "generations", 100, "generations")
	pf.Int64Var(&seed, "seed", 1, "random seed (0 picks one)")
	pf.IntVar(&workers, "workers", 0, "evaluation workers (0 = one per CPU)")
	pf.Float64Var(&multiplier, "multiplier", config.DefaultTimeMultiplier, "time multiplier for live views")

	v.SetEnvPrefix("ORBITAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(pf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "search launch parameters that land on the target",
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().StringVar(&outFile, "out", "", "write the config with the best parameters to this file")
	optimizeCmd.Flags().BoolVar(&useTUI, "tui", false, "show a progress view")

	flyCmd := &cobra.Command{
		Use:   "fly",
		Short: "fly the configured launch parameters and summarize the flight",
		RunE:  runFly,
	}
	flyCmd.Flags().StringVar(&paramsFile, "params", "", "launch parameters yaml file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name,
		fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))

	serveCmd := &cobra.Command{
		Use:   "serve [addr]",
		Short: "stream a live flight over websocket (/ws) with /metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "vary one launch parameter and report where the flights land",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.01, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	dispersionCmd := &cobra.Command{
		Use:   "dispersion",
		Short: "Monte Carlo scatter of the landing point",
		RunE:  runDispersion,
	}
	dispersionCmd.Flags().IntVar(&trials, "trials", 100, "number of perturbed flights")
	dispersionCmd.Flags().Float64Var(&sigma, "sigma", 0.01, "relative perturbation")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s %-6s %s -> %s\n", name, p.Body, p.Start, p.Target)
			}
			return nil
		},
	}

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list central bodies",
		RunE:  listBodies,
	}

	rootCmd.AddCommand(optimizeCmd, flyCmd, liveCmd, serveCmd, batchCmd, sweepCmd, dispersionCmd, presetsCmd, bodiesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", v.GetString("log-level"))
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC), nil
}

// loadConfig layers the preset, the config file, and finally flags or
// ORBITAL_* environment variables that were explicitly set.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name := v.GetString("preset"); name != "" {
		if cfg = config.GetPreset(name); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if v.IsSet("body") {
		cfg.Body = v.GetString("body")
	}
	if v.IsSet("strategy") {
		cfg.Strategy = v.GetString("strategy")
	}
	if v.IsSet("start-lat") {
		cfg.Start.Latitude = v.GetFloat64("start-lat")
	}
	if v.IsSet("start-lon") {
		cfg.Start.Longitude = v.GetFloat64("start-lon")
	}
	if v.IsSet("target-lat") {
		cfg.Target.Latitude = v.GetFloat64("target-lat")
	}
	if v.IsSet("target-lon") {
		cfg.Target.Longitude = v.GetFloat64("target-lon")
	}
	if v.IsSet("population") {
		cfg.Optimizer.PopulationSize = v.GetInt("population")
	}
	if v.IsSet("generations") {
		cfg.Optimizer.Generations = v.GetInt("generations")
	}
	if v.IsSet("seed") {
		cfg.Optimizer.Seed = v.GetInt64("seed")
	}
	if v.IsSet("workers") {
		cfg.Optimizer.Workers = v.GetInt("workers")
	}
	if v.IsSet("multiplier") {
		cfg.Clock.Multiplier = v.GetFloat64("multiplier")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newCollector registers the flight and search metrics and, when
// --metrics-addr is set, serves them in the background.
func newCollector(logger log.Logger) *metrics.Collector {
	c := metrics.NewCollector(registry)
	if addr := v.GetString("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			level.Info(logger).Log("msg", "serving metrics", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				level.Error(logger).Log("msg", "metrics server failed", "err", err)
			}
		}()
	}
	return c
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}
