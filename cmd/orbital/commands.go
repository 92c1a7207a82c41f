package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/analysis"
	"github.com/RaLLy08/orbital-motion/internal/automation"
	"github.com/RaLLy08/orbital-motion/internal/config"
	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/experiment"
	"github.com/RaLLy08/orbital-motion/internal/feed"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"github.com/RaLLy08/orbital-motion/internal/viz"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var strategies = experiment.NewRegistry()

// setup is shared by every command that flies or searches.
func setup() (*config.Config, physics.Body, log.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, physics.Body{}, nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, physics.Body{}, nil, err
	}
	body, err := strategies.GetBody(cfg.Body)
	if err != nil {
		return nil, physics.Body{}, nil, err
	}
	return cfg, body, logger, nil
}

func newLauncher(cfg *config.Config, body physics.Body, logger log.Logger) (*experiment.Launcher, error) {
	collector := newCollector(logger)
	s, err := strategies.GetStrategy(cfg.Strategy, cfg.Optimizer, log.With(logger, "component", "optim"), collector)
	if err != nil {
		return nil, err
	}
	l := experiment.NewLauncher(body, s).WithLogger(logger)
	if err := l.SetStart(cfg.Start); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := l.SetTarget(cfg.Target); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return l, nil
}

// search runs the launcher's trajectory search to completion, either
// behind a progress view or logging one line per generation.
func search(ctx context.Context, l *experiment.Launcher, logger log.Logger, tui bool) (optim.Candidate, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if tui {
		p := tea.NewProgram(viz.NewProgressModel(l.Body().Name, cancel))
		task, err := l.CalcTrajectory(ctx, viz.Forward(p))
		if err != nil {
			return optim.Candidate{}, err
		}
		viz.Watch(p, task)
		final, err := p.Run()
		if err != nil {
			return optim.Candidate{}, err
		}
		if m, ok := final.(viz.ProgressModel); ok {
			if !m.Done() {
				return optim.Candidate{}, dynamo.ErrCanceled
			}
			if _, err := m.Result(); err != nil {
				return optim.Candidate{}, err
			}
		}
		<-task.Done()
	} else {
		task, err := l.CalcTrajectory(ctx, func(p optim.Progress) {
			level.Info(logger).Log("msg", "generation", "progress", p.String())
		})
		if err != nil {
			return optim.Candidate{}, err
		}
		if _, err := task.Wait(ctx); err != nil {
			return optim.Candidate{}, err
		}
	}

	best, ok := l.Trajectory()
	if !ok {
		return optim.Candidate{}, experiment.ErrNoTrajectory
	}
	return best, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, body, logger, err := setup()
	if err != nil {
		return err
	}
	l, err := newLauncher(cfg, body, logger)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("optimizing %s -> %s on %s (%s, population %d, %d generations)\n",
		cfg.Start, cfg.Target, body.Name, cfg.Strategy, cfg.Optimizer.PopulationSize, cfg.Optimizer.Generations)
	started := time.Now()
	best, err := search(ctx, l, logger, useTUI)
	if err != nil {
		return err
	}

	fmt.Printf("\nbest candidate after %v:\n", time.Since(started).Round(time.Millisecond))
	fmt.Printf("  miss:        %.3f km\n", best.Fitness)
	fmt.Printf("  flight time: %.0f s\n", best.FlightTime)
	fmt.Printf("  landing:     %s\n", body.GeoCoordinate(best.Final))
	fmt.Printf("  params:      %s\n", best.Params)

	if outFile != "" {
		cfg.Launch = &best.Params
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("config saved to %s\n", outFile)
	}
	return nil
}

func runFly(cmd *cobra.Command, args []string) error {
	cfg, body, logger, err := setup()
	if err != nil {
		return err
	}
	params, err := cfg.GetLaunchParameters(body)
	if err != nil {
		return err
	}
	if paramsFile != "" {
		if params, err = loadParams(paramsFile); err != nil {
			return err
		}
	}

	exp := experiment.New(experiment.Config{
		Start:      cfg.Start,
		Params:     params,
		Sim:        cfg.Optimizer.Sim,
		TrailLimit: cfg.Optimizer.Sim.MaxTicks + 1,
	})
	if err := exp.Setup(body, strategies.DefaultMetrics(body), logger); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	newCollector(logger).RecordFlight(body.Name, res.Outcome.String(), res.Final.FlightTime)

	trail := exp.Trail()
	fmt.Printf("flight from %s on %s: %s after %d ticks\n", cfg.Start, body.Name, res.Outcome, res.Ticks)
	fmt.Print(analysis.Summarize(body, params, trail))

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.6f\n", name, res.Metrics[name])
	}

	if alt := altitudes(trail); len(alt) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(alt,
			asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption("altitude (km)")))
	}
	fmt.Println()
	fmt.Println(analysis.GroundTrackToASCII(analysis.GroundTrack(body, trail), &cfg.Target, 72, 18))
	return nil
}

// loadParams reads a single genome, as found under "launch" in a config
// file or under "params" in an optimizer candidate.
func loadParams(path string) (flight.LaunchParameters, error) {
	var p flight.LaunchParameters
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read params: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("params: %w", err)
	}
	return p, nil
}

func altitudes(trail []flight.Snapshot) []float64 {
	out := make([]float64, len(trail))
	for i, s := range trail {
		out[i] = s.Altitude
	}
	return out
}

// liveLaunch flies the configured genome from the start point.
func liveLaunch(cfg *config.Config, body physics.Body) (viz.LaunchFunc, error) {
	params, err := cfg.GetLaunchParameters(body)
	if err != nil {
		return nil, err
	}
	start, err := body.SurfacePosition(cfg.Start)
	if err != nil {
		return nil, err
	}
	return func() (*flight.Vehicle, error) {
		return flight.NewVehicle(body, start, params), nil
	}, nil
}

func newScene(cfg *config.Config) *sim.Context {
	return sim.NewContext(sim.NewClock(cfg.Clock.TickSize, cfg.Clock.Multiplier, cfg.Clock.MaxTicksPerFrame))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, body, _, err := setup()
	if err != nil {
		return err
	}
	launch, err := liveLaunch(cfg, body)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	m, err := viz.NewFlightModel(newScene(cfg), launch, &cfg.Target)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, body, logger, err := setup()
	if err != nil {
		return err
	}
	addr := cfg.Feed.Addr
	if len(args) == 1 {
		addr = args[0]
	}
	launch, err := liveLaunch(cfg, body)
	if err != nil {
		return err
	}

	scene := newScene(cfg)
	vehicle, err := launch()
	if err != nil {
		return err
	}
	scene.Launch(vehicle)

	collector := newCollector(logger)
	hub := feed.NewHub(cfg.Feed.FrameRate, cfg.Feed.Burst).
		WithLogger(log.With(logger, "component", "feed")).
		WithMonitor(collector)
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signalContext()
	defer stop()

	go func() {
		interval := time.Duration(float64(time.Second) / cfg.Feed.FrameRate)
		if err := hub.Run(ctx, scene, interval); err != nil && !errors.Is(err, context.Canceled) {
			level.Error(logger).Log("msg", "feed stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown(srv)
	}()

	level.Info(logger).Log("msg", "serving flight feed", "addr", addr, "vehicle", vehicle.ID())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("scenario %s: %s\n\n", scenario.Name, scenario.Description)
	results, err := automation.RunScenario(ctx, scenario, strategies, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODE\tOUTCOME\tMISS (km)\tAPOGEE (km)\tFLIGHT (s)\tLANDING")
	for _, r := range results {
		outcome := "-"
		if r.Flight != nil {
			outcome = r.Flight.Outcome.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.2f\t%.0f\t%s\n",
			r.Name, r.Mode, outcome, r.Miss, r.Summary.Apogee, r.Summary.FlightTime, r.Summary.Landing)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, body, _, err := setup()
	if err != nil {
		return err
	}
	params, err := cfg.GetLaunchParameters(body)
	if err != nil {
		return err
	}
	start, err := body.SurfacePosition(cfg.Start)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	points, err := analysis.ParameterSweep(ctx, body, params, start, args[0], sweepFrom, sweepTo, sweepSteps, cfg.Optimizer.Sim)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tOUTCOME\tDOWNRANGE (km)\tAPOGEE (km)\tFLIGHT (s)\n", args[0])
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%s\t%.2f\t%.2f\t%.0f\n", p.Param, p.Outcome, p.Downrange, p.Apogee, p.FlightTime)
	}
	return w.Flush()
}

func runDispersion(cmd *cobra.Command, args []string) error {
	cfg, body, _, err := setup()
	if err != nil {
		return err
	}
	params, err := cfg.GetLaunchParameters(body)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Body:         body,
		Start:        cfg.Start,
		Params:       params,
		Perturbation: sigma,
		NumTrials:    trials,
		Workers:      cfg.Optimizer.Workers,
		Sim:          cfg.Optimizer.Sim,
		Seed:         cfg.Optimizer.Seed,
	})
	if err != nil {
		return err
	}

	landed, other, maxScatter := automation.MonteCarloStats(results)
	scatter := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Outcome == sim.Landed {
			scatter = append(scatter, r.Scatter)
		}
	}
	sort.Float64s(scatter)

	fmt.Printf("%d trials at sigma %.3f: %d landed, %d did not\n", len(results), sigma, landed, other)
	fmt.Printf("max scatter: %.2f km\n", maxScatter)
	if len(scatter) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(scatter,
			asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("sorted landing scatter (km)")))
	}
	return nil
}

func listBodies(cmd *cobra.Command, args []string) error {
	fmt.Println("bodies:")
	for _, name := range strategies.ListBodies() {
		b, err := strategies.GetBody(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-6s radius %.0f km  mu %.4g km^3/s^2  g %.5f km/s^2\n",
			b.Name, b.Radius, b.Mu, b.SurfaceGravity())
	}
	fmt.Println("strategies:")
	for _, name := range strategies.ListStrategies() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
