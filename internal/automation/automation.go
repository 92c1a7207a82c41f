package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/analysis"
	"github.com/RaLLy08/orbital-motion/internal/config"
	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/experiment"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

// Step modes.
const (
	ModeOptimize = "optimize"
	ModeFly      = "fly"
)

// Scenario is a batch of launches run one after another.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one launch. Unset fields fall back to the preset, or to
// the default configuration when no preset is named.
type ScenarioStep struct {
	Name        string                   `yaml:"name"`
	Preset      string                   `yaml:"preset"`
	Mode        string                   `yaml:"mode"`
	Body        string                   `yaml:"body"`
	Strategy    string                   `yaml:"strategy"`
	Start       *physics.GeoCoordinate   `yaml:"start"`
	Target      *physics.GeoCoordinate   `yaml:"target"`
	Launch      *flight.LaunchParameters `yaml:"launch"`
	Population  int                      `yaml:"population"`
	Generations int                      `yaml:"generations"`
	Seed        int64                    `yaml:"seed"`
}

// StepResult is the flight a step ended up with. Search is nil for fly
// steps.
type StepResult struct {
	Name    string
	Mode    string
	Params  flight.LaunchParameters
	Search  *optim.Result
	Flight  *sim.Result
	Summary analysis.Summary
	// Miss is the surface distance from the landing point to the target.
	Miss float64
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

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("preset %q: %w", s.Preset, dynamo.ErrUnknown)
		}
	}
	if s.Body != "" {
		cfg.Body = s.Body
	}
	if s.Strategy != "" {
		cfg.Strategy = s.Strategy
	}
	if s.Start != nil {
		cfg.Start = *s.Start
	}
	if s.Target != nil {
		cfg.Target = *s.Target
	}
	if s.Launch != nil {
		launch := *s.Launch
		cfg.Launch = &launch
	}
	if s.Population > 0 {
		cfg.Optimizer.PopulationSize = s.Population
	}
	if s.Generations > 0 {
		cfg.Optimizer.Generations = s.Generations
	}
	if s.Seed != 0 {
		cfg.Optimizer.Seed = s.Seed
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		level.Info(logger).Log("msg", "running step", "step", name, "n", i+1, "of", len(scenario.Steps))

		res, err := runStep(ctx, step, registry, logger)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		res.Name = name
		results = append(results, *res)
	}

	return results, nil
}

func runStep(ctx context.Context, step ScenarioStep, registry *experiment.Registry, logger log.Logger) (*StepResult, error) {
	cfg, err := step.Config()
	if err != nil {
		return nil, err
	}
	body, err := cfg.GetBody()
	if err != nil {
		return nil, err
	}
	params, err := cfg.GetLaunchParameters(body)
	if err != nil {
		return nil, err
	}

	out := &StepResult{Mode: step.Mode}
	switch step.Mode {
	case ModeFly:
	case "", ModeOptimize:
		out.Mode = ModeOptimize
		strategy, err := registry.GetStrategy(cfg.Strategy, cfg.Optimizer, logger, nil)
		if err != nil {
			return nil, err
		}
		req, err := cfg.Request()
		if err != nil {
			return nil, err
		}
		search, err := strategy.Run(ctx, req, nil)
		if err != nil {
			return nil, err
		}
		out.Search = &search
		params = search.Best.Params
	default:
		return nil, fmt.Errorf("mode %q: %w", step.Mode, dynamo.ErrUnknown)
	}
	out.Params = params

	exp := experiment.New(experiment.Config{
		Start:      cfg.Start,
		Params:     params,
		Sim:        cfg.Optimizer.Sim,
		TrailLimit: cfg.Optimizer.Sim.MaxTicks + 1,
	})
	if err := exp.Setup(body, registry.DefaultMetrics(body), logger); err != nil {
		return nil, err
	}
	flightRes, err := exp.Run(ctx)
	if err != nil {
		return nil, err
	}
	out.Flight = flightRes
	out.Summary = analysis.Summarize(body, params, exp.Trail())

	target, err := body.SurfacePosition(cfg.Target)
	if err != nil {
		return nil, err
	}
	out.Miss = body.SurfaceDistance(flightRes.Final.Position, target)
	return out, nil
}

// MonteCarloConfig perturbs a genome to see how far its landing point
// scatters.
type MonteCarloConfig struct {
	Body   physics.Body
	Start  physics.GeoCoordinate
	Params flight.LaunchParameters
	// Perturbation is the relative σ applied to every scalar parameter.
	Perturbation float64
	NumTrials    int
	Workers      int
	Sim          sim.Config
	Seed         int64
}

// MonteCarloResult is one perturbed flight.
type MonteCarloResult struct {
	TrialID int
	Params  flight.LaunchParameters
	Outcome sim.Outcome
	Landing physics.GeoCoordinate
	// Scatter is the surface distance from the unperturbed landing point.
	Scatter float64
}

// RunMonteCarlo flies the nominal genome and NumTrials perturbed copies of
// it in parallel.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: need at least one trial, got %d", dynamo.ErrParameterBounds, cfg.NumTrials)
	}
	if !(cfg.Perturbation >= 0) {
		return nil, fmt.Errorf("%w: perturbation %v", dynamo.ErrParameterBounds, cfg.Perturbation)
	}
	start, err := cfg.Body.SurfacePosition(cfg.Start)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	params := make([]flight.LaunchParameters, cfg.NumTrials+1)
	params[0] = cfg.Params
	for i := 1; i < len(params); i++ {
		params[i] = perturb(rng, cfg.Params, cfg.Perturbation)
	}

	runs, err := sim.NewEnsemble(cfg.Body, cfg.Workers).Run(ctx, start, params, cfg.Sim)
	if err != nil {
		return nil, err
	}
	nominal := runs[0].Final.Position

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for i, run := range runs[1:] {
		results = append(results, MonteCarloResult{
			TrialID: i,
			Params:  params[i+1],
			Outcome: run.Outcome,
			Landing: cfg.Body.GeoCoordinate(run.Final.Position),
			Scatter: cfg.Body.SurfaceDistance(nominal, run.Final.Position),
		})
	}
	return results, nil
}

var scalarParams = []string{
	flight.ParamInclineStartAltitude,
	flight.ParamInclineMaxDuration,
	flight.ParamInclineRate,
	flight.ParamFuelDuration,
	flight.ParamMaxThrust,
}

func perturb(rng *rand.Rand, p flight.LaunchParameters, sigma float64) flight.LaunchParameters {
	var tunable dynamo.Configurable = &p
	values := tunable.GetParams()
	for _, name := range scalarParams {
		next := math.Max(0, values[name]*(1+sigma*rng.NormFloat64()))
		_ = tunable.SetParam(name, next)
	}
	return p
}

// MonteCarloStats counts landed trials and gives the largest scatter among
// them.
func MonteCarloStats(results []MonteCarloResult) (landed, other int, maxScatter float64) {
	for _, r := range results {
		if r.Outcome != sim.Landed {
			other++
			continue
		}
		landed++
		maxScatter = math.Max(maxScatter, r.Scatter)
	}
	return
}
