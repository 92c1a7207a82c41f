package optim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Strategy searches for launch parameters that land on the request's
// target, reporting after every generation.
type Strategy interface {
	Run(ctx context.Context, req Request, onProgress func(Progress)) (Result, error)
}

// Genetic is an elitist genetic algorithm over LaunchParameters.
//
// Each generation every new genome is flown on its own simulator and
// scored by the distance between where it came to rest and the target.
// The best EliteCount candidates survive unchanged; the rest of the next
// generation is bred by tournament selection, blend crossover and Gaussian
// mutation whose scale anneals over the run.
type Genetic struct {
	opts    Options
	logger  log.Logger
	monitor Monitor
}

func NewGenetic(opts Options) *Genetic {
	return &Genetic{opts: opts, logger: log.NewNopLogger(), monitor: nopMonitor{}}
}

func (g *Genetic) WithLogger(logger log.Logger) *Genetic {
	g.logger = logger
	return g
}

func (g *Genetic) WithMonitor(m Monitor) *Genetic {
	if m == nil {
		m = nopMonitor{}
	}
	g.monitor = m
	return g
}

func (g *Genetic) Options() Options { return g.opts }

// Run blocks until the search converges, exhausts its generations or ctx
// is done. On cancellation the error wraps dynamo.ErrCanceled and the
// Result holds the best candidate found so far. onProgress may be nil.
func (g *Genetic) Run(ctx context.Context, req Request, onProgress func(Progress)) (Result, error) {
	opts := g.opts
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	r, err := req.resolve(opts.Bounds)
	if err != nil {
		return Result{}, err
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	logger := log.With(g.logger, "strategy", "genetic", "body", r.body.Name)
	level.Info(logger).Log("msg", "search started", "start", *req.Start, "target", *req.Target,
		"population", opts.PopulationSize, "generations", opts.Generations)
	g.monitor.RecordSearch(r.body.Name, "started")

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	eval := newEvaluator(r, opts, g.monitor)
	began := time.Now()

	genomes := seedPopulation(rng, opts.PopulationSize, r.baseline, opts.Bounds)
	var (
		elites []Candidate
		result Result
	)

	for gen := 0; gen < opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return g.canceled(logger, r, result, err)
		}

		scored, err := eval.evaluate(ctx, genomes)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return g.canceled(logger, r, result, ctxErr)
			}
			g.monitor.RecordSearch(r.body.Name, "failed")
			return result, fmt.Errorf("generation %d: %w", gen, err)
		}
		result.Evaluations += len(scored)

		pop := append(elites, scored...)
		rank(pop)

		result.Best = pop[0]
		result.Generations = gen + 1
		result.Converged = pop[0].Fitness < opts.ConvergenceThreshold
		terminal := result.Converged || gen == opts.Generations-1

		mean, std := fitnessStats(pop)
		p := Progress{
			Generation:  gen,
			Generations: opts.Generations,
			Percent:     percent(gen, opts.Generations, terminal),
			Best:        pop[0],
			MeanFitness: mean,
			StdFitness:  std,
			Evaluations: result.Evaluations,
			Converged:   result.Converged,
			Elapsed:     time.Since(began),
		}
		g.monitor.RecordGeneration(r.body.Name, p.Best.Fitness, mean, p.Elapsed)
		level.Debug(logger).Log("msg", "generation", "gen", gen, "best", p.Best.Fitness, "mean", mean, "std", std)
		onProgress(p)

		if terminal {
			break
		}

		elites = append([]Candidate(nil), pop[:opts.EliteCount]...)
		genomes = g.breed(rng, pop, opts, gen)
		runtime.Gosched()
	}

	status := "exhausted"
	if result.Converged {
		status = "converged"
	}
	g.monitor.RecordSearch(r.body.Name, status)
	level.Info(logger).Log("msg", "search finished", "status", status, "fitness", result.Best.Fitness,
		"generations", result.Generations, "evaluations", result.Evaluations)
	return result, nil
}

// breed fills the non-elite part of the next generation.
func (g *Genetic) breed(rng *rand.Rand, ranked []Candidate, opts Options, gen int) []flight.LaunchParameters {
	sigma := annealedSigma(opts.MutationScale, gen, opts.Generations)
	n := opts.PopulationSize - opts.EliteCount
	out := make([]flight.LaunchParameters, n)
	for i := range out {
		child := tournament(rng, ranked, opts.TournamentSize)
		if rng.Float64() < opts.CrossoverRate {
			child = crossover(rng, child, tournament(rng, ranked, opts.TournamentSize))
		}
		out[i] = mutate(rng, child, opts.MutationRate, sigma, opts.Bounds)
	}
	return out
}

func (g *Genetic) canceled(logger log.Logger, r resolved, result Result, cause error) (Result, error) {
	g.monitor.RecordSearch(r.body.Name, "canceled")
	level.Info(logger).Log("msg", "search canceled", "generations", result.Generations)
	if errors.Is(cause, dynamo.ErrCanceled) {
		return result, cause
	}
	return result, fmt.Errorf("%w: %w", dynamo.ErrCanceled, cause)
}
