package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// GridSearch flies every combination of the given parameter values on top
// of the baseline genome. Points are evaluated in batches of
// Options.PopulationSize; each batch counts as one generation for progress.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	opts       Options
	logger     log.Logger
	monitor    Monitor
}

// NewGridSearch takes parallel slices of flight parameter names (see
// flight.LaunchParameters.SetParam) and the values to try for each.
func NewGridSearch(params []string, ranges [][]float64, opts Options) *GridSearch {
	return &GridSearch{
		paramNames: params,
		ranges:     ranges,
		opts:       opts,
		logger:     log.NewNopLogger(),
		monitor:    nopMonitor{},
	}
}

func (g *GridSearch) WithLogger(logger log.Logger) *GridSearch {
	g.logger = logger
	return g
}

func (g *GridSearch) WithMonitor(m Monitor) *GridSearch {
	if m == nil {
		m = nopMonitor{}
	}
	g.monitor = m
	return g
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	out[n-1] = hi
	return out
}

func (g *GridSearch) Run(ctx context.Context, req Request, onProgress func(Progress)) (Result, error) {
	if len(g.paramNames) != len(g.ranges) || len(g.paramNames) == 0 {
		return Result{}, fmt.Errorf("%w: %d parameter names for %d ranges", dynamo.ErrParameterBounds, len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return Result{}, fmt.Errorf("%w: no values for %s", dynamo.ErrParameterBounds, g.paramNames[i])
		}
	}
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

	var points []flight.LaunchParameters
	if err := g.searchRecursive(0, r.baseline, &points); err != nil {
		return Result{}, err
	}

	logger := log.With(g.logger, "strategy", "grid", "body", r.body.Name)
	level.Info(logger).Log("msg", "search started", "points", len(points))
	g.monitor.RecordSearch(r.body.Name, "started")

	eval := newEvaluator(r, opts, g.monitor)
	batch := opts.PopulationSize
	batches := (len(points) + batch - 1) / batch
	began := time.Now()
	result := Result{Best: Candidate{Fitness: math.Inf(1)}}

	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			g.monitor.RecordSearch(r.body.Name, "canceled")
			return result, fmt.Errorf("%w: %w", dynamo.ErrCanceled, err)
		}

		lo, hi := b*batch, min((b+1)*batch, len(points))
		scored, err := eval.evaluate(ctx, points[lo:hi])
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				g.monitor.RecordSearch(r.body.Name, "canceled")
				return result, fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctxErr)
			}
			return result, err
		}
		rank(scored)
		if better(scored[0], result.Best) {
			result.Best = scored[0]
		}
		result.Evaluations += len(scored)
		result.Generations = b + 1
		result.Converged = result.Best.Fitness < opts.ConvergenceThreshold
		terminal := result.Converged || b == batches-1

		mean, std := fitnessStats(scored)
		p := Progress{
			Generation:  b,
			Generations: batches,
			Percent:     percent(b, batches, terminal),
			Best:        result.Best,
			MeanFitness: mean,
			StdFitness:  std,
			Evaluations: result.Evaluations,
			Converged:   result.Converged,
			Elapsed:     time.Since(began),
		}
		g.monitor.RecordGeneration(r.body.Name, result.Best.Fitness, mean, p.Elapsed)
		onProgress(p)
		if terminal {
			break
		}
		runtime.Gosched()
	}

	level.Info(logger).Log("msg", "search finished", "fitness", result.Best.Fitness, "evaluations", result.Evaluations)
	g.monitor.RecordSearch(r.body.Name, "finished")
	return result, nil
}

// searchRecursive expands the grid depth first, appending one genome per
// combination.
func (g *GridSearch) searchRecursive(depth int, current flight.LaunchParameters, out *[]flight.LaunchParameters) error {
	if depth == len(g.paramNames) {
		*out = append(*out, g.opts.Bounds.Clamp(current))
		return nil
	}

	for _, val := range g.ranges[depth] {
		next := current
		if err := next.SetParam(g.paramNames[depth], val); err != nil {
			return err
		}
		if err := g.searchRecursive(depth+1, next, out); err != nil {
			return err
		}
	}
	return nil
}
