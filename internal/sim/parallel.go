package sim

import (
	"context"
	"errors"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Ensemble evaluates many launch parameter sets from the same start on a
// bounded worker pool. Every run gets its own Simulator. A run that hits an
// invalid state does not abort the others; its Result carries the error.
type Ensemble struct {
	body    physics.Body
	workers int
	metrics func() []Metric
}

// NewEnsemble uses workers goroutines; workers <= 0 means one per CPU.
func NewEnsemble(body physics.Body, workers int) *Ensemble {
	return &Ensemble{body: body, workers: workers}
}

// WithMetrics installs a factory for per-run metrics.
func (e *Ensemble) WithMetrics(factory func() []Metric) *Ensemble {
	e.metrics = factory
	return e
}

func (e *Ensemble) Run(ctx context.Context, start r3.Vec, params []flight.LaunchParameters, cfg Config) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, len(params))
	err := dynamo.ParallelFor(ctx, len(params), e.workers, func(ctx context.Context, i int) error {
		s := New(e.body)
		if e.metrics != nil {
			for _, m := range e.metrics() {
				s.AddMetric(m)
			}
		}
		res, err := s.Run(ctx, params[i], start, cfg)
		var simErr *dynamo.SimulationError
		if errors.As(err, &simErr) {
			res.Err = err
			err = nil
		}
		if err != nil {
			return err
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
