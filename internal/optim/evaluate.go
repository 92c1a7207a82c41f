package optim

import (
	"context"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/sim"
)

// evaluator runs genomes on private simulators and scores them.
type evaluator struct {
	req      resolved
	ensemble *sim.Ensemble
	cfg      sim.Config
	monitor  Monitor
}

func newEvaluator(req resolved, opts Options, monitor Monitor) *evaluator {
	return &evaluator{
		req:      req,
		ensemble: sim.NewEnsemble(req.body, opts.Workers),
		cfg:      opts.Sim,
		monitor:  monitor,
	}
}

func (e *evaluator) evaluate(ctx context.Context, params []flight.LaunchParameters) ([]Candidate, error) {
	results, err := e.ensemble.Run(ctx, e.req.start, params, e.cfg)
	if err != nil {
		return nil, err
	}
	out := make([]Candidate, len(params))
	for i, res := range results {
		out[i] = newCandidate(params[i], res, e.req.target)
		e.monitor.RecordEvaluation(e.req.body.Name, res.Outcome.String(), res.Ticks)
	}
	return out, nil
}
