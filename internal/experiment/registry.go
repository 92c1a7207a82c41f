package experiment

import (
	"fmt"
	"sort"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/metrics"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"github.com/go-kit/log"
)

// StrategyFactory builds a search strategy from options, wired to a logger
// and a monitor.
type StrategyFactory func(opts optim.Options, logger log.Logger, monitor optim.Monitor) optim.Strategy

type Registry struct {
	strategies map[string]StrategyFactory
}

func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]StrategyFactory)}

	r.strategies["genetic"] = func(opts optim.Options, logger log.Logger, monitor optim.Monitor) optim.Strategy {
		return optim.NewGenetic(opts).WithLogger(logger).WithMonitor(monitor)
	}
	r.strategies["grid"] = func(opts optim.Options, logger log.Logger, monitor optim.Monitor) optim.Strategy {
		names, ranges := CoarseGrid(opts.Bounds, 6)
		return optim.NewGridSearch(names, ranges, opts).WithLogger(logger).WithMonitor(monitor)
	}

	return r
}

// Register adds or replaces a strategy.
func (r *Registry) Register(name string, fn StrategyFactory) {
	r.strategies[name] = fn
}

func (r *Registry) GetStrategy(name string, opts optim.Options, logger log.Logger, monitor optim.Monitor) (optim.Strategy, error) {
	fn, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("strategy %q: %w", name, dynamo.ErrUnknown)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return fn(opts, logger, monitor), nil
}

func (r *Registry) GetBody(name string) (physics.Body, error) {
	return physics.Lookup(name)
}

func (r *Registry) ListStrategies() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListBodies() []string {
	return physics.ListBodies()
}

func (r *Registry) DefaultMetrics(body physics.Body) []sim.Metric {
	return metrics.Standard(body)
}

// CoarseGrid spreads n values over the thrust, burn length and turn rate
// bounds. The target direction stays on the baseline.
func CoarseGrid(b optim.Bounds, n int) ([]string, [][]float64) {
	names := []string{flight.ParamMaxThrust, flight.ParamFuelDuration, flight.ParamInclineRate}
	ranges := [][]float64{
		optim.Linspace(b.MaxThrust.Min, b.MaxThrust.Max, n),
		optim.Linspace(b.FuelDuration.Min, b.FuelDuration.Max, n),
		optim.Linspace(b.InclineRate.Min, b.InclineRate.Max, n),
	}
	return names, ranges
}
