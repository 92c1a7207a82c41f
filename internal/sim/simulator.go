package sim

import (
	"context"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gonum.org/v1/gonum/spatial/r3"
)

// Simulator runs one private flight to a terminal state. A Simulator is
// not safe for concurrent use because its metrics are stateful; Ensemble
// creates one per run.
type Simulator struct {
	body      physics.Body
	metrics   []Metric
	observers []Observer
	logger    log.Logger
}

func New(body physics.Body) *Simulator {
	return &Simulator{
		body:      body,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.NewNopLogger(),
	}
}

func (s *Simulator) AddMetric(m Metric)          { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)      { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(logger log.Logger) { s.logger = logger }
func (s *Simulator) Body() physics.Body          { return s.body }

// Run flies params from start until the vehicle lands, is grounded,
// escapes, or cfg.MaxTicks steps have been taken.
func (s *Simulator) Run(ctx context.Context, params flight.LaunchParameters, start r3.Vec, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := flight.NewState(start)
	for _, obs := range s.observers {
		obs.OnStep(0, x)
	}

	result := &Result{Metrics: make(map[string]float64)}

	for result.Ticks < cfg.MaxTicks && !x.Terminal(params) && !x.Escaping(s.body, params) {
		select {
		case <-ctx.Done():
			result.Final = x
			return result, ctx.Err()
		default:
		}

		x = flight.Step(s.body, params, x, cfg.Dt)
		result.Ticks++

		if cfg.ValidateState && !x.Valid() {
			result.Final = x
			return result, &dynamo.SimulationError{Tick: result.Ticks, Time: x.FlightTime, Wrapped: dynamo.ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(x, cfg.Dt)
		}
		for _, obs := range s.observers {
			obs.OnStep(result.Ticks, x)
		}
	}

	result.Final = x
	switch {
	case x.Landed:
		result.Outcome = Landed
	case x.Grounded(params):
		result.Outcome = Grounded
	case x.Escaping(s.body, params):
		result.Outcome = Escaped
	default:
		result.Outcome = Exhausted
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	level.Debug(s.logger).Log("msg", "run complete", "outcome", result.Outcome, "ticks", result.Ticks, "flight_time", x.FlightTime)
	return result, nil
}
