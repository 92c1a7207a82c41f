package experiment

import (
	"context"
	"fmt"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"github.com/go-kit/log"
)

// Config describes one flight of a fixed genome.
type Config struct {
	Start      physics.GeoCoordinate
	Params     flight.LaunchParameters
	Sim        sim.Config
	TrailLimit int
}

// Experiment flies a genome once and keeps its trail.
type Experiment struct {
	cfg       Config
	simulator *sim.Simulator
	recorder  *sim.Recorder
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(body physics.Body, metrics []sim.Metric, logger log.Logger) error {
	if err := e.cfg.Params.Validate(); err != nil {
		return fmt.Errorf("launch parameters: %w", err)
	}
	if err := e.cfg.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	e.simulator = sim.New(body)
	if logger != nil {
		e.simulator.SetLogger(logger)
	}
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	e.recorder = sim.NewRecorder(e.cfg.TrailLimit)
	e.simulator.AddObserver(e.recorder)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	start, err := e.simulator.Body().SurfacePosition(e.cfg.Start)
	if err != nil {
		return nil, err
	}
	e.recorder.Reset()
	return e.simulator.Run(ctx, e.cfg.Params, start, e.cfg.Sim)
}

// Trail returns the snapshots of the last run.
func (e *Experiment) Trail() []flight.Snapshot {
	if e.recorder == nil {
		return nil
	}
	return e.recorder.Trail()
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
