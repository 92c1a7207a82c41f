package sim

import (
	"fmt"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
)

// Metric accumulates a scalar over the states of one run.
type Metric interface {
	Name() string
	Observe(s flight.State, dt float64)
	Value() float64
	Reset()
}

// Observer is notified of every state of a run, starting with the initial
// state at tick 0.
type Observer interface {
	OnStep(tick int, s flight.State)
}

type Config struct {
	Dt            float64 `yaml:"dt"`
	MaxTicks      int     `yaml:"max_ticks"`
	ValidateState bool    `yaml:"validate_state"`
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0,
		MaxTicks:      20000,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.MaxTicks < 1 {
		return fmt.Errorf("%w: max ticks must be positive, got %d", dynamo.ErrParameterBounds, c.MaxTicks)
	}
	return nil
}

// Outcome is how a run ended.
type Outcome int

const (
	// Exhausted means the tick budget ran out while the vehicle was still
	// flying.
	Exhausted Outcome = iota
	Landed
	// Grounded means the burn ended without the vehicle ever leaving the pad.
	Grounded
	// Escaped means the vehicle is unpowered on an open orbit moving away
	// from the body.
	Escaped
)

func (o Outcome) String() string {
	switch o {
	case Landed:
		return "landed"
	case Grounded:
		return "grounded"
	case Escaped:
		return "escaped"
	}
	return "exhausted"
}

type Result struct {
	Final   flight.State
	Ticks   int
	Outcome Outcome
	Metrics map[string]float64

	// Err is set by Ensemble for runs that stopped on an invalid state.
	Err error
}
