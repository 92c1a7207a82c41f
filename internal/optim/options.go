package optim

import (
	"fmt"
	"math"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/sim"
)

// Range is a closed interval for one scalar gene.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Span() float64 { return r.Max - r.Min }

func (r Range) Clamp(x float64) float64 {
	if math.IsNaN(x) {
		return r.Min
	}
	return math.Max(r.Min, math.Min(r.Max, x))
}

func (r Range) Contains(x float64) bool { return x >= r.Min && x <= r.Max }

// Bounds limits every scalar gene of a LaunchParameters genome. The target
// direction is always a unit vector and needs no bounds.
type Bounds struct {
	InclineStartAltitude Range `yaml:"incline_start_altitude"`
	InclineMaxDuration   Range `yaml:"incline_max_duration"`
	InclineRate          Range `yaml:"incline_rate"`
	FuelDuration         Range `yaml:"fuel_duration"`
	MaxThrust            Range `yaml:"max_thrust"`
}

func DefaultBounds() Bounds {
	return Bounds{
		InclineStartAltitude: Range{0, 50},
		InclineMaxDuration:   Range{0, 600},
		InclineRate:          Range{0, 0.035},
		FuelDuration:         Range{60, 1200},
		MaxThrust:            Range{0.001, 0.1},
	}
}

const numGenes = 5

func (b Bounds) ranges() [numGenes]Range {
	return [numGenes]Range{b.InclineStartAltitude, b.InclineMaxDuration, b.InclineRate, b.FuelDuration, b.MaxThrust}
}

func genes(p *flight.LaunchParameters) [numGenes]*float64 {
	return [numGenes]*float64{&p.InclineStartAltitude, &p.InclineMaxDuration, &p.InclineRate, &p.FuelDuration, &p.MaxThrust}
}

// Clamp pulls every scalar gene of p into the bounds and normalizes the
// direction.
func (b Bounds) Clamp(p flight.LaunchParameters) flight.LaunchParameters {
	rs := b.ranges()
	for i, g := range genes(&p) {
		*g = rs[i].Clamp(*g)
	}
	p.TargetDirection = dynamo.Unit(p.TargetDirection)
	return p
}

func (b Bounds) Validate() error {
	names := [numGenes]string{
		flight.ParamInclineStartAltitude, flight.ParamInclineMaxDuration,
		flight.ParamInclineRate, flight.ParamFuelDuration, flight.ParamMaxThrust,
	}
	for i, r := range b.ranges() {
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) || r.Min > r.Max || r.Min < 0 {
			return fmt.Errorf("%w: %s bounds [%v, %v]", dynamo.ErrParameterBounds, names[i], r.Min, r.Max)
		}
	}
	return nil
}

// Options configures a search.
type Options struct {
	PopulationSize int     `yaml:"population_size"`
	Generations    int     `yaml:"generations"`
	EliteCount     int     `yaml:"elite_count"`
	TournamentSize int     `yaml:"tournament_size"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	MutationRate   float64 `yaml:"mutation_rate"`
	// MutationScale is the initial mutation σ as a fraction of each gene's
	// range. It shrinks linearly to a tenth of that over the run.
	MutationScale float64 `yaml:"mutation_scale"`
	// ConvergenceThreshold (km) ends the search early once the best
	// candidate lands this close to the target.
	ConvergenceThreshold float64    `yaml:"convergence_threshold"`
	Seed                 int64      `yaml:"seed"`
	Workers              int        `yaml:"workers"`
	Bounds               Bounds     `yaml:"bounds"`
	Sim                  sim.Config `yaml:"sim"`
}

func DefaultOptions() Options {
	return Options{
		PopulationSize:       50,
		Generations:          100,
		EliteCount:           2,
		TournamentSize:       3,
		CrossoverRate:        0.9,
		MutationRate:         0.3,
		MutationScale:        0.15,
		ConvergenceThreshold: 1.0,
		Seed:                 1,
		Workers:              0,
		Bounds:               DefaultBounds(),
		Sim:                  sim.DefaultConfig(),
	}
}

func (o Options) Validate() error {
	switch {
	case o.PopulationSize < 2:
		return fmt.Errorf("%w: population size must be at least 2, got %d", dynamo.ErrParameterBounds, o.PopulationSize)
	case o.Generations < 1:
		return fmt.Errorf("%w: generations must be at least 1, got %d", dynamo.ErrParameterBounds, o.Generations)
	case o.EliteCount < 1 || o.EliteCount >= o.PopulationSize:
		return fmt.Errorf("%w: elite count must be in [1, %d), got %d", dynamo.ErrParameterBounds, o.PopulationSize, o.EliteCount)
	case o.TournamentSize < 1:
		return fmt.Errorf("%w: tournament size must be positive, got %d", dynamo.ErrParameterBounds, o.TournamentSize)
	case !unit(o.CrossoverRate):
		return fmt.Errorf("%w: crossover rate must be in [0, 1], got %v", dynamo.ErrParameterBounds, o.CrossoverRate)
	case !unit(o.MutationRate):
		return fmt.Errorf("%w: mutation rate must be in [0, 1], got %v", dynamo.ErrParameterBounds, o.MutationRate)
	case !(o.MutationScale >= 0) || math.IsInf(o.MutationScale, 0):
		return fmt.Errorf("%w: mutation scale must be non-negative, got %v", dynamo.ErrParameterBounds, o.MutationScale)
	case !(o.ConvergenceThreshold >= 0) || math.IsInf(o.ConvergenceThreshold, 0):
		return fmt.Errorf("%w: convergence threshold must be non-negative, got %v", dynamo.ErrParameterBounds, o.ConvergenceThreshold)
	}
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	return o.Sim.Validate()
}

func unit(x float64) bool { return x >= 0 && x <= 1 }
