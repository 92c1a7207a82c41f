package analysis

import (
	"context"
	"fmt"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// SweepPoint is the outcome of one flight in a parameter sweep.
type SweepPoint struct {
	Param      float64
	Downrange  float64
	Apogee     float64
	FlightTime float64
	Outcome    sim.Outcome
}

// ParameterSweep flies base with one named parameter varied over steps
// evenly spaced values in [lo, hi] and reports where each flight ends up.
// It shows how sensitive the landing point is to that parameter.
func ParameterSweep(
	ctx context.Context,
	b physics.Body,
	base flight.LaunchParameters,
	start r3.Vec,
	paramName string,
	lo, hi float64,
	steps int,
	cfg sim.Config,
) ([]SweepPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step, got %d", dynamo.ErrParameterBounds, steps)
	}

	values := make([]float64, steps)
	params := make([]flight.LaunchParameters, steps)
	for i := range params {
		v := lo
		if steps > 1 {
			v = lo + (hi-lo)*float64(i)/float64(steps-1)
		}
		p := base
		var tunable dynamo.Configurable = &p
		if err := tunable.SetParam(paramName, v); err != nil {
			return nil, err
		}
		values[i] = v
		params[i] = p
	}

	results, err := sim.NewEnsemble(b, 0).Run(ctx, start, params, cfg)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, steps)
	for i, res := range results {
		points[i] = SweepPoint{
			Param:      values[i],
			Downrange:  b.SurfaceDistance(start, res.Final.Position),
			Apogee:     res.Final.MaxAltitude,
			FlightTime: res.Final.FlightTime,
			Outcome:    res.Outcome,
		}
	}
	return points, nil
}
