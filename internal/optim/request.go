package optim

import (
	"fmt"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Request names the body and the two surface points of a search.
type Request struct {
	Body   physics.Body
	Start  *physics.GeoCoordinate
	Target *physics.GeoCoordinate
	// Baseline seeds the first population. When nil the stock parameters
	// pointed along the straight line from start to target are used.
	Baseline *flight.LaunchParameters
}

// resolved is a validated request in Cartesian form.
type resolved struct {
	body     physics.Body
	start    r3.Vec
	target   r3.Vec
	baseline flight.LaunchParameters
}

func (r Request) resolve(bounds Bounds) (resolved, error) {
	if r.Start == nil || r.Target == nil {
		return resolved{}, fmt.Errorf("%w: start and target are required", dynamo.ErrInvalidRequest)
	}
	if !(r.Body.Radius > 0) || !(r.Body.Mu > 0) {
		return resolved{}, fmt.Errorf("%w: body %q has no radius or mass", dynamo.ErrInvalidRequest, r.Body.Name)
	}
	start, err := r.Body.SurfacePosition(*r.Start)
	if err != nil {
		return resolved{}, fmt.Errorf("start %v: %w", *r.Start, err)
	}
	target, err := r.Body.SurfacePosition(*r.Target)
	if err != nil {
		return resolved{}, fmt.Errorf("target %v: %w", *r.Target, err)
	}

	baseline := flight.DefaultLaunchParameters(flight.StraightLineDirection(start, target))
	if r.Baseline != nil {
		if err := r.Baseline.Validate(); err != nil {
			return resolved{}, fmt.Errorf("baseline: %w", err)
		}
		baseline = *r.Baseline
	}

	return resolved{
		body:     r.Body,
		start:    start,
		target:   target,
		baseline: bounds.Clamp(baseline),
	}, nil
}
