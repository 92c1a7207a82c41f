package control

import (
	"math"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Throttle returns the thrust magnitude at time t of a burn lasting
// fuelDuration seconds. The profile is maxThrust·sin(π·t/fuelDuration) and
// drops to zero once the burn is over.
func Throttle(maxThrust, fuelDuration, t float64) float64 {
	if fuelDuration <= 0 || t < 0 || t >= fuelDuration {
		return 0
	}
	return maxThrust * math.Sin(math.Pi*t/fuelDuration)
}

// Burning reports whether the engine is still lit at time t.
func Burning(fuelDuration, t float64) bool {
	return t < fuelDuration
}

// InclineDuration grows the accumulated tilt time by dt, clamped to max.
func InclineDuration(current, dt, max float64) float64 {
	next := current + dt
	if next > max {
		next = max
	}
	if next < current {
		return current
	}
	return next
}

// FlatTarget is the unit component of target lying in the local horizontal
// plane, i.e. perpendicular to gravity. It is zero when target is vertical.
func FlatTarget(gravity, target r3.Vec) r3.Vec {
	return dynamo.Unit(dynamo.ProjectOnPlane(target, gravity))
}

// Direction returns the unit thrust direction: local vertical tilted by
// angle radians toward the horizontal projection of target. Without a
// horizontal component there is nothing to tilt toward and the thrust stays
// vertical.
func Direction(gravity, target r3.Vec, angle float64) r3.Vec {
	up := dynamo.Unit(r3.Scale(-1, gravity))
	flat := FlatTarget(gravity, target)
	axis := dynamo.Unit(r3.Cross(up, flat))
	return dynamo.Rotate(up, axis, angle)
}
