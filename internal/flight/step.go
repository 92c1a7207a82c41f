package flight

import (
	"github.com/RaLLy08/orbital-motion/internal/control"
	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/integrators"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// LandingDisplacement is how far (km) the vehicle must have moved from its
// start before touching the surface counts as a landing.
const LandingDisplacement = 10.0

var integrator integrators.SemiImplicitEuler

// Step advances s by dt seconds around body b under the thrust program p.
// It does not modify its input. A landed state is returned unchanged.
func Step(b physics.Body, p LaunchParameters, s State, dt float64) State {
	if s.Landed {
		return s
	}

	s.observe(b)
	s.applyThrust(p, dt)

	if r3.Norm(s.Displacement()) > LandingDisplacement && s.Altitude <= 0 {
		s.Landed = true
		s.Velocity = r3.Vec{}
		s.Thrust = r3.Vec{}
		return s
	}

	// launch hold: a vehicle at rest stays on the pad until thrust beats gravity
	if r3.Norm(s.Thrust) > r3.Norm(s.Gravity) || s.Moving() {
		acc := r3.Add(s.Gravity, s.Thrust)
		s.Position, s.Velocity = integrator.Step(s.Position, s.Velocity, acc, dt)
		s.Travelled = r3.Add(s.Travelled, r3.Scale(dt, dynamo.Abs(s.Velocity)))
		s.observeAltitude(b)
	}

	s.FlightTime += dt
	return s
}

func (s *State) observe(b physics.Body) {
	s.observeAltitude(b)
	s.Gravity = b.Gravity(s.Position)
}

func (s *State) observeAltitude(b physics.Body) {
	s.Altitude = b.Altitude(s.Position)
	if s.Altitude > s.MaxAltitude {
		s.MaxAltitude = s.Altitude
	}
}

func (s *State) applyThrust(p LaunchParameters, dt float64) {
	if !control.Burning(p.FuelDuration, s.FlightTime) {
		s.Thrust = r3.Vec{}
		return
	}

	if s.Altitude > p.InclineStartAltitude {
		s.InclineDuration = control.InclineDuration(s.InclineDuration, dt, p.InclineMaxDuration)
	}
	s.InclineAngle = p.InclineRate * s.InclineDuration

	mag := control.Throttle(p.MaxThrust, p.FuelDuration, s.FlightTime)
	dir := control.Direction(s.Gravity, p.TargetDirection, s.InclineAngle)
	s.Thrust = r3.Scale(mag, dir)
}
