package flight

import (
	"github.com/RaLLy08/orbital-motion/internal/control"
	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the complete kinematic and program state of one vehicle.
type State struct {
	Start    r3.Vec
	Position r3.Vec
	Velocity r3.Vec
	Thrust   r3.Vec
	Gravity  r3.Vec

	Altitude    float64
	MaxAltitude float64
	FlightTime  float64

	// Travelled accumulates |v|·dt per axis.
	Travelled r3.Vec
	Landed    bool

	InclineDuration float64
	InclineAngle    float64
}

// NewState places a vehicle at rest on start.
func NewState(start r3.Vec) State {
	return State{Start: start, Position: start}
}

// Displacement is the straight-line offset from the launch point.
func (s State) Displacement() r3.Vec {
	return r3.Sub(s.Position, s.Start)
}

// Speed is |Velocity|.
func (s State) Speed() float64 {
	return r3.Norm(s.Velocity)
}

// Moving reports whether the vehicle has any velocity.
func (s State) Moving() bool {
	return s.Velocity != (r3.Vec{})
}

// Grounded reports whether the vehicle can never move again without having
// landed: the burn is over and it is still at rest on the pad.
func (s State) Grounded(p LaunchParameters) bool {
	return !s.Landed && s.FlightTime >= p.FuelDuration && !s.Moving()
}

// Escaping reports whether the engine is off and the vehicle is on an open
// orbit moving away from the body, so it will never come back down.
func (s State) Escaping(b physics.Body, p LaunchParameters) bool {
	if s.Landed || control.Burning(p.FuelDuration, s.FlightTime) {
		return false
	}
	r := r3.Norm(s.Position)
	if r == 0 {
		return false
	}
	energy := 0.5*r3.Norm2(s.Velocity) - b.Mu/r
	return energy >= 0 && r3.Dot(s.Position, s.Velocity) > 0
}

// Terminal reports whether further steps cannot change the state.
func (s State) Terminal(p LaunchParameters) bool {
	return s.Landed || s.Grounded(p)
}

// Valid reports whether every vector in the state is finite.
func (s State) Valid() bool {
	for _, v := range [...]r3.Vec{s.Position, s.Velocity, s.Thrust, s.Gravity} {
		if !dynamo.IsFinite(v) {
			return false
		}
	}
	return true
}
