package flight

import (
	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot is the render-facing view of a vehicle at one instant.
type Snapshot struct {
	ID         ID      `json:"id"`
	Position   r3.Vec  `json:"position"`
	Velocity   r3.Vec  `json:"velocity"`
	Thrust     r3.Vec  `json:"thrust"`
	Gravity    r3.Vec  `json:"gravity"`
	Altitude   float64 `json:"altitude"`
	FlightTime float64 `json:"flight_time"`
	Landed     bool    `json:"landed"`
}

// Snapshot copies the render-facing fields of s.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Position:   s.Position,
		Velocity:   s.Velocity,
		Thrust:     s.Thrust,
		Gravity:    s.Gravity,
		Altitude:   s.Altitude,
		FlightTime: s.FlightTime,
		Landed:     s.Landed,
	}
}

// Interpolate blends two consecutive states for display between ticks.
// alpha is clamped to [0,1]; 0 yields prev and 1 yields cur. Landed is taken
// from cur.
func Interpolate(prev, cur State, alpha float64) Snapshot {
	switch {
	case alpha <= 0:
		return prev.Snapshot()
	case alpha >= 1:
		return cur.Snapshot()
	}
	return Snapshot{
		Position:   dynamo.Lerp(prev.Position, cur.Position, alpha),
		Velocity:   dynamo.Lerp(prev.Velocity, cur.Velocity, alpha),
		Thrust:     dynamo.Lerp(prev.Thrust, cur.Thrust, alpha),
		Gravity:    dynamo.Lerp(prev.Gravity, cur.Gravity, alpha),
		Altitude:   prev.Altitude + (cur.Altitude-prev.Altitude)*alpha,
		FlightTime: prev.FlightTime + (cur.FlightTime-prev.FlightTime)*alpha,
		Landed:     cur.Landed,
	}
}
