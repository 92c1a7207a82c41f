package flight

import (
	"fmt"
	"sync/atomic"

	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// ID identifies a live vehicle. IDs are never reused within a process.
type ID uint64

var lastID atomic.Uint64

// NextID returns a fresh vehicle ID.
func NextID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return fmt.Sprintf("vehicle-%d", uint64(id))
}

// Vehicle owns the state of one live flight. It is not safe for concurrent
// use; the sim registry serializes access.
type Vehicle struct {
	id     ID
	body   physics.Body
	params LaunchParameters
	prev   State
	state  State
}

func NewVehicle(body physics.Body, start r3.Vec, params LaunchParameters) *Vehicle {
	s := NewState(start)
	return &Vehicle{
		id:     NextID(),
		body:   body,
		params: params,
		prev:   s,
		state:  s,
	}
}

func (v *Vehicle) ID() ID                   { return v.id }
func (v *Vehicle) Body() physics.Body       { return v.body }
func (v *Vehicle) Params() LaunchParameters { return v.params }
func (v *Vehicle) State() State             { return v.state }
func (v *Vehicle) Landed() bool             { return v.state.Landed }

// Terminal reports whether further updates are no-ops.
func (v *Vehicle) Terminal() bool { return v.state.Terminal(v.params) }

// Update advances the vehicle one tick of dt seconds.
func (v *Vehicle) Update(dt float64) {
	v.prev = v.state
	v.state = Step(v.body, v.params, v.state, dt)
}

// Snapshot returns the display state alpha of the way from the previous
// tick to the current one.
func (v *Vehicle) Snapshot(alpha float64) Snapshot {
	snap := Interpolate(v.prev, v.state, alpha)
	snap.ID = v.id
	return snap
}
