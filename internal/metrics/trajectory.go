package metrics

import (
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
)

// MaxAltitude is the apogee of a run in km.
type MaxAltitude struct {
	name string
	max  float64
}

func NewMaxAltitude() *MaxAltitude {
	return &MaxAltitude{name: "max_altitude"}
}

func (m *MaxAltitude) Name() string { return m.name }

func (m *MaxAltitude) Observe(s flight.State, dt float64) {
	if s.MaxAltitude > m.max {
		m.max = s.MaxAltitude
	}
}

func (m *MaxAltitude) Value() float64 { return m.max }

func (m *MaxAltitude) Reset() { m.max = 0 }

// Downrange is the great-circle surface distance in km from the launch
// point to the point below the vehicle.
type Downrange struct {
	name     string
	body     physics.Body
	distance float64
}

func NewDownrange(body physics.Body) *Downrange {
	return &Downrange{name: "downrange", body: body}
}

func (d *Downrange) Name() string { return d.name }

func (d *Downrange) Observe(s flight.State, dt float64) {
	d.distance = d.body.SurfaceDistance(s.Start, s.Position)
}

func (d *Downrange) Value() float64 { return d.distance }

func (d *Downrange) Reset() { d.distance = 0 }

// Standard returns fresh instances of every flight metric for body.
func Standard(body physics.Body) []sim.Metric {
	return []sim.Metric{
		NewOrbitalEnergy(body),
		NewEnergyDrift(body),
		NewDeltaV(),
		NewMaxAltitude(),
		NewDownrange(body),
	}
}
