package metrics

import (
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"gonum.org/v1/gonum/spatial/r3"
)

// DeltaV integrates |thrust|·dt over a run: the velocity change bought
// with the burn, in km/s.
type DeltaV struct {
	name string
	sum  float64
}

func NewDeltaV() *DeltaV {
	return &DeltaV{name: "delta_v"}
}

func (d *DeltaV) Name() string { return d.name }

func (d *DeltaV) Observe(s flight.State, dt float64) {
	d.sum += r3.Norm(s.Thrust) * dt
}

func (d *DeltaV) Value() float64 { return d.sum }

func (d *DeltaV) Reset() { d.sum = 0 }
