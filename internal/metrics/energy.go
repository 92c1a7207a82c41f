package metrics

import (
	"math"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// SpecificEnergy is v²/2 − μ/r, in km²/s². It is negative on orbits that
// come back down.
func SpecificEnergy(b physics.Body, s flight.State) float64 {
	r := r3.Norm(s.Position)
	if r == 0 {
		return math.Inf(-1)
	}
	return 0.5*r3.Norm2(s.Velocity) - b.Mu/r
}

// OrbitalEnergy reports the specific orbital energy of the last observed
// state.
type OrbitalEnergy struct {
	name   string
	body   physics.Body
	energy float64
}

func NewOrbitalEnergy(body physics.Body) *OrbitalEnergy {
	return &OrbitalEnergy{name: "orbital_energy", body: body}
}

func (e *OrbitalEnergy) Name() string { return e.name }

func (e *OrbitalEnergy) Observe(s flight.State, dt float64) {
	e.energy = SpecificEnergy(e.body, s)
}

func (e *OrbitalEnergy) Value() float64 { return e.energy }

func (e *OrbitalEnergy) Reset() { e.energy = 0 }

// EnergyDrift is the largest relative change of specific energy seen while
// coasting. Without thrust the energy should stay constant, so this
// measures integrator error. Each powered tick restarts the reference.
type EnergyDrift struct {
	name      string
	body      physics.Body
	reference float64
	coasting  bool
	maxDrift  float64
}

func NewEnergyDrift(body physics.Body) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", body: body}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s flight.State, dt float64) {
	if s.Landed || s.Thrust != (r3.Vec{}) || !s.Moving() {
		e.coasting = false
		return
	}

	energy := SpecificEnergy(e.body, s)
	if !e.coasting {
		e.reference = energy
		e.coasting = true
		return
	}
	if e.reference != 0 {
		drift := math.Abs(energy-e.reference) / math.Abs(e.reference)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.reference = 0
	e.coasting = false
	e.maxDrift = 0
}
