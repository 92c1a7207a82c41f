package integrators

import "gonum.org/v1/gonum/spatial/r3"

// SemiImplicitEuler updates velocity first and moves the position with the
// new velocity. It is the integrator used by flight.Step.
type SemiImplicitEuler struct{}

// Step advances a point mass under the constant acceleration a for dt.
func (SemiImplicitEuler) Step(p, v, a r3.Vec, dt float64) (r3.Vec, r3.Vec) {
	v = r3.Add(v, r3.Scale(dt, a))
	p = r3.Add(p, r3.Scale(dt, v))
	return p, v
}
