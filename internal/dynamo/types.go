package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Unit returns v scaled to length one, or the zero vector when v has zero
// length. r3.Unit would return NaN components in that case.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// ProjectOnPlane removes from v its component along the plane normal.
// A zero normal returns v unchanged.
func ProjectOnPlane(v, normal r3.Vec) r3.Vec {
	n := Unit(normal)
	return r3.Sub(v, r3.Scale(r3.Dot(v, n), n))
}

// Rotate turns v by angle radians about axis using Rodrigues' formula.
// The axis is normalized first; a zero axis leaves v unchanged.
func Rotate(v, axis r3.Vec, angle float64) r3.Vec {
	k := Unit(axis)
	if k == (r3.Vec{}) || angle == 0 {
		return v
	}
	sin, cos := math.Sincos(angle)
	return r3.Add(
		r3.Add(r3.Scale(cos, v), r3.Scale(sin, r3.Cross(k, v))),
		r3.Scale(r3.Dot(k, v)*(1-cos), k),
	)
}

// Lerp blends a toward b; alpha 0 returns a and alpha 1 returns b.
func Lerp(a, b r3.Vec, alpha float64) r3.Vec {
	return r3.Add(r3.Scale(1-alpha, a), r3.Scale(alpha, b))
}

// Abs returns the component-wise absolute value.
func Abs(v r3.Vec) r3.Vec {
	return r3.Vec{X: math.Abs(v.X), Y: math.Abs(v.Y), Z: math.Abs(v.Z)}
}

// IsFinite reports whether no component is NaN or Inf.
func IsFinite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Configurable exposes named scalar parameters for tuning and grid search.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
