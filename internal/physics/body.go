package physics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a spherical gravitating body centered at the origin.
// Lengths are in km and Mu in km³/s².
type Body struct {
	Name   string
	Radius float64
	Mu     float64
}

var (
	Earth = Body{Name: "earth", Radius: 6371, Mu: 398600.4418}
	Moon  = Body{Name: "moon", Radius: 1737.4, Mu: 4902.8}
	Mars  = Body{Name: "mars", Radius: 3389.5, Mu: 42828.37}
)

var bodies = map[string]Body{
	Earth.Name: Earth,
	Moon.Name:  Moon,
	Mars.Name:  Mars,
}

// NewBody validates radius and gravitational parameter.
func NewBody(name string, radius, mu float64) (Body, error) {
	if !(radius > 0) || !(mu > 0) {
		return Body{}, fmt.Errorf("body %q: radius %g, mu %g: %w", name, radius, mu, dynamo.ErrParameterBounds)
	}
	return Body{Name: name, Radius: radius, Mu: mu}, nil
}

// Lookup returns a preset body by case-insensitive name.
func Lookup(name string) (Body, error) {
	b, ok := bodies[strings.ToLower(name)]
	if !ok {
		return Body{}, fmt.Errorf("body %q: %w", name, dynamo.ErrUnknown)
	}
	return b, nil
}

// ListBodies returns the preset names in alphabetical order.
func ListBodies() []string {
	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gravity returns the gravitational acceleration at p, pointing toward the
// center with magnitude Mu/|p|². At the center itself it returns the zero
// vector.
func (b Body) Gravity(p r3.Vec) r3.Vec {
	r2 := r3.Norm2(p)
	if r2 == 0 {
		return r3.Vec{}
	}
	return r3.Scale(-b.Mu/r2, dynamo.Unit(p))
}

// Altitude returns |p| - Radius.
func (b Body) Altitude(p r3.Vec) float64 {
	return r3.Norm(p) - b.Radius
}

// SurfaceGravity is the gravity magnitude at zero altitude.
func (b Body) SurfaceGravity() float64 {
	return b.Mu / (b.Radius * b.Radius)
}

func (b Body) String() string {
	return fmt.Sprintf("%s (R=%.1f km, mu=%.1f km^3/s^2)", b.Name, b.Radius, b.Mu)
}
