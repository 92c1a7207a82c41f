// Package dynamo provides the shared primitives of the flight simulator.
//
// The package collects the pieces every other package leans on:
//
//   - vector helpers over [r3.Vec] that never produce NaN for degenerate input
//     ([Unit], [ProjectOnPlane], [Rotate])
//   - domain errors ([ErrInvalidRequest], [ErrOutOfRange], ...)
//   - [ParallelFor], a bounded fan-out used to evaluate independent flights
//
// # Degenerate vectors
//
// Normalizing a zero-length vector yields the zero vector. Rotating about a
// zero-length axis leaves the vector unchanged. Callers can therefore chain
// these helpers without checking for NaN.
//
//	up := dynamo.Unit(r3.Scale(-1, gravity))
//	flat := dynamo.Unit(dynamo.ProjectOnPlane(target, up))
//	dir := dynamo.Rotate(up, dynamo.Unit(r3.Cross(up, flat)), angle)
package dynamo
