// Package flight holds the vehicle state of a powered ascent and the pure
// step function that advances it.
//
// A flight has two phases. While ascending, [Step] recomputes altitude and
// gravity, applies the thrust program from package control and integrates
// with semi-implicit Euler. Once the vehicle has moved away from its start
// and its altitude drops to zero it is landed; a landed state is absorbing
// and Step returns it unchanged.
//
// Distances are kilometres, times seconds, accelerations km/s².
//
// [Vehicle] is a thin owner of a State with an identity, used by the live
// registry in package sim. Optimizer runs call Step directly on private
// states.
package flight
