// Package integrators advances point-mass state under a constant per-step
// acceleration.
//
// [SemiImplicitEuler] updates velocity before position. It is symplectic, so
// the energy of a bound orbit stays bounded over long runs.
package integrators
