// Package physics provides the gravity model of a spherical body.
//
// A [Body] is an immutable value holding radius and gravitational parameter.
// It answers three questions for the rest of the simulator:
//
//   - [Body.Gravity]: point-mass acceleration toward the center
//   - [Body.Altitude]: height above the reference sphere
//   - [Body.SurfacePosition] / [Body.GeoCoordinate]: latitude/longitude to
//     Cartesian conversion and back
//
// # Frame
//
// Positions are body-centered, in km. +Z is the north pole, longitude 0 lies
// along +X and longitude +90 along +Y. Every package and external caller uses
// this convention; the optimizer compares positions produced by it directly.
//
//	start, _ := physics.Earth.SurfacePosition(physics.GeoCoordinate{Latitude: 0, Longitude: 90})
//	g := physics.Earth.Gravity(start) // ~0.00982 km/s² toward the center
package physics
