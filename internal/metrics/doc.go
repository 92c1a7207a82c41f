// Package metrics provides flight metrics for sim.Simulator and the
// Prometheus collector used by the optimizer, the feed and the CLI.
//
//   - [OrbitalEnergy]: specific orbital energy of the final state
//   - [EnergyDrift]: relative energy error while coasting
//   - [DeltaV]: integrated thrust
//   - [MaxAltitude], [Downrange]: apogee and ground distance
//
// [Standard] returns one of each for a body.
package metrics
