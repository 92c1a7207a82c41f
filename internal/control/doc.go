// Package control provides the open-loop thrust program of an ascent burn.
//
// The program has two parts:
//
//   - [Throttle]: a half-sine magnitude profile over the burn
//   - [Direction]: a gravity turn that tilts the thrust from local vertical
//     toward a target bearing at a fixed rate once the vehicle clears a
//     start altitude
//
// # Usage
//
//	mag := control.Throttle(maxThrust, fuelDuration, t)
//	dur := control.InclineDuration(dur, dt, maxDuration)
//	dir := control.Direction(gravity, target, rate*dur)
package control
