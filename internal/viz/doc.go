// Package viz provides terminal views for flights and trajectory searches.
//
// The views are Bubble Tea models:
//
//   - [FlightModel]: live 3D view of a scene driven by its simulation clock
//   - [ProgressModel]: progress of a running trajectory search
//   - [Canvas]: Braille-based pixel canvas used by the flight view
//
// # Key Bindings (flight view)
//
//	Space    - Pause/Resume
//	+/-      - Double/halve the time multiplier
//	Arrows   - Rotate the camera
//	Z/z      - Zoom in/out
//	R        - Relaunch
//	T        - Cycle color themes
//	?        - Show help overlay
package viz
