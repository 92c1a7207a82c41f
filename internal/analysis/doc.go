// Package analysis condenses recorded flights for reporting.
//
//   - [Summarize]: apogee, burnout, impact speed, downrange and landing site
//   - [GroundTrack] and [GroundTrackToASCII]: the path over the surface
//   - [ParameterSweep]: landing sensitivity to one launch parameter
package analysis
