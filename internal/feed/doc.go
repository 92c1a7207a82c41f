// Package feed streams live vehicle snapshots to external renderers over
// websockets.
package feed
