package analysis

import (
	"strings"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
)

// GroundTrack returns the ground point below every snapshot.
func GroundTrack(b physics.Body, trail []flight.Snapshot) []physics.GeoCoordinate {
	track := make([]physics.GeoCoordinate, len(trail))
	for i, s := range trail {
		track[i] = b.GeoCoordinate(s.Position)
	}
	return track
}

// GroundTrackToASCII plots a ground track on an equirectangular
// width×height canvas covering the whole globe. The equator and prime
// meridian are drawn as axes; the first point is marked 'S', the last 'X'
// and the optional target 'T'.
func GroundTrackToASCII(track []physics.GeoCoordinate, target *physics.GeoCoordinate, width, height int) string {
	if len(track) == 0 || width < 2 || height < 2 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	cell := func(g physics.GeoCoordinate) (int, int) {
		col := int((g.Longitude + 180) / 360 * float64(width-1))
		row := height - 1 - int((g.Latitude+90)/180*float64(height-1))
		return row, col
	}
	put := func(g physics.GeoCoordinate, r rune) {
		row, col := cell(g)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = r
		}
	}

	equator, meridian := cell(physics.GeoCoordinate{})
	for col := 0; col < width; col++ {
		canvas[equator][col] = '─'
	}
	for row := 0; row < height; row++ {
		canvas[row][meridian] = '│'
	}
	canvas[equator][meridian] = '┼'

	for _, g := range track {
		put(g, '•')
	}
	if target != nil {
		put(*target, 'T')
	}
	put(track[0], 'S')
	put(track[len(track)-1], 'X')

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
