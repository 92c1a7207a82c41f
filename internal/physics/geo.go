package physics

import (
	"fmt"
	"math"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// GeoCoordinate is a latitude/longitude pair in degrees.
//
// Axis convention shared by every package: +Z points to the north pole,
// longitude 0 lies along +X and longitude +90 along +Y. Latitude is measured
// from the equatorial XY plane.
type GeoCoordinate struct {
	Latitude  float64 `yaml:"lat" json:"lat"`
	Longitude float64 `yaml:"lon" json:"lon"`
}

// Validate rejects coordinates outside [-90,90]x[-180,180]. Values are never
// wrapped into range.
func (g GeoCoordinate) Validate() error {
	if math.IsNaN(g.Latitude) || g.Latitude < -90 || g.Latitude > 90 {
		return fmt.Errorf("latitude %g: %w", g.Latitude, dynamo.ErrOutOfRange)
	}
	if math.IsNaN(g.Longitude) || g.Longitude < -180 || g.Longitude > 180 {
		return fmt.Errorf("longitude %g: %w", g.Longitude, dynamo.ErrOutOfRange)
	}
	return nil
}

func (g GeoCoordinate) String() string {
	return fmt.Sprintf("lat %.4f lon %.4f", g.Latitude, g.Longitude)
}

// SurfacePosition converts g to a point on the body's surface.
func (b Body) SurfacePosition(g GeoCoordinate) (r3.Vec, error) {
	if err := g.Validate(); err != nil {
		return r3.Vec{}, err
	}
	return b.PositionAt(g, 0), nil
}

// PositionAt converts g to a point at the given altitude above the surface.
// The coordinate is assumed to be valid.
func (b Body) PositionAt(g GeoCoordinate, altitude float64) r3.Vec {
	lat := g.Latitude * math.Pi / 180
	lon := g.Longitude * math.Pi / 180
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	r := b.Radius + altitude
	return r3.Vec{
		X: r * cosLat * cosLon,
		Y: r * cosLat * sinLon,
		Z: r * sinLat,
	}
}

// GeoCoordinate returns the latitude and longitude of the radial line through
// p. The origin maps to (0, 0).
func (b Body) GeoCoordinate(p r3.Vec) GeoCoordinate {
	if p == (r3.Vec{}) {
		return GeoCoordinate{}
	}
	lat := math.Atan2(p.Z, math.Hypot(p.X, p.Y))
	lon := math.Atan2(p.Y, p.X)
	return GeoCoordinate{
		Latitude:  lat * 180 / math.Pi,
		Longitude: lon * 180 / math.Pi,
	}
}

// CentralAngle is the angle in radians between the radial lines through a
// and b, computed with atan2 so it stays accurate near 0 and π.
func CentralAngle(a, b r3.Vec) float64 {
	return math.Atan2(r3.Norm(r3.Cross(a, b)), r3.Dot(a, b))
}

// SurfaceDistance is the great-circle distance between the ground points
// below a and b.
func (b Body) SurfaceDistance(p, q r3.Vec) float64 {
	return b.Radius * CentralAngle(p, q)
}
