package analysis

import (
	"fmt"
	"strings"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Summary describes a finished or interrupted flight.
type Summary struct {
	Apogee       float64 `yaml:"apogee_km" json:"apogee_km"`
	BurnoutTime  float64 `yaml:"burnout_s" json:"burnout_s"`
	BurnoutSpeed float64 `yaml:"burnout_speed_kms" json:"burnout_speed_kms"`
	ImpactSpeed  float64 `yaml:"impact_speed_kms" json:"impact_speed_kms"`
	Downrange    float64 `yaml:"downrange_km" json:"downrange_km"`
	FlightTime   float64 `yaml:"flight_time_s" json:"flight_time_s"`
	Landed       bool    `yaml:"landed" json:"landed"`
	// Landing is the ground point below the final position; it is the
	// landing site when Landed is true.
	Landing physics.GeoCoordinate `yaml:"landing" json:"landing"`
}

// Summarize condenses a recorded trail. The trail must start at the launch
// point, as sim.Recorder does; an empty trail yields a zero Summary.
func Summarize(b physics.Body, p flight.LaunchParameters, trail []flight.Snapshot) Summary {
	if len(trail) == 0 {
		return Summary{}
	}
	start := trail[0].Position
	last := trail[len(trail)-1]

	s := Summary{
		FlightTime: last.FlightTime,
		Landed:     last.Landed,
		Downrange:  b.SurfaceDistance(start, last.Position),
		Landing:    b.GeoCoordinate(last.Position),
	}
	s.BurnoutTime = p.FuelDuration
	if last.FlightTime < p.FuelDuration {
		s.BurnoutTime = last.FlightTime
	}

	for i, snap := range trail {
		if snap.Altitude > s.Apogee {
			s.Apogee = snap.Altitude
		}
		if snap.FlightTime <= s.BurnoutTime {
			s.BurnoutSpeed = r3.Norm(snap.Velocity)
		}
		// the landing tick zeroes velocity, so impact speed comes from
		// the tick before it
		if snap.Landed && i > 0 && s.ImpactSpeed == 0 {
			s.ImpactSpeed = r3.Norm(trail[i-1].Velocity)
		}
	}
	return s
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "apogee:        %.2f km\n", s.Apogee)
	fmt.Fprintf(&sb, "burnout:       %.0f s at %.3f km/s\n", s.BurnoutTime, s.BurnoutSpeed)
	fmt.Fprintf(&sb, "flight time:   %.0f s\n", s.FlightTime)
	fmt.Fprintf(&sb, "downrange:     %.2f km\n", s.Downrange)
	if s.Landed {
		fmt.Fprintf(&sb, "landed at:     %s (%.3f km/s)\n", s.Landing, s.ImpactSpeed)
	} else {
		fmt.Fprintf(&sb, "still flying over %s\n", s.Landing)
	}
	return sb.String()
}
