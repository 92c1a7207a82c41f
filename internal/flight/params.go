package flight

import (
	"fmt"
	"math"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultInclineStartAltitude = 8.0                   // km
	DefaultInclineMaxDuration   = 160.0                 // s
	DefaultInclineRate          = 0.5 * math.Pi / 180.0 // rad/s
	DefaultFuelDuration         = 535.0                 // s
	DefaultMaxThrust            = 0.05                  // km/s²
)

// Parameter names accepted by GetParams and SetParam.
const (
	ParamInclineStartAltitude = "incline_start_altitude"
	ParamInclineMaxDuration   = "incline_max_duration"
	ParamInclineRate          = "incline_rate"
	ParamFuelDuration         = "fuel_duration"
	ParamMaxThrust            = "max_thrust"
	ParamDirectionX           = "direction_x"
	ParamDirectionY           = "direction_y"
	ParamDirectionZ           = "direction_z"
)

// LaunchParameters is the complete set of tunable launch settings. It is
// also the optimizer genome.
type LaunchParameters struct {
	TargetDirection      r3.Vec  `yaml:"target_direction" json:"target_direction"`
	InclineStartAltitude float64 `yaml:"incline_start_altitude" json:"incline_start_altitude"`
	InclineMaxDuration   float64 `yaml:"incline_max_duration" json:"incline_max_duration"`
	InclineRate          float64 `yaml:"incline_rate" json:"incline_rate"`
	FuelDuration         float64 `yaml:"fuel_duration" json:"fuel_duration"`
	MaxThrust            float64 `yaml:"max_thrust" json:"max_thrust"`
}

// DefaultLaunchParameters returns the stock ascent profile pointed along
// direction.
func DefaultLaunchParameters(direction r3.Vec) LaunchParameters {
	return LaunchParameters{
		TargetDirection:      dynamo.Unit(direction),
		InclineStartAltitude: DefaultInclineStartAltitude,
		InclineMaxDuration:   DefaultInclineMaxDuration,
		InclineRate:          DefaultInclineRate,
		FuelDuration:         DefaultFuelDuration,
		MaxThrust:            DefaultMaxThrust,
	}
}

// StraightLineDirection is the unit chord from start to target. It is the
// zero vector when the two points coincide.
func StraightLineDirection(start, target r3.Vec) r3.Vec {
	return dynamo.Unit(r3.Sub(target, start))
}

// Validate rejects non-finite or negative settings.
func (p LaunchParameters) Validate() error {
	if !dynamo.IsFinite(p.TargetDirection) {
		return fmt.Errorf("%w: target direction %v", dynamo.ErrParameterBounds, p.TargetDirection)
	}
	for name, v := range p.scalars() {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%v", dynamo.ErrParameterBounds, name, v)
		}
	}
	return nil
}

func (p LaunchParameters) scalars() map[string]float64 {
	return map[string]float64{
		ParamInclineStartAltitude: p.InclineStartAltitude,
		ParamInclineMaxDuration:   p.InclineMaxDuration,
		ParamInclineRate:          p.InclineRate,
		ParamFuelDuration:         p.FuelDuration,
		ParamMaxThrust:            p.MaxThrust,
	}
}

func (p *LaunchParameters) GetParams() map[string]float64 {
	params := p.scalars()
	params[ParamDirectionX] = p.TargetDirection.X
	params[ParamDirectionY] = p.TargetDirection.Y
	params[ParamDirectionZ] = p.TargetDirection.Z
	return params
}

func (p *LaunchParameters) SetParam(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s=%v", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case ParamInclineStartAltitude:
		p.InclineStartAltitude = value
	case ParamInclineMaxDuration:
		p.InclineMaxDuration = value
	case ParamInclineRate:
		p.InclineRate = value
	case ParamFuelDuration:
		p.FuelDuration = value
	case ParamMaxThrust:
		p.MaxThrust = value
	case ParamDirectionX:
		p.TargetDirection.X = value
	case ParamDirectionY:
		p.TargetDirection.Y = value
	case ParamDirectionZ:
		p.TargetDirection.Z = value
	default:
		return fmt.Errorf("%w: parameter %q", dynamo.ErrUnknown, name)
	}
	return nil
}

func (p LaunchParameters) String() string {
	return fmt.Sprintf("dir=(%.3f, %.3f, %.3f) incline=%.1fkm/%.0fs@%.4frad/s fuel=%.0fs thrust=%.4fkm/s²",
		p.TargetDirection.X, p.TargetDirection.Y, p.TargetDirection.Z,
		p.InclineStartAltitude, p.InclineMaxDuration, p.InclineRate,
		p.FuelDuration, p.MaxThrust)
}
