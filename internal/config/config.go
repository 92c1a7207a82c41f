package config

import (
	"fmt"
	"os"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBody             = "earth"
	DefaultStrategy         = "genetic"
	DefaultTickSize         = 1.0 // simulated seconds per tick
	DefaultTimeMultiplier   = 20.0
	DefaultMaxTicksPerFrame = 500
	DefaultFeedAddr         = ":8080"
	DefaultFeedFrameRate    = 30.0
	DefaultFeedBurst        = 5
)

type Config struct {
	Body     string                `yaml:"body"`
	Strategy string                `yaml:"strategy"`
	Start    physics.GeoCoordinate `yaml:"start"`
	Target   physics.GeoCoordinate `yaml:"target"`
	// Launch seeds the search and is flown as is by the fly and live
	// commands. When nil the stock profile along the start-target chord is
	// used.
	Launch    *flight.LaunchParameters `yaml:"launch,omitempty"`
	Optimizer optim.Options            `yaml:"optimizer"`
	Clock     ClockConfig              `yaml:"clock"`
	Feed      FeedConfig               `yaml:"feed"`
}

type ClockConfig struct {
	TickSize         float64 `yaml:"tick_size"`
	Multiplier       float64 `yaml:"multiplier"`
	MaxTicksPerFrame int     `yaml:"max_ticks_per_frame"`
}

type FeedConfig struct {
	Addr      string  `yaml:"addr"`
	FrameRate float64 `yaml:"frame_rate"`
	Burst     int     `yaml:"burst"`
}

func DefaultConfig() *Config {
	return &Config{
		Body:      DefaultBody,
		Strategy:  DefaultStrategy,
		Target:    physics.GeoCoordinate{Latitude: 0, Longitude: 8},
		Optimizer: optim.DefaultOptions(),
		Clock: ClockConfig{
			TickSize:         DefaultTickSize,
			Multiplier:       DefaultTimeMultiplier,
			MaxTicksPerFrame: DefaultMaxTicksPerFrame,
		},
		Feed: FeedConfig{
			Addr:      DefaultFeedAddr,
			FrameRate: DefaultFeedFrameRate,
			Burst:     DefaultFeedBurst,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := physics.Lookup(c.Body); err != nil {
		return err
	}
	if err := c.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if c.Launch != nil {
		if err := c.Launch.Validate(); err != nil {
			return fmt.Errorf("launch: %w", err)
		}
	}
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if !(c.Clock.TickSize > 0) || !(c.Clock.Multiplier >= 0) || c.Clock.MaxTicksPerFrame < 1 {
		return fmt.Errorf("%w: clock %+v", dynamo.ErrParameterBounds, c.Clock)
	}
	if !(c.Feed.FrameRate > 0) || c.Feed.Burst < 1 {
		return fmt.Errorf("%w: feed %+v", dynamo.ErrParameterBounds, c.Feed)
	}
	return nil
}

// GetBody resolves the configured body name.
func (c *Config) GetBody() (physics.Body, error) {
	return physics.Lookup(c.Body)
}

// GetLaunchParameters returns the configured genome, or the stock profile
// pointed from start toward target.
func (c *Config) GetLaunchParameters(body physics.Body) (flight.LaunchParameters, error) {
	if c.Launch != nil {
		return *c.Launch, nil
	}
	start, err := body.SurfacePosition(c.Start)
	if err != nil {
		return flight.LaunchParameters{}, fmt.Errorf("start: %w", err)
	}
	target, err := body.SurfacePosition(c.Target)
	if err != nil {
		return flight.LaunchParameters{}, fmt.Errorf("target: %w", err)
	}
	return flight.DefaultLaunchParameters(flight.StraightLineDirection(start, target)), nil
}

// Request builds a search request for the configured body and points.
func (c *Config) Request() (optim.Request, error) {
	body, err := c.GetBody()
	if err != nil {
		return optim.Request{}, err
	}
	start, target := c.Start, c.Target
	return optim.Request{Body: body, Start: &start, Target: &target, Baseline: c.Launch}, nil
}
