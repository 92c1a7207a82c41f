package config

import (
	"sort"

	"github.com/RaLLy08/orbital-motion/internal/physics"
)

var Presets = map[string]*Config{
	"equator-hop": preset("earth", 0, 0, 0, 8, nil),
	"antipodal":   preset("earth", 0, 0, 0, 180, nil),
	"polar":       preset("earth", 0, 0, 60, 0, nil),
	"moon-hop": preset("moon", 0, 0, 5, 10, func(c *Config) {
		c.Clock.Multiplier = 10
	}),
	"pad-hold": preset("earth", 28.5, -80.6, 28.5, -80.6, func(c *Config) {
		c.Optimizer.PopulationSize = 20
		c.Optimizer.Generations = 10
	}),
}

func preset(body string, startLat, startLon, targetLat, targetLon float64, tweak func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Body = body
	cfg.Start = physics.GeoCoordinate{Latitude: startLat, Longitude: startLon}
	cfg.Target = physics.GeoCoordinate{Latitude: targetLat, Longitude: targetLon}
	if tweak != nil {
		tweak(cfg)
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	if cfg.Launch != nil {
		launch := *cfg.Launch
		out.Launch = &launch
	}
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
