package config

import (
	"sort"

	"github.com/san-kum/isoflow/internal/field"
)

func preset(source string, fn func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Source = source
	fn(cfg)
	return cfg
}

// Presets holds ready-made configurations per source.
var Presets = map[string]map[string]*Config{
	"plume": {
		"gentle": preset("plume", func(c *Config) {
			c.Solver.WindX, c.Solver.WindY = 0.3, 0
			c.Solver.Diffusivity = 0.3
			c.Solver.Source = 2
		}),
		"windy": preset("plume", func(c *Config) {
			c.Grid = GridConfig{Width: 96, Height: 40}
			c.Solver.WindX, c.Solver.WindY = 1.5, 0.25
			c.Solver.Diffusivity = 0.1
			c.Sweep.Max = 2
			c.Sweep.Step = 0.2
		}),
	},
	"pulse": {
		"single": preset("pulse", func(c *Config) {
			c.Grid = GridConfig{Width: 48, Height: 48}
			c.Solver.WindX, c.Solver.WindY = 0, 0
			c.Solver.Decay = 0
			c.Solver.Source = 8
			c.Solver.Duration = 40
			c.Sweep = field.Sweep{Min: 0.5, Max: 8, Step: 0.5}
		}),
	},
	"saddle": {
		"rotating": preset("saddle", func(c *Config) {
			c.Grid = GridConfig{Width: 48, Height: 48}
			c.Solver.WindX = 0.4
			c.Solver.Source = 1
			c.Levels = []float64{-0.5, 0, 0.5}
			c.Colormap.Name = "coolwarm"
			c.Colormap.ClipMin, c.Colormap.ClipMax = -1, 1
		}),
	},
}

// GetPreset returns a copy of a preset, or nil if it does not exist.
func GetPreset(source, name string) *Config {
	sourcePresets, ok := Presets[source]
	if !ok {
		return nil
	}
	cfg, ok := sourcePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of source in sorted order.
func ListPresets(source string) []string {
	sourcePresets, ok := Presets[source]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(sourcePresets))
	for name := range sourcePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sources lists the sources that have presets.
func Sources() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
