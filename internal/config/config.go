// Package config loads and validates the YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/solver"
)

const (
	DefaultWidth  = 64
	DefaultHeight = 48
	DefaultFPS    = 30
	MaxFPS        = 120
)

// SourceReplay selects playback of a recorded run instead of a solver.
const SourceReplay = "replay"

var (
	ErrNoSource = errors.New("config: no source")
	ErrBadFPS   = errors.New("config: fps out of range")
)

type Config struct {
	Source   string         `yaml:"source"`
	Grid     GridConfig     `yaml:"grid"`
	Sweep    field.Sweep    `yaml:"sweep"`
	Levels   []float64      `yaml:"levels,omitempty"`
	Colormap ColormapConfig `yaml:"colormap"`
	Solver   SolverConfig   `yaml:"solver"`
	FPS      int            `yaml:"fps"`
	Record   RecordConfig   `yaml:"record"`
}

type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ColormapConfig struct {
	Name    string  `yaml:"name"`
	ClipMin float64 `yaml:"clip_min"`
	ClipMax float64 `yaml:"clip_max"`
	Auto    bool    `yaml:"auto"`
}

type SolverConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Diffusivity float64 `yaml:"diffusivity"`
	WindX       float64 `yaml:"wind_x"`
	WindY       float64 `yaml:"wind_y"`
	Source      float64 `yaml:"source"`
	Decay       float64 `yaml:"decay"`
	Stepper     string  `yaml:"stepper"`
}

// RecordConfig enables recording when Path is set. Every is the step
// interval between recorded frames.
type RecordConfig struct {
	Path  string `yaml:"path"`
	Every int    `yaml:"every"`
}

func DefaultConfig() *Config {
	p := solver.DefaultParams()
	clip := colormap.DefaultClip()
	return &Config{
		Source: "plume",
		Grid:   GridConfig{Width: DefaultWidth, Height: DefaultHeight},
		Sweep:  field.Sweep{Min: 0.1, Max: 1.0, Step: 0.1},
		Colormap: ColormapConfig{
			Name:    colormap.Viridis.Name(),
			ClipMin: clip.Min,
			ClipMax: clip.Max,
		},
		Solver: SolverConfig{
			Dt:          p.Dt,
			Diffusivity: p.Diffusivity,
			WindX:       p.WindX,
			WindY:       p.WindY,
			Source:      p.Source,
			Decay:       p.Decay,
			Stepper:     p.Stepper,
		},
		FPS:    DefaultFPS,
		Record: RecordConfig{Every: 1},
	}
}

// Load reads path over DefaultConfig. Keys missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
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

// Validate reports configuration errors before anything is started.
func (c *Config) Validate() error {
	if c.Source == "" {
		return ErrNoSource
	}
	if c.Grid.Width < 2 || c.Grid.Height < 2 {
		return fmt.Errorf("grid %dx%d: %w", c.Grid.Width, c.Grid.Height, field.ErrEmptyGrid)
	}
	if _, err := c.IsoLevels(); err != nil {
		return err
	}
	if c.FPS < 1 || c.FPS > MaxFPS {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrBadFPS, c.FPS, MaxFPS)
	}
	if _, err := colormap.Lookup(c.Colormap.Name); err != nil {
		return err
	}
	if !c.Colormap.Auto && !c.Clip().Valid() {
		return fmt.Errorf("config: clip range [%g, %g] is empty", c.Colormap.ClipMin, c.Colormap.ClipMax)
	}
	if c.Record.Every < 0 {
		return fmt.Errorf("config: record.every must not be negative, got %d", c.Record.Every)
	}
	if c.Source != SourceReplay {
		if err := c.Params().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsoLevels returns the explicit levels if any, otherwise the sweep.
func (c *Config) IsoLevels() ([]float64, error) {
	if len(c.Levels) > 0 {
		return field.Levels(c.Levels...)
	}
	if err := c.Sweep.Validate(); err != nil {
		return nil, err
	}
	return c.Sweep.Levels(), nil
}

func (c *Config) Params() solver.Params {
	return solver.Params{
		Width:       c.Grid.Width,
		Height:      c.Grid.Height,
		Dt:          c.Solver.Dt,
		Duration:    c.Solver.Duration,
		Diffusivity: c.Solver.Diffusivity,
		WindX:       c.Solver.WindX,
		WindY:       c.Solver.WindY,
		Source:      c.Solver.Source,
		Decay:       c.Solver.Decay,
		Stepper:     c.Solver.Stepper,
	}
}

func (c *Config) Clip() colormap.Clip {
	return colormap.Clip{Min: c.Colormap.ClipMin, Max: c.Colormap.ClipMax}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Levels = append([]float64(nil), c.Levels...)
	return &out
}
