package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source != "plume" {
		t.Errorf("expected source plume, got %s", cfg.Source)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	levels, err := cfg.IsoLevels()
	if err != nil {
		t.Fatal(err)
	}
	if len(levels) != 9 {
		t.Errorf("expected 9 default levels, got %d", len(levels))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		want error
	}{
		{"zero grid", func(c *Config) { c.Grid = GridConfig{} }, field.ErrEmptyGrid},
		{"single row", func(c *Config) { c.Grid.Height = 1 }, field.ErrEmptyGrid},
		{"empty sweep", func(c *Config) { c.Sweep.Max = c.Sweep.Min }, field.ErrEmptySweep},
		{"zero step", func(c *Config) { c.Sweep.Step = 0 }, field.ErrNonPositiveStep},
		{"negative step", func(c *Config) { c.Sweep.Step = -0.1 }, field.ErrNonPositiveStep},
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrBadFPS},
		{"fast fps", func(c *Config) { c.FPS = MaxFPS + 1 }, ErrBadFPS},
		{"no source", func(c *Config) { c.Source = "" }, ErrNoSource},
		{"bad solver dt", func(c *Config) { c.Solver.Dt = 0 }, solver.ErrBadParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateOtherErrors(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"unknown colormap", func(c *Config) { c.Colormap.Name = "jet" }},
		{"empty clip", func(c *Config) { c.Colormap.ClipMin, c.Colormap.ClipMax = 1, 1 }},
		{"negative record interval", func(c *Config) { c.Record.Every = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateReplaySkipsSolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source = SourceReplay
	cfg.Solver.Dt = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("replay config rejected: %v", err)
	}
}

func TestAutoClipAcceptsEmptyRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colormap.Auto = true
	cfg.Colormap.ClipMin, cfg.Colormap.ClipMax = 0, 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("auto clip rejected: %v", err)
	}
}

func TestExplicitLevelsOverrideSweep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels = []float64{0.2, 0.4}
	cfg.Sweep.Step = 0

	levels, err := cfg.IsoLevels()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0.2, 0.4}, levels); diff != "" {
		t.Errorf("levels (-want +got):\n%s", diff)
	}
}

func TestLoadOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isoflow.yaml")
	yaml := `
source: pulse
grid: {width: 20, height: 10}
solver:
  diffusivity: 0.5
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Source = "pulse"
	want.Grid = GridConfig{Width: 20, Height: 10}
	want.Solver.Diffusivity = 0.5
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("loaded config (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GetPreset("saddle", "rotating")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("saved config (-want +got):\n%s", diff)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("plume", "windy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Solver.WindX != 1.5 {
		t.Errorf("expected wind 1.5, got %f", cfg.Solver.WindX)
	}

	cfg.Solver.WindX = 99
	if GetPreset("plume", "windy").Solver.WindX != 1.5 {
		t.Error("preset mutated through returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("plume", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "gentle") != nil {
		t.Error("expected nil for nonexistent source")
	}
}

func TestPresetsAreValid(t *testing.T) {
	registry := solver.NewRegistry()
	for _, source := range Sources() {
		for _, name := range ListPresets(source) {
			t.Run(source+"/"+name, func(t *testing.T) {
				cfg := GetPreset(source, name)
				if cfg.Source != source {
					t.Errorf("source = %s", cfg.Source)
				}
				if err := cfg.Validate(); err != nil {
					t.Fatal(err)
				}
				if _, err := registry.NewParticipant(cfg.Source, cfg.Params()); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

func TestListPresets(t *testing.T) {
	if diff := cmp.Diff([]string{"gentle", "windy"}, ListPresets("plume")); diff != "" {
		t.Errorf("plume presets (-want +got):\n%s", diff)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent source")
	}
	if diff := cmp.Diff([]string{"plume", "pulse", "saddle"}, Sources()); diff != "" {
		t.Errorf("sources (-want +got):\n%s", diff)
	}
}
