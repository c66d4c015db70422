package colormap

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/isoflow/internal/field"
)

func TestStopsEndpointsAndClamp(t *testing.T) {
	tests := []struct {
		name string
		m    Map
		t    float64
		want color.RGBA
	}{
		{"gray low", Gray, 0, color.RGBA{0, 0, 0, 0xff}},
		{"gray high", Gray, 1, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"gray mid", Gray, 0.5, color.RGBA{0x80, 0x80, 0x80, 0xff}},
		{"gray below", Gray, -3, color.RGBA{0, 0, 0, 0xff}},
		{"gray above", Gray, 7, color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"viridis low", Viridis, 0, color.RGBA{0x44, 0x01, 0x54, 0xff}},
		{"viridis high", Viridis, 1, color.RGBA{0xfd, 0xe7, 0x25, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.At(tt.t); got != tt.want {
				t.Errorf("At(%g) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestContinuousMapsAreOpaque(t *testing.T) {
	for _, m := range []Map{Heat, CoolWarm} {
		for _, v := range []float64{0, 0.25, 0.5, 1, math.NaN()} {
			if c := m.At(v); c.A != 0xff {
				t.Errorf("%s.At(%g) alpha = %d", m.Name(), v, c.A)
			}
		}
	}
	lo, hi := Heat.At(0), Heat.At(1)
	if int(lo.R)+int(lo.G)+int(lo.B) >= int(hi.R)+int(hi.G)+int(hi.B) {
		t.Errorf("heat does not brighten: %v -> %v", lo, hi)
	}
}

func TestLookupAndNext(t *testing.T) {
	if diff := cmp.Diff([]string{"coolwarm", "gray", "heat", "viridis"}, Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	m, err := Lookup("heat")
	if err != nil || m.Name() != "heat" {
		t.Fatalf("Lookup(heat) = %v, %v", m, err)
	}
	if _, err := Lookup("jet"); err == nil {
		t.Error("Lookup(jet) succeeded")
	}

	seen := map[string]bool{}
	m = Viridis
	for range Names() {
		m = Next(m)
		seen[m.Name()] = true
	}
	if len(seen) != len(Names()) || m.Name() != "viridis" {
		t.Errorf("Next cycle visited %v, ended at %s", seen, m.Name())
	}
}

func TestPalette(t *testing.T) {
	p := Palette(Gray, 3).Colors()
	want := []color.Color{
		color.RGBA{0, 0, 0, 0xff},
		color.RGBA{0x80, 0x80, 0x80, 0xff},
		color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("palette (-want +got):\n%s", diff)
	}
	if n := len(Palette(Viridis, 0).Colors()); n != 2 {
		t.Errorf("degenerate palette has %d colors", n)
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{0x0a, 0xff, 0x10, 0xff}); got != "#0aff10" {
		t.Errorf("Hex = %s", got)
	}
}

func TestClip(t *testing.T) {
	c := DefaultClip()
	tests := []struct {
		v, want float64
	}{
		{-5, 0},
		{0, 0.5},
		{5, 1},
		{-10, 0},
		{10, 1},
	}
	for _, tt := range tests {
		if got := c.Normalize(tt.v); got != tt.want {
			t.Errorf("Normalize(%g) = %g, want %g", tt.v, got, tt.want)
		}
	}
	if !math.IsNaN(c.Normalize(math.NaN())) {
		t.Error("NaN not preserved")
	}
	if got := c.Color(Gray, math.NaN()); got != (color.RGBA{}) {
		t.Errorf("NaN color = %v", got)
	}

	if diff := cmp.Diff(Clip{Min: -10, Max: 10}, c.Scale(2)); diff != "" {
		t.Errorf("Scale(2) (-want +got):\n%s", diff)
	}
	if !c.Scale(0).Valid() {
		t.Error("Scale(0) collapsed the range")
	}
	if (Clip{Min: 1, Max: 1}).Valid() {
		t.Error("empty clip reported valid")
	}
}

func TestAutoClip(t *testing.T) {
	tests := []struct {
		name string
		st   field.Stats
		want Clip
	}{
		{"range", field.Stats{Min: 0.5, Max: 2}, Clip{Min: 0.5, Max: 2}},
		{"flat", field.Stats{Min: 3, Max: 3}, Clip{Min: 2.5, Max: 3.5}},
		{"empty", field.Stats{Min: math.NaN(), Max: math.NaN()}, DefaultClip()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, AutoClip(tt.st)); diff != "" {
				t.Errorf("AutoClip (-want +got):\n%s", diff)
			}
		})
	}
}
