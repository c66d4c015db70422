// Package colormap maps normalized scalar values to colors for the terminal
// heat map and for exported images.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// Map returns the color for t in [0, 1]. Values outside are clamped.
type Map interface {
	Name() string
	At(t float64) color.RGBA
}

// stops is a piecewise-linear map through evenly spaced colors.
type stops struct {
	name   string
	colors []color.RGBA
}

func (s stops) Name() string { return s.name }

func (s stops) At(t float64) color.RGBA {
	t = clamp01(t)
	pos := t * float64(len(s.colors)-1)
	i := int(pos)
	if i >= len(s.colors)-1 {
		return s.colors[len(s.colors)-1]
	}
	return lerp(s.colors[i], s.colors[i+1], pos-float64(i))
}

// Viridis is the perceptually uniform matplotlib default, sampled at nine
// stops.
var Viridis Map = stops{name: "viridis", colors: []color.RGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x47, 0x2d, 0x7b, 0xff},
	{0x3b, 0x52, 0x8b, 0xff},
	{0x2c, 0x72, 0x8e, 0xff},
	{0x21, 0x91, 0x8c, 0xff},
	{0x28, 0xae, 0x80, 0xff},
	{0x5e, 0xc9, 0x62, 0xff},
	{0xad, 0xdc, 0x30, 0xff},
	{0xfd, 0xe7, 0x25, 0xff},
}}

var Gray Map = stops{name: "gray", colors: []color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}}

// Heat is Moreland's black body map.
var Heat Map = newContinuous("heat", moreland.BlackBody())

// CoolWarm is Moreland's smooth blue-red diverging map, suited to fields
// centered on zero.
var CoolWarm Map = newContinuous("coolwarm", moreland.SmoothBlueRed())

// continuous adapts a gonum palette.ColorMap ranged over [0, 1].
type continuous struct {
	name string
	cm   palette.ColorMap
}

func newContinuous(name string, cm palette.ColorMap) continuous {
	cm.SetMax(1)
	cm.SetMin(0)
	return continuous{name: name, cm: cm}
}

func (c continuous) Name() string { return c.name }

func (c continuous) At(t float64) color.RGBA {
	col, err := c.cm.At(clamp01(t))
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBAModel.Convert(col).(color.RGBA)
}

var maps = map[string]Map{
	Viridis.Name():  Viridis,
	Heat.Name():     Heat,
	Gray.Name():     Gray,
	CoolWarm.Name(): CoolWarm,
}

// Lookup returns the map registered under name.
func Lookup(name string) (Map, error) {
	m, ok := maps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s", name)
	}
	return m, nil
}

// Names lists the registered maps in a stable order.
func Names() []string {
	names := make([]string, 0, len(maps))
	for name := range maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the map after m in Names order, wrapping around.
func Next(m Map) Map {
	names := Names()
	for i, name := range names {
		if name == m.Name() {
			return maps[names[(i+1)%len(names)]]
		}
	}
	return maps[names[0]]
}

// Palette samples m at n evenly spaced points for gonum/plot.
func Palette(m Map, n int) palette.Palette {
	n = max(n, 2)
	colors := make([]color.Color, n)
	for i := range colors {
		colors[i] = m.At(float64(i) / float64(n-1))
	}
	return sampled(colors)
}

type sampled []color.Color

func (s sampled) Colors() []color.Color { return s }

// Hex formats c as #rrggbb for lipgloss.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

func lerp(a, b color.RGBA, f float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + f*(float64(y)-float64(x))))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
