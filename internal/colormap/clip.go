package colormap

import (
	"image/color"
	"math"

	"github.com/san-kum/isoflow/internal/field"
)

// Clip is the value range mapped onto a colormap.
type Clip struct {
	Min, Max float64
}

// DefaultClip is the fixed range used when no range is configured.
func DefaultClip() Clip { return Clip{Min: -5, Max: 5} }

// AutoClip spans the finite range of a frame. A flat frame gets a unit
// wide range around its value.
func AutoClip(st field.Stats) Clip {
	if math.IsNaN(st.Min) || math.IsNaN(st.Max) {
		return DefaultClip()
	}
	if st.Max-st.Min < 1e-12 {
		return Clip{Min: st.Min - 0.5, Max: st.Max + 0.5}
	}
	return Clip{Min: st.Min, Max: st.Max}
}

func (c Clip) Valid() bool {
	return !math.IsNaN(c.Min) && !math.IsNaN(c.Max) &&
		!math.IsInf(c.Min, 0) && !math.IsInf(c.Max, 0) && c.Max > c.Min
}

// Normalize maps v into [0, 1]. NaN stays NaN.
func (c Clip) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(0, math.Min(1, (v-c.Min)/(c.Max-c.Min)))
}

// Scale grows (factor > 1) or shrinks the range about its center.
func (c Clip) Scale(factor float64) Clip {
	mid := (c.Min + c.Max) / 2
	half := (c.Max - c.Min) / 2 * factor
	if half < 1e-9 {
		half = 1e-9
	}
	return Clip{Min: mid - half, Max: mid + half}
}

// Color maps v through m. Missing values are transparent.
func (c Clip) Color(m Map, v float64) color.RGBA {
	if math.IsNaN(v) {
		return color.RGBA{}
	}
	return m.At(c.Normalize(v))
}
