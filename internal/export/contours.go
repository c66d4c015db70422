package export

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/isoflow/internal/contour"
)

// Contours draws extracted contour segments on a plot whose y axis points
// up, flipping grid rows of a grid height rows tall.
type Contours struct {
	Levels    []contour.Level
	LineStyle draw.LineStyle
	height    int
}

func NewContours(levels []contour.Level, height int) *Contours {
	style := plotter.DefaultLineStyle
	style.Width = vg.Points(0.75)
	return &Contours{Levels: levels, LineStyle: style, height: height}
}

func (c *Contours) flip(y float64) float64 { return float64(c.height-1) - y }

func (c *Contours) Plot(dc draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&dc)
	for _, l := range c.Levels {
		for _, s := range l.Segments {
			dc.StrokeLine2(c.LineStyle,
				trX(s.A.X), trY(c.flip(s.A.Y)),
				trX(s.B.X), trY(c.flip(s.B.Y)))
		}
	}
}

// DataRange implements plot.DataRanger.
func (c *Contours) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, l := range c.Levels {
		for _, s := range l.Segments {
			for _, pt := range []contour.Point{s.A, s.B} {
				y := c.flip(pt.Y)
				xmin, xmax = math.Min(xmin, pt.X), math.Max(xmax, pt.X)
				ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
			}
		}
	}
	if math.IsInf(xmin, 1) {
		return 0, 0, 0, 0
	}
	return xmin, xmax, ymin, ymax
}

var (
	_ plot.Plotter    = (*Contours)(nil)
	_ plot.DataRanger = (*Contours)(nil)
)
