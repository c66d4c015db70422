package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/frame"
)

// Heatmap draws a frame as terminal cells: the background of each cell is
// the colormapped field value at the cell center, and contour segments are
// overlaid as braille glyphs.
type Heatmap struct {
	Cols, Rows int
	Map        colormap.Map
	Clip       colormap.Clip
	Contours   bool
	LineColor  lipgloss.Color
	canvas     *Canvas
}

func NewHeatmap(cols, rows int) *Heatmap {
	return &Heatmap{
		Cols:      cols,
		Rows:      rows,
		Map:       colormap.Viridis,
		Clip:      colormap.DefaultClip(),
		Contours:  true,
		LineColor: lipgloss.Color("#ffffff"),
	}
}

// Resize sets the cell grid size, at least 2x2.
func (h *Heatmap) Resize(cols, rows int) {
	h.Cols, h.Rows = max(cols, 2), max(rows, 2)
}

func (h *Heatmap) Render(f frame.Frame) string {
	if f.Grid == nil || h.Cols < 1 || h.Rows < 1 {
		return ""
	}
	if h.canvas == nil || h.canvas.Width != h.Cols || h.canvas.Height != h.Rows {
		h.canvas = NewCanvas(h.Cols, h.Rows)
	}
	h.canvas.Clear()

	w, gh := f.Grid.Dims()
	if h.Contours {
		for _, l := range f.Levels {
			h.canvas.DrawSegments(l.Segments, w, gh)
		}
	}

	// dot (px, py) maps to grid (px*(w-1)/(2*cols-1), ...); a cell center
	// sits half a dot right of its first column and 1.5 dots below its top
	sx := float64(w-1) / float64(max(2*h.Cols-1, 1))
	sy := float64(gh-1) / float64(max(4*h.Rows-1, 1))

	line := lipgloss.NewStyle().Foreground(h.LineColor)
	var b strings.Builder
	for row := 0; row < h.Rows; row++ {
		for col := 0; col < h.Cols; col++ {
			v := bilinear(f.Grid, (float64(2*col)+0.5)*sx, (float64(4*row)+1.5)*sy)
			bg := lipgloss.Color(colormap.Hex(h.Clip.Color(h.Map, v)))
			glyph, ok := h.canvas.Cell(col, row)
			if !ok {
				glyph = ' '
			}
			b.WriteString(line.Background(bg).Render(string(glyph)))
		}
		if row < h.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// bilinear interpolates g at fractional grid coordinates.
func bilinear(g *field.Grid, x, y float64) float64 {
	w, h := g.Dims()
	if w < 2 || h < 2 {
		return g.At(min(int(math.Max(x, 0)), w-1), min(int(math.Max(y, 0)), h-1))
	}
	x = math.Max(0, math.Min(x, float64(w-1)))
	y = math.Max(0, math.Min(y, float64(h-1)))
	i, j := min(int(x), w-2), min(int(y), h-2)
	fx, fy := x-float64(i), y-float64(j)

	top := g.At(i, j)*(1-fx) + g.At(i+1, j)*fx
	bottom := g.At(i, j+1)*(1-fx) + g.At(i+1, j+1)*fx
	return top*(1-fy) + bottom*fy
}
