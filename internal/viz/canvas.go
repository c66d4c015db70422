package viz

import (
	"math"
	"strings"

	"github.com/san-kum/isoflow/internal/contour"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dots: a canvas of Width x
// Height cells is 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// Cell returns the glyph at a cell and whether any of its dots are set.
func (c *Canvas) Cell(col, row int) (rune, bool) {
	r := c.cells[row*c.Width+col]
	return r, r != brailleBlank
}

// DrawLine draws a line between two dots with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawSegments rasterizes contour segments of a gridW x gridH field,
// stretching the field over the whole canvas.
func (c *Canvas) DrawSegments(segs []contour.Segment, gridW, gridH int) {
	sx := float64(2*c.Width-1) / float64(max(gridW-1, 1))
	sy := float64(4*c.Height-1) / float64(max(gridH-1, 1))
	for _, s := range segs {
		s = s.Scale(sx, sy)
		c.DrawLine(
			int(math.Round(s.A.X)), int(math.Round(s.A.Y)),
			int(math.Round(s.B.X)), int(math.Round(s.B.Y)))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
