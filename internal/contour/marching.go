package contour

import (
	"math"

	"github.com/san-kum/isoflow/internal/field"
)

// cell is the unit square whose upper-left node is (i, j).
type cell struct {
	i, j           int
	ul, ur, ll, lr float64
}

func (c cell) finite() bool {
	for _, v := range [4]float64{c.ul, c.ur, c.ll, c.lr} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (c cell) classify(iso float64) uint8 {
	var sig uint8
	if c.ul >= iso {
		sig |= bitUL
	}
	if c.ur >= iso {
		sig |= bitUR
	}
	if c.ll >= iso {
		sig |= bitLL
	}
	if c.lr >= iso {
		sig |= bitLR
	}
	return sig
}

// center is the bilinear value at (0.5, 0.5), the mean of the corners.
func (c cell) center() float64 {
	return 0.25 * (c.ul + c.ur + c.ll + c.lr)
}

// crossing returns where iso crosses edge e in grid-local coordinates.
func (c cell) crossing(e edge, iso float64) Point {
	x, y := float64(c.i), float64(c.j)
	switch e {
	case edgeTop:
		return Point{X: x + fraction(c.ul, c.ur, iso), Y: y}
	case edgeBottom:
		return Point{X: x + fraction(c.ll, c.lr, iso), Y: y + 1}
	case edgeLeft:
		return Point{X: x, Y: y + fraction(c.ul, c.ll, iso)}
	default:
		return Point{X: x + 1, Y: y + fraction(c.ur, c.lr, iso)}
	}
}

// fraction is the linear interpolation parameter of iso between a and b.
// A node sitting exactly on iso snaps the crossing onto that node.
func fraction(a, b, iso float64) float64 {
	if a == iso {
		return 0
	}
	if b == iso {
		return 1
	}
	t := (iso - a) / (b - a)
	switch {
	case t < 0 || math.IsNaN(t):
		return 0
	case t > 1:
		return 1
	}
	return t
}

func (c cell) appendSegments(dst []Segment, iso float64) []Segment {
	sig := c.classify(iso)
	pairs := cases[sig]
	if sig == saddleURLL || sig == saddleULLR {
		pairs = saddle(sig, c.center() >= iso)
	}
	for _, p := range pairs {
		dst = append(dst, Segment{A: c.crossing(p[0], iso), B: c.crossing(p[1], iso)})
	}
	return dst
}

// Extract runs marching squares over every cell of g and returns the
// segments of the isoline at iso in grid-local coordinates: a point (x, y)
// lies x columns and y rows from sample (0, 0). Cells with a non-finite
// corner emit nothing. The result is deterministic for a given input.
func Extract(g field.Sampler, iso float64) []Segment {
	w, h := g.Dims()
	if w < 2 || h < 2 || math.IsNaN(iso) {
		return nil
	}

	var segs []Segment
	upper := make([]float64, w)
	lower := make([]float64, w)
	for i := 0; i < w; i++ {
		upper[i] = g.At(i, 0)
	}
	for j := 0; j < h-1; j++ {
		for i := 0; i < w; i++ {
			lower[i] = g.At(i, j+1)
		}
		for i := 0; i < w-1; i++ {
			c := cell{i: i, j: j, ul: upper[i], ur: upper[i+1], ll: lower[i], lr: lower[i+1]}
			if !c.finite() {
				continue
			}
			segs = c.appendSegments(segs, iso)
		}
		upper, lower = lower, upper
	}
	return segs
}
