package contour

import "math"

// Point is a position in grid-local coordinates.
type Point struct {
	X, Y float64
}

// Segment is one straight piece of an isoline. Segments are independent;
// no chaining into polylines is done.
type Segment struct {
	A, B Point
}

func (s Segment) Length() float64 {
	return math.Hypot(s.B.X-s.A.X, s.B.Y-s.A.Y)
}

// Scale maps the segment from grid-local to another coordinate frame.
func (s Segment) Scale(sx, sy float64) Segment {
	return Segment{
		A: Point{X: s.A.X * sx, Y: s.A.Y * sy},
		B: Point{X: s.B.X * sx, Y: s.B.Y * sy},
	}
}

// TotalLength sums the segment lengths.
func TotalLength(segs []Segment) float64 {
	total := 0.0
	for _, s := range segs {
		total += s.Length()
	}
	return total
}

// Level is the isoline for a single iso-value.
type Level struct {
	Value    float64
	Segments []Segment
}

// Count returns the total number of segments across levels.
func Count(levels []Level) int {
	n := 0
	for _, l := range levels {
		n += len(l.Segments)
	}
	return n
}
