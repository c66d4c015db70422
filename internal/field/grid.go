package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sampler is a read-only view of a 2D scalar field.
type Sampler interface {
	Dims() (width, height int)
	At(i, j int) float64
}

// Grid is a width x height block of samples stored row-major.
type Grid struct {
	width, height int
	values        []float64
}

// New returns a zero-valued grid.
func New(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	return &Grid{width: width, height: height, values: make([]float64, width*height)}, nil
}

// FromValues returns a grid holding a copy of values.
func FromValues(width, height int, values []float64) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if err := g.CopyFrom(values); err != nil {
		return nil, err
	}
	return g, nil
}

// Copy materializes any sampler into a new grid.
func Copy(s Sampler) *Grid {
	w, h := s.Dims()
	g := &Grid{width: w, height: h, values: make([]float64, w*h)}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			g.values[j*w+i] = s.At(i, j)
		}
	}
	return g
}

func (g *Grid) Dims() (int, int) { return g.width, g.height }
func (g *Grid) Width() int       { return g.width }
func (g *Grid) Height() int      { return g.height }
func (g *Grid) Len() int         { return len(g.values) }

// Index returns the flat offset of sample (i, j).
func (g *Grid) Index(i, j int) int { return j*g.width + i }

// InBounds reports whether (i, j) addresses a sample.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < g.width && j < g.height
}

// At returns sample (i, j). It panics when (i, j) is out of range.
func (g *Grid) At(i, j int) float64 {
	if !g.InBounds(i, j) {
		panic(fmt.Sprintf("field: sample (%d,%d) outside %dx%d grid", i, j, g.width, g.height))
	}
	return g.values[j*g.width+i]
}

// Set stores v at (i, j). It panics when (i, j) is out of range.
func (g *Grid) Set(i, j int, v float64) {
	if !g.InBounds(i, j) {
		panic(fmt.Sprintf("field: sample (%d,%d) outside %dx%d grid", i, j, g.width, g.height))
	}
	g.values[j*g.width+i] = v
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float64) {
	for i := range g.values {
		g.values[i] = v
	}
}

// CopyFrom overwrites all samples with src.
func (g *Grid) CopyFrom(src []float64) error {
	if len(src) != len(g.values) {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(src), len(g.values))
	}
	copy(g.values, src)
	return nil
}

// CopyTo copies the samples into dst and returns the number copied.
func (g *Grid) CopyTo(dst []float64) int {
	return copy(dst, g.values)
}

// Samples returns the backing slice. Writes through it mutate the grid.
func (g *Grid) Samples() []float64 { return g.values }

// Values returns a copy of the samples.
func (g *Grid) Values() []float64 {
	out := make([]float64, len(g.values))
	copy(out, g.values)
	return out
}

func (g *Grid) Clone() *Grid {
	return &Grid{width: g.width, height: g.height, values: g.Values()}
}

// Equal reports whether both grids have the same dimensions and samples.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	return floats.Equal(g.values, o.values)
}

// Stats summarizes the sample distribution of a grid.
type Stats struct {
	Min, Max     float64
	Mean, StdDev float64
}

// Stats computes summary statistics over the finite samples. A grid with no
// finite samples reports NaN everywhere.
func (g *Grid) Stats() Stats {
	finite := g.values
	for _, v := range g.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			finite = finiteOnly(g.values)
			break
		}
	}
	if len(finite) == 0 {
		nan := math.NaN()
		return Stats{Min: nan, Max: nan, Mean: nan, StdDev: nan}
	}
	mean, std := stat.MeanStdDev(finite, nil)
	if len(finite) == 1 {
		std = 0
	}
	return Stats{
		Min:    floats.Min(finite),
		Max:    floats.Max(finite),
		Mean:   mean,
		StdDev: std,
	}
}

func finiteOnly(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
