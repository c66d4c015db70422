// Package metrics summarizes published fields as the producer steps.
package metrics

import (
	"math"

	"github.com/san-kum/isoflow/internal/field"
)

// Metric folds a sequence of grids into a single number.
type Metric interface {
	Name() string
	Observe(g *field.Grid, t float64)
	Value() float64
	Reset()
}

// integral sums the finite samples of g in grid units.
func integral(g *field.Grid) float64 {
	var sum float64
	for _, v := range g.Samples() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
		}
	}
	return sum
}
