package field

import (
	"fmt"
	"math"
)

// MaxLevels bounds the number of iso-values a single sweep may produce.
const MaxLevels = 1024

// Sweep describes iso-values Min, Min+Step, ... strictly below Max.
type Sweep struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Validate reports why a sweep cannot produce levels.
func (s Sweep) Validate() error {
	for _, v := range []float64{s.Min, s.Max, s.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: sweep [%g, %g) step %g", ErrNonFinite, s.Min, s.Max, s.Step)
		}
	}
	if s.Step <= 0 {
		return fmt.Errorf("%w: %g", ErrNonPositiveStep, s.Step)
	}
	if s.Max <= s.Min {
		return fmt.Errorf("%w: [%g, %g)", ErrEmptySweep, s.Min, s.Max)
	}
	if n := s.count(); n > MaxLevels {
		return fmt.Errorf("%w: %d > %d", ErrTooManyLevels, n, MaxLevels)
	}
	return nil
}

func (s Sweep) count() int {
	n := 0
	for s.level(n) < s.Max {
		n++
		if n > MaxLevels {
			break
		}
	}
	return n
}

// level computes the k-th value directly so rounding does not accumulate.
func (s Sweep) level(k int) float64 {
	return s.Min + float64(k)*s.Step
}

// Levels returns the iso-values of a valid sweep in ascending order. It
// returns nil for an invalid sweep.
func (s Sweep) Levels() []float64 {
	if s.Validate() != nil {
		return nil
	}
	n := s.count()
	out := make([]float64, n)
	for k := range out {
		out[k] = s.level(k)
	}
	return out
}

// Levels validates an explicit list of iso-values and returns a copy.
func Levels(values ...float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptySweep
	}
	if len(values) > MaxLevels {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyLevels, len(values), MaxLevels)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %g", ErrNonFinite, v)
		}
		out[i] = v
	}
	return out, nil
}
