// Package solver provides in-process stand-ins for an external coupling
// participant: small scalar-field models on a structured grid, explicit time
// steppers, and a [Local] participant that exposes a model to the coupling
// adapter.
//
// States are flat row-major slices, sample (i, j) at index j*width+i, in grid
// units (one cell = one length unit).
package solver

import (
	"errors"
	"fmt"
	"math"
)

// System is a semi-discretized PDE: Derive writes dx/dt at time t into dst.
type System interface {
	Derive(dst, x []float64, t float64)
}

// Model is a System that knows its grid and initial condition.
type Model interface {
	System
	Name() string
	Dims() (width, height int)
	// Init writes the state at t = 0 into x.
	Init(x []float64)
	// MaxDt is the largest explicit step the model is stable with.
	MaxDt() float64
}

// Analytic models can evaluate their exact state at any time.
type Analytic interface {
	Eval(dst []float64, t float64)
}

var (
	ErrGridTooSmall = errors.New("solver: grid must be at least 2x2")
	ErrBadParam     = errors.New("solver: invalid parameter")
)

// Params configures a model and its participant.
type Params struct {
	Width       int
	Height      int
	Dt          float64 // coupling step length
	Duration    float64 // simulated end time; 0 runs forever
	Diffusivity float64
	WindX       float64
	WindY       float64
	Source      float64 // source strength, or pulse peak
	Decay       float64
	Stepper     string
}

// DefaultParams returns the parameters of the built-in plume.
func DefaultParams() Params {
	return Params{
		Width:       64,
		Height:      32,
		Dt:          0.1,
		Diffusivity: 0.2,
		WindX:       0.6,
		WindY:       0.1,
		Source:      4,
		Decay:       0.05,
		Stepper:     DefaultStepper,
	}
}

func (p Params) Validate() error {
	if p.Width < 2 || p.Height < 2 {
		return fmt.Errorf("%w: %dx%d", ErrGridTooSmall, p.Width, p.Height)
	}
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"dt", p.Dt, p.Dt > 0},
		{"duration", p.Duration, p.Duration >= 0},
		{"diffusivity", p.Diffusivity, p.Diffusivity >= 0},
		{"decay", p.Decay, p.Decay >= 0},
		{"wind_x", p.WindX, true},
		{"wind_y", p.WindY, true},
		{"source", p.Source, true},
	}
	for _, c := range checks {
		if !c.ok || math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s = %g", ErrBadParam, c.name, c.v)
		}
	}
	return nil
}
