package solver

import "math"

// Transport is a 2D advection-diffusion-reaction model for a passive scalar:
//
//	dc/dt = D*lap(c) - u.grad(c) - k*c + s(x, y)
//
// discretized with central differences for diffusion and first-order upwind
// differences for advection. Boundaries are zero-flux.
type Transport struct {
	name        string
	w, h        int
	diffusivity float64
	ux, uy      float64
	decay       float64
	source      []float64
	initial     []float64
}

// NewPlume returns a continuous Gaussian source a fifth of the way into the
// domain, carried downstream by a uniform wind.
func NewPlume(p Params) (*Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Transport{
		name:        "plume",
		w:           p.Width,
		h:           p.Height,
		diffusivity: p.Diffusivity,
		ux:          p.WindX,
		uy:          p.WindY,
		decay:       p.Decay,
		source:      make([]float64, p.Width*p.Height),
	}
	sigma := math.Max(1, float64(p.Height)/12)
	gaussian(m.source, p.Width, p.Height, float64(p.Width)/5, float64(p.Height-1)/2, sigma, p.Source)
	return m, nil
}

// NewPulse returns a Gaussian pulse centered in the domain spreading by pure
// diffusion. Source sets the initial peak.
func NewPulse(p Params) (*Transport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Transport{
		name:        "pulse",
		w:           p.Width,
		h:           p.Height,
		diffusivity: p.Diffusivity,
		decay:       p.Decay,
		initial:     make([]float64, p.Width*p.Height),
	}
	sigma := math.Max(1, float64(min(p.Width, p.Height))/8)
	gaussian(m.initial, p.Width, p.Height, float64(p.Width-1)/2, float64(p.Height-1)/2, sigma, p.Source)
	return m, nil
}

func gaussian(dst []float64, w, h int, cx, cy, sigma, amp float64) {
	s2 := 2 * sigma * sigma
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			dx, dy := float64(i)-cx, float64(j)-cy
			dst[j*w+i] = amp * math.Exp(-(dx*dx+dy*dy)/s2)
		}
	}
}

func (m *Transport) Name() string     { return m.name }
func (m *Transport) Dims() (int, int) { return m.w, m.h }

func (m *Transport) Init(x []float64) {
	if m.initial == nil {
		clear(x)
		return
	}
	copy(x, m.initial)
}

// MaxDt bounds the explicit step by the combined diffusion and advection
// stability limits on a unit grid.
func (m *Transport) MaxDt() float64 {
	rate := 4*m.diffusivity + math.Abs(m.ux) + math.Abs(m.uy) + m.decay
	if rate == 0 {
		return math.Inf(1)
	}
	return 0.9 / rate
}

// at reads x with edge samples mirrored outward, giving zero-flux walls.
func (m *Transport) at(x []float64, i, j int) float64 {
	i = max(0, min(i, m.w-1))
	j = max(0, min(j, m.h-1))
	return x[j*m.w+i]
}

func (m *Transport) Derive(dst, x []float64, _ float64) {
	for j := 0; j < m.h; j++ {
		for i := 0; i < m.w; i++ {
			k := j*m.w + i
			c := x[k]
			l, r := m.at(x, i-1, j), m.at(x, i+1, j)
			u, d := m.at(x, i, j-1), m.at(x, i, j+1)

			lap := l + r + u + d - 4*c

			var adv float64
			if m.ux >= 0 {
				adv += m.ux * (c - l)
			} else {
				adv += m.ux * (r - c)
			}
			if m.uy >= 0 {
				adv += m.uy * (c - u)
			} else {
				adv += m.uy * (d - c)
			}

			dst[k] = m.diffusivity*lap - adv - m.decay*c
			if m.source != nil {
				dst[k] += m.source[k]
			}
		}
	}
}
