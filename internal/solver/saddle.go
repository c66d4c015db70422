package solver

import "math"

// Saddle is a rotating egg-crate field cos(a)*cos(b) whose zero level set is
// made almost entirely of saddle cells:
//
//	a = k*(x*cos(wt) - y*sin(wt))
//	b = k*(x*sin(wt) + y*cos(wt))
//
// with x, y measured from the grid center.
type Saddle struct {
	w, h   int
	k      float64
	omega  float64
	amp    float64
	cx, cy float64
}

// NewSaddle builds a field with two periods across the grid width. WindX
// sets the angular velocity and Source the amplitude.
func NewSaddle(p Params) (*Saddle, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	amp := p.Source
	if amp == 0 {
		amp = 1
	}
	return &Saddle{
		w:     p.Width,
		h:     p.Height,
		k:     2 * math.Pi * 2 / float64(p.Width-1),
		omega: p.WindX,
		amp:   amp,
		cx:    float64(p.Width-1) / 2,
		cy:    float64(p.Height-1) / 2,
	}, nil
}

func (s *Saddle) Name() string     { return "saddle" }
func (s *Saddle) Dims() (int, int) { return s.w, s.h }
func (s *Saddle) Init(x []float64) { s.Eval(x, 0) }

// MaxDt keeps the rotation under a tenth of a radian per step.
func (s *Saddle) MaxDt() float64 {
	if s.omega == 0 {
		return math.Inf(1)
	}
	return 0.1 / math.Abs(s.omega)
}

func (s *Saddle) phases(i, j int, t float64) (a, b float64) {
	x, y := float64(i)-s.cx, float64(j)-s.cy
	sin, cos := math.Sincos(s.omega * t)
	return s.k * (x*cos - y*sin), s.k * (x*sin + y*cos)
}

func (s *Saddle) Eval(dst []float64, t float64) {
	for j := 0; j < s.h; j++ {
		for i := 0; i < s.w; i++ {
			a, b := s.phases(i, j, t)
			dst[j*s.w+i] = s.amp * math.Cos(a) * math.Cos(b)
		}
	}
}

// Derive is the exact time derivative of Eval. The state argument is unused
// because the field is prescribed.
func (s *Saddle) Derive(dst, _ []float64, t float64) {
	for j := 0; j < s.h; j++ {
		for i := 0; i < s.w; i++ {
			a, b := s.phases(i, j, t)
			// da/dt = -w*b, db/dt = w*a
			dst[j*s.w+i] = s.amp * s.omega * (b*math.Sin(a)*math.Cos(b) - a*math.Cos(a)*math.Sin(b))
		}
	}
}
