package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/isoflow/internal/coupling"
)

const (
	// MeshName is the single mesh a Local participant exposes.
	MeshName = "grid"
	// FieldValue is the model state.
	FieldValue = "value"
	// FieldGradient is the magnitude of the state gradient.
	FieldGradient = "gradient"
)

var (
	ErrUnknownMesh  = errors.New("solver: unknown mesh")
	ErrUnknownField = errors.New("solver: unknown field")
	ErrFinalized    = errors.New("solver: participant finalized")
	ErrDiverged     = errors.New("solver: state diverged")
)

// Local exposes a Model as a coupling participant. Each Advance integrates
// the model over the coupling step, splitting it into stable substeps.
type Local struct {
	model     Model
	stepper   Stepper
	state     []float64
	w, h      int
	t         float64
	dt        float64
	duration  float64
	finalized bool
}

// NewLocal seeds the model's initial condition.
func NewLocal(m Model, s Stepper, p Params) (*Local, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w, h := m.Dims()
	l := &Local{
		model:    m,
		stepper:  s,
		state:    make([]float64, w*h),
		w:        w,
		h:        h,
		dt:       p.Dt,
		duration: p.Duration,
	}
	m.Init(l.state)
	return l, nil
}

func (l *Local) Model() Model  { return l.model }
func (l *Local) Time() float64 { return l.t }

func (l *Local) Meshes() []coupling.MeshInfo {
	return []coupling.MeshInfo{{
		Name:   MeshName,
		Width:  l.w,
		Height: l.h,
		Fields: []string{FieldValue, FieldGradient},
	}}
}

func (l *Local) IsCouplingOngoing() bool {
	if l.finalized {
		return false
	}
	// half a step of slack absorbs rounding in the accumulated time
	return l.duration == 0 || l.t < l.duration-l.dt/2
}

func (l *Local) ReadBlockScalarData(mesh, name string, vertexIDs []int, dst []float64) error {
	if l.finalized {
		return ErrFinalized
	}
	if mesh != MeshName {
		return fmt.Errorf("%w: %q", ErrUnknownMesh, mesh)
	}
	if len(dst) < len(vertexIDs) {
		return fmt.Errorf("solver: destination holds %d values, need %d", len(dst), len(vertexIDs))
	}
	switch name {
	case FieldValue:
		for k, id := range vertexIDs {
			dst[k] = l.state[id]
		}
	case FieldGradient:
		for k, id := range vertexIDs {
			dst[k] = l.gradient(id%l.w, id/l.w)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// gradient uses central differences inside and one-sided ones at the walls.
func (l *Local) gradient(i, j int) float64 {
	at := func(i, j int) float64 { return l.state[j*l.w+i] }
	i0, i1 := max(i-1, 0), min(i+1, l.w-1)
	j0, j1 := max(j-1, 0), min(j+1, l.h-1)
	gx := (at(i1, j) - at(i0, j)) / float64(i1-i0)
	gy := (at(i, j1) - at(i, j0)) / float64(j1-j0)
	return math.Hypot(gx, gy)
}

// Advance integrates over dt and returns the configured coupling step.
func (l *Local) Advance(dt float64) (float64, error) {
	if l.finalized {
		return 0, ErrFinalized
	}
	if dt <= 0 {
		return 0, fmt.Errorf("%w: dt = %g", ErrBadParam, dt)
	}

	end := l.t + dt
	if a, ok := l.model.(Analytic); ok {
		a.Eval(l.state, end)
	} else {
		n := int(math.Ceil(dt / l.model.MaxDt()))
		n = max(n, 1)
		h := dt / float64(n)
		for s := 0; s < n; s++ {
			l.stepper.Step(l.model, l.state, l.t+float64(s)*h, h)
		}
	}
	l.t = end

	for _, v := range l.state {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w at t=%g", ErrDiverged, l.t)
		}
	}
	return l.dt, nil
}

func (l *Local) Finalize() error {
	l.finalized = true
	return nil
}

var _ coupling.Participant = (*Local)(nil)
