package solver

import (
	"fmt"
	"sort"
)

// DefaultStepper is used when Params.Stepper is empty.
const DefaultStepper = "rk4"

type Registry struct {
	models   map[string]func(Params) (Model, error)
	steppers map[string]func(n int) Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		models:   make(map[string]func(Params) (Model, error)),
		steppers: make(map[string]func(n int) Stepper),
	}

	r.models["plume"] = func(p Params) (Model, error) { return NewPlume(p) }
	r.models["pulse"] = func(p Params) (Model, error) { return NewPulse(p) }
	r.models["saddle"] = func(p Params) (Model, error) { return NewSaddle(p) }

	r.steppers["euler"] = func(n int) Stepper { return NewEuler(n) }
	r.steppers["rk4"] = func(n int) Stepper { return NewRK4(n) }

	return r
}

func (r *Registry) GetModel(name string, p Params) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", name)
	}
	return fn(p)
}

func (r *Registry) GetStepper(name string, n int) (Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(n), nil
}

// NewParticipant builds a Local participant for a named model.
func (r *Registry) NewParticipant(name string, p Params) (*Local, error) {
	m, err := r.GetModel(name, p)
	if err != nil {
		return nil, err
	}
	stepper := p.Stepper
	if stepper == "" {
		stepper = DefaultStepper
	}
	w, h := m.Dims()
	s, err := r.GetStepper(stepper, w*h)
	if err != nil {
		return nil, err
	}
	return NewLocal(m, s, p)
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListSteppers() []string {
	return sortedKeys(r.steppers)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
