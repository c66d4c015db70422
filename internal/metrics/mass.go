package metrics

import (
	"math"

	"github.com/san-kum/isoflow/internal/field"
)

// Mass is the time-averaged integral of the field.
type Mass struct {
	name    string
	total   float64
	samples int
}

func NewMass() *Mass {
	return &Mass{name: "mass"}
}

func (m *Mass) Name() string { return m.name }

func (m *Mass) Observe(g *field.Grid, _ float64) {
	m.total += integral(g)
	m.samples++
}

func (m *Mass) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Mass) Reset() {
	m.total = 0
	m.samples = 0
}

// MassDrift is the largest relative change of the integral from the first
// nonzero observation. Fields that start empty, such as a plume filling up
// from its source, are measured against the first mass they reach.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (d *MassDrift) Name() string { return d.name }

func (d *MassDrift) Observe(g *field.Grid, _ float64) {
	mass := integral(g)
	if d.initial == 0 {
		d.initial = mass
		return
	}
	drift := math.Abs(mass-d.initial) / math.Abs(d.initial)
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *MassDrift) Value() float64 { return d.maxDrift }

func (d *MassDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
}
