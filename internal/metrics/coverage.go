package metrics

import "github.com/san-kum/isoflow/internal/field"

// Coverage is the mean fraction of samples at or above an iso-value, the
// share of the domain enclosed by that contour.
type Coverage struct {
	name    string
	iso     float64
	sum     float64
	samples int
}

func NewCoverage(iso float64) *Coverage {
	return &Coverage{name: "coverage", iso: iso}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(g *field.Grid, _ float64) {
	values := g.Samples()
	if len(values) == 0 {
		return
	}
	above := 0
	for _, v := range values {
		if v >= c.iso {
			above++
		}
	}
	c.sum += float64(above) / float64(len(values))
	c.samples++
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.sum = 0
	c.samples = 0
}
