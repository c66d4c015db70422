package metrics

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/field"
)

// DefaultHistory is the number of samples kept per field.
const DefaultHistory = 512

// Sample is the summary of one published step.
type Sample struct {
	Step int
	Time float64
	field.Stats
}

type ring struct {
	buf  []Sample
	head int
	n    int
}

func (r *ring) push(s Sample) {
	r.buf[r.head] = s
	r.head = (r.head + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

func (r *ring) slice() []Sample {
	out := make([]Sample, 0, r.n)
	start := (r.head - r.n + len(r.buf)) % len(r.buf)
	for k := 0; k < r.n; k++ {
		out = append(out, r.buf[(start+k)%len(r.buf)])
	}
	return out
}

// FieldStats is a coupling observer keeping a bounded history of summary
// statistics per field, plus any metrics attached to a field. It is fed on
// the producer goroutine and read from the viewer, so every method locks.
type FieldStats struct {
	mu       sync.Mutex
	capacity int
	history  map[coupling.Key]*ring
	metrics  map[coupling.Key][]Metric
}

// NewFieldStats keeps up to capacity samples per field. capacity < 1 uses
// DefaultHistory.
func NewFieldStats(capacity int) *FieldStats {
	if capacity < 1 {
		capacity = DefaultHistory
	}
	return &FieldStats{
		capacity: capacity,
		history:  make(map[coupling.Key]*ring),
		metrics:  make(map[coupling.Key][]Metric),
	}
}

// Attach registers metrics observed on every step of key.
func (s *FieldStats) Attach(key coupling.Key, ms ...Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[key] = append(s.metrics[key], ms...)
}

func (s *FieldStats) OnStep(step int, t float64, key coupling.Key, g *field.Grid) {
	sample := Sample{Step: step, Time: t, Stats: g.Stats()}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.history[key]
	if !ok {
		r = &ring{buf: make([]Sample, s.capacity)}
		s.history[key] = r
	}
	r.push(sample)
	for _, m := range s.metrics[key] {
		m.Observe(g, t)
	}
}

// History returns the retained samples of key, oldest first.
func (s *FieldStats) History(key coupling.Key) []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.history[key]
	if !ok {
		return nil
	}
	return r.slice()
}

// Means returns the mean of every retained sample of key, oldest first.
func (s *FieldStats) Means(key coupling.Key) []float64 {
	h := s.History(key)
	out := make([]float64, len(h))
	for i, smp := range h {
		out[i] = smp.Mean
	}
	return out
}

func (s *FieldStats) Latest(key coupling.Key) (Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.history[key]
	if !ok || r.n == 0 {
		return Sample{}, false
	}
	return r.buf[(r.head-1+len(r.buf))%len(r.buf)], true
}

// Trend is the least-squares slope of the field mean over simulated time
// across the retained history. It is NaN with fewer than two usable samples.
func (s *FieldStats) Trend(key coupling.Key) float64 {
	var xs, ys []float64
	for _, smp := range s.History(key) {
		if math.IsNaN(smp.Mean) {
			continue
		}
		xs = append(xs, smp.Time)
		ys = append(ys, smp.Mean)
	}
	if len(xs) < 2 || xs[0] == xs[len(xs)-1] {
		return math.NaN()
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// Summary returns the current value of every metric attached to key.
func (s *FieldStats) Summary(key coupling.Key) map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics[key]))
	for _, m := range s.metrics[key] {
		out[m.Name()] = m.Value()
	}
	return out
}

var _ coupling.Observer = (*FieldStats)(nil)
