package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/field"
)

var key = coupling.Key{Mesh: "grid", Field: "value"}

func uniform(t *testing.T, v float64) *field.Grid {
	t.Helper()
	g, err := field.New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	g.Fill(v)
	return g
}

func TestMassAndDrift(t *testing.T) {
	mass := NewMass()
	drift := NewMassDrift()

	for _, v := range []float64{1, 1.5, 0.5} {
		g := uniform(t, v)
		mass.Observe(g, 0)
		drift.Observe(g, 0)
	}

	if got := mass.Value(); math.Abs(got-16) > 1e-12 {
		t.Errorf("mass = %g, want 16", got)
	}
	if got := drift.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("drift = %g, want 0.5", got)
	}

	mass.Reset()
	drift.Reset()
	if mass.Value() != 0 || drift.Value() != 0 {
		t.Error("values survive Reset")
	}
}

func TestMassDriftStartsAtFirstNonzeroMass(t *testing.T) {
	drift := NewMassDrift()
	for _, v := range []float64{0, 0, 2, 3, 1} {
		drift.Observe(uniform(t, v), 0)
	}
	if got := drift.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("drift = %g, want 0.5", got)
	}
}

func TestMassIgnoresNaN(t *testing.T) {
	g := uniform(t, 2)
	g.Set(0, 0, math.NaN())
	m := NewMass()
	m.Observe(g, 0)
	if got := m.Value(); got != 30 {
		t.Errorf("mass = %g, want 30", got)
	}
}

func TestCoverage(t *testing.T) {
	g := uniform(t, 0)
	for i := 0; i < 4; i++ {
		g.Set(i, 0, 1)
	}
	c := NewCoverage(1)
	c.Observe(g, 0)
	c.Observe(uniform(t, 1), 0)

	// a quarter of the first grid and all of the second
	if got := c.Value(); math.Abs(got-0.625) > 1e-12 {
		t.Errorf("coverage = %g, want 0.625", got)
	}
}

func TestFieldStatsRingKeepsNewest(t *testing.T) {
	s := NewFieldStats(3)
	for step := 0; step < 5; step++ {
		s.OnStep(step, float64(step), key, uniform(t, float64(step)))
	}

	want := []float64{2, 3, 4}
	if diff := cmp.Diff(want, s.Means(key)); diff != "" {
		t.Errorf("means (-want +got):\n%s", diff)
	}
	latest, ok := s.Latest(key)
	if !ok || latest.Step != 4 || latest.Max != 4 {
		t.Errorf("latest = %+v, %v", latest, ok)
	}

	if h := s.History(coupling.Key{Mesh: "grid", Field: "other"}); h != nil {
		t.Errorf("history of unseen field = %v", h)
	}
	if _, ok := s.Latest(coupling.Key{}); ok {
		t.Error("latest of unseen field reported")
	}
}

func TestFieldStatsHistoryIsCopy(t *testing.T) {
	s := NewFieldStats(4)
	s.OnStep(0, 0, key, uniform(t, 1))
	h := s.History(key)
	h[0].Mean = 99
	if got := s.History(key)[0].Mean; got != 1 {
		t.Errorf("history mutated through copy: %g", got)
	}
}

func TestFieldStatsTrend(t *testing.T) {
	s := NewFieldStats(0)
	if !math.IsNaN(s.Trend(key)) {
		t.Error("trend of empty history is not NaN")
	}
	for step := 0; step < 10; step++ {
		tm := float64(step) * 0.5
		s.OnStep(step, tm, key, uniform(t, 3+2*tm))
	}
	if got := s.Trend(key); math.Abs(got-2) > 1e-9 {
		t.Errorf("trend = %g, want 2", got)
	}
}

func TestFieldStatsSummary(t *testing.T) {
	s := NewFieldStats(8)
	s.Attach(key, NewMass(), NewCoverage(0.5))
	s.OnStep(0, 0, key, uniform(t, 1))

	want := map[string]float64{"mass": 16, "coverage": 1}
	if diff := cmp.Diff(want, s.Summary(key)); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
}

func TestFieldStatsConcurrentUse(t *testing.T) {
	s := NewFieldStats(16)
	g := uniform(t, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for step := 0; step < 1000; step++ {
			s.OnStep(step, float64(step), key, g)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if h := s.History(key); len(h) > 16 {
				t.Errorf("history length %d exceeds capacity", len(h))
				return
			}
		}
	}()
	wg.Wait()

	if n := len(s.History(key)); n != 16 {
		t.Errorf("history length = %d, want 16", n)
	}
}
