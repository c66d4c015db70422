package field

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr error
	}{
		{"single sample", 1, 1, nil},
		{"wide", 64, 2, nil},
		{"zero width", 0, 4, ErrEmptyGrid},
		{"zero height", 4, 0, ErrEmptyGrid},
		{"negative", -3, 3, ErrEmptyGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.w, tt.h)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if err != nil {
				return
			}
			if g.Len() != tt.w*tt.h {
				t.Errorf("expected %d samples, got %d", tt.w*tt.h, g.Len())
			}
			for _, v := range g.Samples() {
				if v != 0 {
					t.Fatal("new grid should be zero valued")
				}
			}
		})
	}
}

func TestFromValues_SizeMismatch(t *testing.T) {
	_, err := FromValues(3, 2, []float64{1, 2, 3})
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestGridRowMajor(t *testing.T) {
	g, err := FromValues(3, 2, []float64{
		0, 1, 2,
		10, 11, 12,
	})
	if err != nil {
		t.Fatal(err)
	}

	if g.At(2, 0) != 2 {
		t.Errorf("At(2,0) = %f, want 2", g.At(2, 0))
	}
	if g.At(0, 1) != 10 {
		t.Errorf("At(0,1) = %f, want 10", g.At(0, 1))
	}
	if g.Index(1, 1) != 4 {
		t.Errorf("Index(1,1) = %d, want 4", g.Index(1, 1))
	}

	g.Set(1, 1, -5)
	if g.Samples()[4] != -5 {
		t.Error("Set did not write row-major offset")
	}
}

func TestGridAtOutOfRangePanics(t *testing.T) {
	g, _ := New(2, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out of range sample")
		}
	}()
	g.At(2, 0)
}

func TestGridCloneIsIndependent(t *testing.T) {
	g, _ := FromValues(2, 2, []float64{1, 2, 3, 4})
	c := g.Clone()
	c.Set(0, 0, 99)

	if g.At(0, 0) != 1 {
		t.Error("clone shares storage with original")
	}
	if g.Equal(c) {
		t.Error("grids should differ after mutation")
	}
	c.Set(0, 0, 1)
	if !g.Equal(c) {
		t.Error("grids should be equal again")
	}
}

func TestCopySampler(t *testing.T) {
	g, _ := FromValues(2, 3, []float64{1, 2, 3, 4, 5, 6})
	c := Copy(g)
	if !c.Equal(g) {
		t.Error("copy of sampler differs from source")
	}
}

func TestStats(t *testing.T) {
	g, _ := FromValues(2, 2, []float64{1, 2, 3, 4})
	s := g.Stats()

	if s.Min != 1 || s.Max != 4 {
		t.Errorf("expected range [1,4], got [%f,%f]", s.Min, s.Max)
	}
	if s.Mean != 2.5 {
		t.Errorf("expected mean 2.5, got %f", s.Mean)
	}
	if math.Abs(s.StdDev-1.2909944) > 1e-6 {
		t.Errorf("unexpected std dev %f", s.StdDev)
	}
}

func TestStats_SkipsNonFinite(t *testing.T) {
	g, _ := FromValues(2, 2, []float64{1, math.NaN(), 3, math.Inf(1)})
	s := g.Stats()

	if s.Min != 1 || s.Max != 3 || s.Mean != 2 {
		t.Errorf("unexpected stats %+v", s)
	}

	single, _ := FromValues(1, 1, []float64{7})
	if st := single.Stats(); st.StdDev != 0 || st.Mean != 7 {
		t.Errorf("single sample stats %+v", st)
	}
}
