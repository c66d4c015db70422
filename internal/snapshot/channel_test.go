package snapshot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/san-kum/isoflow/internal/field"
)

func TestNew_RejectsEmptyGrid(t *testing.T) {
	if _, err := New(0, 3); !errors.Is(err, field.ErrEmptyGrid) {
		t.Fatalf("expected ErrEmptyGrid, got %v", err)
	}
}

func TestZeroSnapshotBeforeFirstWrite(t *testing.T) {
	c, err := New(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	snap := c.Snapshot()
	if snap.Version != 0 {
		t.Errorf("expected version 0, got %d", snap.Version)
	}
	w, h := snap.Grid.Dims()
	if w != 4 || h != 3 {
		t.Errorf("expected 4x3, got %dx%d", w, h)
	}
	for _, v := range snap.Grid.Samples() {
		if v != 0 {
			t.Fatal("unwritten channel should read as zeros")
		}
	}
}

func TestWriteIncrementsVersion(t *testing.T) {
	c, _ := New(2, 2)

	c.Write(func(h *WriteHandle) {
		h.Set(1, 0, 5)
		h.SetTime(0.25)
	})
	if c.Version() != 1 {
		t.Fatalf("expected version 1, got %d", c.Version())
	}

	if err := c.Publish([]float64{1, 2, 3, 4}, 0.5); err != nil {
		t.Fatal(err)
	}
	if c.Version() != 2 {
		t.Fatalf("expected version 2, got %d", c.Version())
	}

	c.Read(func(h *ReadHandle) {
		if h.At(1, 1) != 4 {
			t.Errorf("expected 4 at (1,1), got %f", h.At(1, 1))
		}
		if h.Time() != 0.5 {
			t.Errorf("expected time 0.5, got %f", h.Time())
		}
		if h.Version() != 2 {
			t.Errorf("expected handle version 2, got %d", h.Version())
		}
	})
}

func TestPublishSizeMismatch(t *testing.T) {
	c, _ := New(2, 2)
	if err := c.Publish([]float64{1, 2, 3}, 0); !errors.Is(err, field.ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if c.Version() != 0 {
		t.Error("failed publish must not bump version")
	}

	h := c.AcquireWrite()
	if err := h.CopyFrom([]float64{1}); !errors.Is(err, field.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch from handle, got %v", err)
	}
	h.Release()
}

func TestSnapshotIsACopy(t *testing.T) {
	c, _ := New(2, 1)
	_ = c.Publish([]float64{1, 2}, 0)

	snap := c.Snapshot()
	_ = c.Publish([]float64{7, 8}, 1)

	if snap.Grid.At(0, 0) != 1 {
		t.Error("snapshot changed after a later write")
	}

	dst, _ := field.New(2, 1)
	version, tm, err := c.SnapshotInto(dst)
	if err != nil {
		t.Fatal(err)
	}
	if version != 2 || tm != 1 || dst.At(1, 0) != 8 {
		t.Errorf("unexpected SnapshotInto result: v=%d t=%f grid=%v", version, tm, dst.Samples())
	}

	small, _ := field.New(1, 1)
	if _, _, err := c.SnapshotInto(small); !errors.Is(err, field.ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestReadersDoNotBlockEachOther(t *testing.T) {
	c, _ := New(2, 2)

	first := c.AcquireRead()
	done := make(chan struct{})
	go func() {
		second := c.AcquireRead()
		second.Release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second reader blocked behind first")
	}
	first.Release()
}

func TestWriterWaitsForReader(t *testing.T) {
	c, _ := New(2, 2)

	r := c.AcquireRead()
	written := make(chan struct{})
	go func() {
		_ = c.Publish([]float64{1, 1, 1, 1}, 0)
		close(written)
	}()

	select {
	case <-written:
		t.Fatal("writer ran while a read was in progress")
	case <-time.After(20 * time.Millisecond):
	}
	if r.At(0, 0) != 0 {
		t.Error("borrowed snapshot changed under reader")
	}
	r.Release()

	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("writer never acquired after reader released")
	}
}

func TestReleasedHandlePanics(t *testing.T) {
	c, _ := New(1, 1)

	r := c.AcquireRead()
	r.Release()
	assertPanics(t, "read after release", func() { r.At(0, 0) })
	assertPanics(t, "double read release", r.Release)

	w := c.AcquireWrite()
	w.Release()
	assertPanics(t, "write after release", func() { w.Fill(1) })
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

// Every write fills the grid with its own sequence number, so a reader must
// always see a uniform grid whose value equals the snapshot version.
func TestConcurrentNoTornReads(t *testing.T) {
	const (
		writes  = 2000
		readers = 8
	)

	c, _ := New(32, 24)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, readers)

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]float64, 32*24)
			var last uint64
			for {
				select {
				case <-stop:
					return
				default:
				}
				var version uint64
				c.Read(func(h *ReadHandle) {
					h.CopyTo(buf)
					version = h.Version()
				})
				if version < last {
					errs <- "version went backwards"
					return
				}
				last = version
				for _, v := range buf {
					if v != float64(version) {
						errs <- "torn read: sample does not match version"
						return
					}
				}
			}
		}()
	}

	staging := make([]float64, 32*24)
	for k := 1; k <= writes; k++ {
		if k%2 == 0 {
			c.Write(func(h *WriteHandle) { h.Fill(float64(k)) })
			continue
		}
		for i := range staging {
			staging[i] = float64(k)
		}
		if err := c.Publish(staging, float64(k)); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
	if c.Version() != writes {
		t.Errorf("expected version %d, got %d", writes, c.Version())
	}
}
