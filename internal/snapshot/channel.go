// Package snapshot hands a grid from one producer goroutine to any number of
// readers without tearing.
//
// A [Channel] owns the live buffer and never exposes it. Writers get a
// [WriteHandle] with exclusive access for the duration of one copy; readers
// get a [ReadHandle] that borrows the current snapshot until Release. Readers
// never block each other. Intermediate writes may be skipped by a slow
// reader: the latest completed write always wins.
//
// Before the first write every reader observes a zero-valued grid at
// version 0.
package snapshot

import (
	"sync"
	"sync/atomic"

	"github.com/san-kum/isoflow/internal/field"
)

// Channel is a single-slot, last-value-wins grid buffer.
type Channel struct {
	mu      sync.RWMutex
	grid    *field.Grid
	time    float64
	version atomic.Uint64
}

// New allocates a zero-valued width x height channel.
func New(width, height int) (*Channel, error) {
	g, err := field.New(width, height)
	if err != nil {
		return nil, err
	}
	return &Channel{grid: g}, nil
}

// Dims returns the fixed grid dimensions.
func (c *Channel) Dims() (int, int) { return c.grid.Dims() }

// Version returns the number of completed writes. It does not block.
func (c *Channel) Version() uint64 { return c.version.Load() }

// AcquireWrite blocks until no read or write is in progress and returns
// exclusive access to the buffer. The caller must call Release.
func (c *Channel) AcquireWrite() *WriteHandle {
	c.mu.Lock()
	return &WriteHandle{c: c}
}

// AcquireRead blocks only while a write is in progress. The caller must
// call Release.
func (c *Channel) AcquireRead() *ReadHandle {
	c.mu.RLock()
	return &ReadHandle{c: c}
}

// Write runs fn with exclusive access and publishes the result.
func (c *Channel) Write(fn func(*WriteHandle)) {
	h := c.AcquireWrite()
	defer h.Release()
	fn(h)
}

// Read runs fn with a borrowed snapshot. The handle must not escape fn.
func (c *Channel) Read(fn func(*ReadHandle)) {
	h := c.AcquireRead()
	defer h.Release()
	fn(h)
}

// Publish replaces the whole buffer with values taken at simulated time t.
// The length is checked before the lock is taken.
func (c *Channel) Publish(values []float64, t float64) error {
	if len(values) != c.grid.Len() {
		return field.ErrSizeMismatch
	}
	c.mu.Lock()
	copy(c.grid.Samples(), values)
	c.time = t
	c.version.Add(1)
	c.mu.Unlock()
	return nil
}

// Snapshot is an owned copy of the channel contents.
type Snapshot struct {
	Grid    *field.Grid
	Version uint64
	Time    float64
}

// Snapshot copies the current grid out under a read lock.
func (c *Channel) Snapshot() Snapshot {
	h := c.AcquireRead()
	defer h.Release()
	return Snapshot{Grid: h.Grid(), Version: h.Version(), Time: h.Time()}
}

// SnapshotInto copies the current grid into dst, which must match the
// channel dimensions, and returns its version and time.
func (c *Channel) SnapshotInto(dst *field.Grid) (version uint64, t float64, err error) {
	if dst.Len() != c.grid.Len() {
		return 0, 0, field.ErrSizeMismatch
	}
	h := c.AcquireRead()
	defer h.Release()
	h.CopyTo(dst.Samples())
	return h.Version(), h.Time(), nil
}
