package snapshot

import (
	"github.com/san-kum/isoflow/internal/field"
)

const releasedPanic = "snapshot: handle used after release"

// WriteHandle grants exclusive mutation of a channel buffer. The new
// contents become visible to readers atomically on Release.
type WriteHandle struct {
	c        *Channel
	released bool
}

func (h *WriteHandle) check() {
	if h.released {
		panic(releasedPanic)
	}
}

func (h *WriteHandle) Dims() (int, int) {
	h.check()
	return h.c.grid.Dims()
}

// Set stores one sample.
func (h *WriteHandle) Set(i, j int, v float64) {
	h.check()
	h.c.grid.Set(i, j, v)
}

// Fill sets every sample to v.
func (h *WriteHandle) Fill(v float64) {
	h.check()
	h.c.grid.Fill(v)
}

// CopyFrom replaces every sample with src.
func (h *WriteHandle) CopyFrom(src []float64) error {
	h.check()
	return h.c.grid.CopyFrom(src)
}

// SetTime records the simulated time the buffer reflects.
func (h *WriteHandle) SetTime(t float64) {
	h.check()
	h.c.time = t
}

// Release publishes the buffer and drops exclusive access.
func (h *WriteHandle) Release() {
	h.check()
	h.released = true
	h.c.version.Add(1)
	h.c.mu.Unlock()
}

// ReadHandle borrows the current snapshot. It implements field.Sampler so
// the contour extractor can run directly against a borrow.
type ReadHandle struct {
	c        *Channel
	released bool
}

func (h *ReadHandle) check() {
	if h.released {
		panic(releasedPanic)
	}
}

func (h *ReadHandle) Dims() (int, int) {
	h.check()
	return h.c.grid.Dims()
}

func (h *ReadHandle) At(i, j int) float64 {
	h.check()
	return h.c.grid.At(i, j)
}

// Version identifies the write this snapshot reflects; 0 before any write.
func (h *ReadHandle) Version() uint64 {
	h.check()
	return h.c.version.Load()
}

// Time is the simulated time of the write this snapshot reflects.
func (h *ReadHandle) Time() float64 {
	h.check()
	return h.c.time
}

// CopyTo copies the samples row-major into dst and returns the count.
func (h *ReadHandle) CopyTo(dst []float64) int {
	h.check()
	return h.c.grid.CopyTo(dst)
}

// Grid returns an owned copy of the snapshot.
func (h *ReadHandle) Grid() *field.Grid {
	h.check()
	return h.c.grid.Clone()
}

// Release ends the borrow.
func (h *ReadHandle) Release() {
	h.check()
	h.released = true
	h.c.mu.RUnlock()
}

var _ field.Sampler = (*ReadHandle)(nil)
