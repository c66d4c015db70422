// Package frame is the consumer half of the pipeline: it copies the latest
// snapshot out of a channel and extracts a sweep of contour levels from the
// private copy.
package frame

import (
	"slices"

	"github.com/san-kum/isoflow/internal/contour"
	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/snapshot"
)

// Frame is one rendered view of a channel.
type Frame struct {
	Grid    *field.Grid
	Version uint64
	Time    float64
	Levels  []contour.Level
	Stats   field.Stats
}

// Segments returns the total number of segments over all levels.
func (f Frame) Segments() int { return contour.Count(f.Levels) }

// Length returns the total isoline length over all levels, in cells.
func (f Frame) Length() float64 {
	total := 0.0
	for _, l := range f.Levels {
		total += contour.TotalLength(l.Segments)
	}
	return total
}

// Builder turns channel snapshots into frames. It is meant to be used from
// a single consumer goroutine.
//
// Frames share the builder's grid: a frame's Grid is overwritten by the
// next Build. Clone it to keep it longer.
type Builder struct {
	ch     *snapshot.Channel
	grid   *field.Grid
	levels []float64
	last   uint64
	built  bool
}

func NewBuilder(ch *snapshot.Channel, levels []float64) *Builder {
	// channel dimensions are already validated
	g, _ := field.New(ch.Dims())
	return &Builder{ch: ch, grid: g, levels: slices.Clone(levels)}
}

func (b *Builder) Channel() *snapshot.Channel { return b.ch }

func (b *Builder) Levels() []float64 { return slices.Clone(b.levels) }

// SetLevels replaces the sweep. The next call to Next builds a frame even
// if the channel has not changed.
func (b *Builder) SetLevels(levels []float64) {
	b.levels = slices.Clone(levels)
	b.built = false
}

// Build copies the current snapshot into the builder's grid and extracts
// every level. The read lock is held only for the copy.
func (b *Builder) Build() Frame {
	// sizes match by construction
	version, t, _ := b.ch.SnapshotInto(b.grid)
	b.last, b.built = version, true
	return Frame{
		Grid:    b.grid,
		Version: version,
		Time:    t,
		Levels:  contour.ExtractLevels(b.grid, b.levels),
		Stats:   b.grid.Stats(),
	}
}

// Next builds a frame unless the channel version is the one last built.
func (b *Builder) Next() (Frame, bool) {
	if b.built && b.ch.Version() == b.last {
		return Frame{}, false
	}
	return b.Build(), true
}
