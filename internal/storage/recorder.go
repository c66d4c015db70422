package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/field"
)

// Recorder is a coupling observer that appends every Nth step of one field
// to a run. After the first failed write it stops recording and keeps the
// error for Err.
type Recorder struct {
	store  *Store
	ctx    context.Context
	run    Run
	key    coupling.Key
	every  int
	logger *slog.Logger

	mu     sync.Mutex
	frames int
	err    error
}

// NewRecorder records key into run. every < 1 records every step.
// Cancelling ctx does not abort a write in progress: the producer stops
// between steps, and the frame it already handed over is kept.
func NewRecorder(ctx context.Context, s *Store, run Run, every int) *Recorder {
	return &Recorder{
		store:  s,
		ctx:    context.WithoutCancel(ctx),
		run:    run,
		key:    coupling.Key{Mesh: run.Mesh, Field: run.Field},
		every:  max(every, 1),
		logger: s.logger.With("run", run.ShortID()),
	}
}

func (r *Recorder) OnStep(step int, t float64, key coupling.Key, g *field.Grid) {
	if key != r.key || step%r.every != 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	if err := r.store.AppendFrame(r.ctx, r.run.ID, step, t, g); err != nil {
		r.err = err
		r.logger.Error("recording stopped", "step", step, "err", err)
		return
	}
	r.frames++
}

func (r *Recorder) Run() Run { return r.run }

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

var _ coupling.Observer = (*Recorder)(nil)
