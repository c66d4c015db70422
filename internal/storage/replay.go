package storage

import (
	"context"
	"fmt"

	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/field"
)

// Replay is a participant that plays a stored run back frame by frame.
// Its step hints are the recorded gaps between frames.
type Replay struct {
	store  *Store
	ctx    context.Context
	run    Run
	frames []FrameInfo

	idx    int
	loaded int
	grid   *field.Grid
}

func NewReplay(ctx context.Context, s *Store, runID string) (*Replay, error) {
	run, err := s.LoadRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.Frames(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: run %s has no frames", ErrFrameNotFound, run.ShortID())
	}
	return &Replay{store: s, ctx: ctx, run: run, frames: frames, loaded: -1}, nil
}

func (r *Replay) Run() Run { return r.run }

// Dt is the gap between the first two frames, or the run's dt.
func (r *Replay) Dt() float64 {
	return r.gap(1)
}

func (r *Replay) gap(i int) float64 {
	if i > 0 && i < len(r.frames) {
		if d := r.frames[i].Time - r.frames[i-1].Time; d > 0 {
			return d
		}
	}
	return r.run.Dt
}

func (r *Replay) Meshes() []coupling.MeshInfo {
	return []coupling.MeshInfo{{
		Name:   r.run.Mesh,
		Width:  r.run.Width,
		Height: r.run.Height,
		Fields: []string{r.run.Field},
	}}
}

func (r *Replay) IsCouplingOngoing() bool { return r.idx < len(r.frames) }

func (r *Replay) ReadBlockScalarData(mesh, name string, vertexIDs []int, dst []float64) error {
	if mesh != r.run.Mesh || name != r.run.Field {
		return fmt.Errorf("storage: replay of %s/%s has no field %s/%s", r.run.Mesh, r.run.Field, mesh, name)
	}
	if r.idx >= len(r.frames) {
		return fmt.Errorf("%w: replay exhausted", ErrFrameNotFound)
	}
	if r.loaded != r.idx {
		g, _, err := r.store.LoadFrame(r.ctx, r.run.ID, r.frames[r.idx].Step)
		if err != nil {
			return err
		}
		r.grid, r.loaded = g, r.idx
	}
	values := r.grid.Samples()
	for k, id := range vertexIDs {
		dst[k] = values[id]
	}
	return nil
}

func (r *Replay) Advance(float64) (float64, error) {
	r.idx++
	return r.gap(r.idx), nil
}

func (r *Replay) Finalize() error {
	r.grid = nil
	return nil
}

var _ coupling.Participant = (*Replay)(nil)
