package coupling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/snapshot"
)

// DefaultDt is the step length handed to the first Advance call.
const DefaultDt = 0.01

// Observer is notified on the producer goroutine after each field has been
// published. g is the staging grid and is reused on the next step; an
// observer that keeps data must copy it.
type Observer interface {
	OnStep(step int, t float64, key Key, g *field.Grid)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, t float64, key Key, g *field.Grid)

func (f ObserverFunc) OnStep(step int, t float64, key Key, g *field.Grid) { f(step, t, key, g) }

type buffer struct {
	key       Key
	vertexIDs []int
	staging   *field.Grid
	ch        *snapshot.Channel
}

// Adapter runs the producer loop for one participant.
type Adapter struct {
	p         Participant
	buffers   []*buffer
	index     map[Key]*buffer
	dt        float64
	delay     time.Duration
	observers []Observer
	logger    *slog.Logger

	steps    atomic.Int64
	timeBits atomic.Uint64

	done     chan struct{}
	runErr   error
	finalize sync.Once
	finalErr error
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithInitialDt sets the first step length. Default: DefaultDt.
func WithInitialDt(dt float64) Option { return func(a *Adapter) { a.dt = dt } }

// WithStepDelay sleeps between steps so interactive sessions stay watchable.
func WithStepDelay(d time.Duration) Option { return func(a *Adapter) { a.delay = d } }

// WithObserver registers an observer called after every published field.
func WithObserver(o Observer) Option {
	return func(a *Adapter) { a.observers = append(a.observers, o) }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option { return func(a *Adapter) { a.logger = l } }

// New allocates one snapshot channel and one staging grid per mesh field.
func New(p Participant, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		p:      p,
		index:  make(map[Key]*buffer),
		dt:     DefaultDt,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.dt <= 0 || math.IsNaN(a.dt) {
		return nil, fmt.Errorf("coupling: initial dt must be positive, got %g", a.dt)
	}

	for _, mesh := range p.Meshes() {
		ids := make([]int, mesh.Width*mesh.Height)
		for i := range ids {
			ids[i] = i
		}
		for _, name := range mesh.Fields {
			key := Key{Mesh: mesh.Name, Field: name}
			if _, dup := a.index[key]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateField, key)
			}
			staging, err := field.New(mesh.Width, mesh.Height)
			if err != nil {
				return nil, fmt.Errorf("mesh %s: %w", mesh.Name, err)
			}
			ch, err := snapshot.New(mesh.Width, mesh.Height)
			if err != nil {
				return nil, fmt.Errorf("mesh %s: %w", mesh.Name, err)
			}
			b := &buffer{key: key, vertexIDs: ids, staging: staging, ch: ch}
			a.buffers = append(a.buffers, b)
			a.index[key] = b
		}
	}
	if len(a.buffers) == 0 {
		return nil, ErrNoFields
	}
	return a, nil
}

// Keys lists the published fields in participant order.
func (a *Adapter) Keys() []Key {
	keys := make([]Key, len(a.buffers))
	for i, b := range a.buffers {
		keys[i] = b.key
	}
	return keys
}

// Channel returns the snapshot channel for a field.
func (a *Adapter) Channel(key Key) (*snapshot.Channel, bool) {
	b, ok := a.index[key]
	if !ok {
		return nil, false
	}
	return b.ch, true
}

// Steps returns the number of completed steps.
func (a *Adapter) Steps() int { return int(a.steps.Load()) }

// Time returns the simulated time reached so far.
func (a *Adapter) Time() float64 { return math.Float64frombits(a.timeBits.Load()) }

// Run executes the step loop on the calling goroutine until the participant
// reports no further steps, ctx is cancelled, or the participant fails.
// Reaching the end of the coupling returns nil.
func (a *Adapter) Run(ctx context.Context) error {
	dt := a.dt
	t := a.Time()
	step := a.Steps()
	// time is base + n*dt since the last dt change, so repeated steps do
	// not accumulate rounding
	base, n := t, 0

	a.logger.Info("producer started", "fields", len(a.buffers), "dt", dt)
	for a.p.IsCouplingOngoing() {
		if err := ctx.Err(); err != nil {
			a.logger.Info("producer cancelled", "step", step, "time", t)
			return err
		}

		for _, b := range a.buffers {
			// The participant writes into staging without any lock held; the
			// channel lock only covers the copy.
			if err := a.p.ReadBlockScalarData(b.key.Mesh, b.key.Field, b.vertexIDs, b.staging.Samples()); err != nil {
				return &StepError{Step: step, Time: t, Key: b.key, Err: fmt.Errorf("%w: read: %w", ErrParticipant, err)}
			}
			if err := b.ch.Publish(b.staging.Samples(), t); err != nil {
				return &StepError{Step: step, Time: t, Key: b.key, Err: err}
			}
			for _, o := range a.observers {
				o.OnStep(step, t, b.key, b.staging)
			}
		}

		next, err := a.p.Advance(dt)
		if err != nil {
			return &StepError{Step: step, Time: t, Err: fmt.Errorf("%w: advance: %w", ErrParticipant, err)}
		}
		n++
		t = base + float64(n)*dt
		if next > dt {
			base, n, dt = t, 0, next
		}
		step++
		a.steps.Store(int64(step))
		a.timeBits.Store(math.Float64bits(t))

		if step%500 == 0 {
			a.logger.Debug("producer progress", "step", step, "time", t, "dt", dt)
		}

		if a.delay > 0 {
			select {
			case <-ctx.Done():
				a.logger.Info("producer cancelled", "step", step, "time", t)
				return ctx.Err()
			case <-time.After(a.delay):
			}
		}
	}
	a.logger.Info("coupling finished", "steps", step, "time", t)
	return nil
}

// Start runs the step loop on its own goroutine.
func (a *Adapter) Start(ctx context.Context) {
	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		a.runErr = a.Run(ctx)
	}()
}

// Done is closed when a started producer returns.
func (a *Adapter) Done() <-chan struct{} { return a.done }

// Wait joins a started producer and finalizes the participant. A cancelled
// context is not reported as an error.
func (a *Adapter) Wait() error {
	if a.done == nil {
		return ErrNotStarted
	}
	<-a.done
	err := a.runErr
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(err, a.Finalize())
}

// Finalize releases the participant once. Callers using Run directly must
// call it after Run returns.
func (a *Adapter) Finalize() error {
	a.finalize.Do(func() {
		if err := a.p.Finalize(); err != nil {
			a.finalErr = fmt.Errorf("%w: finalize: %w", ErrParticipant, err)
		}
	})
	return a.finalErr
}
