package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/config"
	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/frame"
	"github.com/san-kum/isoflow/internal/metrics"
	"github.com/san-kum/isoflow/internal/solver"
	"github.com/san-kum/isoflow/internal/storage"
	"github.com/san-kum/isoflow/internal/viz"
)

// loadConfig resolves the configuration: preset, then config file, then
// explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		src, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want source/name", preset)
		}
		cfg = config.GetPreset(src, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(src))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("dt") {
		cfg.Solver.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Solver.Duration = duration
	}
	if flags.Changed("stepper") {
		cfg.Solver.Stepper = stepper
	}
	if flags.Changed("colormap") {
		cfg.Colormap.Name = cmapName
	}
	if flags.Changed("auto-clip") {
		cfg.Colormap.Auto = autoClip
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("every") {
		cfg.Record.Every = recordStep
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is one assembled pipeline: a participant behind a coupling
// adapter, with statistics and optional recording observing it.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *storage.Store
	adapter  *coupling.Adapter
	stats    *metrics.FieldStats
	recorder *storage.Recorder
	levels   []float64
	key      coupling.Key
	closers  []io.Closer
}

func newSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, recording bool, opts ...coupling.Option) (*session, error) {
	s := &session{cfg: cfg, logger: logger, stats: metrics.NewFieldStats(0)}

	levels, err := cfg.IsoLevels()
	if err != nil {
		return nil, err
	}
	s.levels = levels

	needStore := recording || cfg.Source == config.SourceReplay
	if needStore {
		path := dbPath
		if cfg.Record.Path != "" {
			path = cfg.Record.Path
		}
		s.store, err = storage.Open(path, storage.WithMkdirAll(), storage.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, s.store)
	}

	var (
		p        coupling.Participant
		initial  = cfg.Solver.Dt
		meta     storage.RunMeta
		replayed *storage.Replay
	)
	if cfg.Source == config.SourceReplay {
		id := runID
		if id == "" {
			latest, err := s.store.LatestRun(ctx)
			if err != nil {
				s.Close()
				return nil, err
			}
			id = latest.ID
		}
		replayed, err = storage.NewReplay(ctx, s.store, id)
		if err != nil {
			s.Close()
			return nil, err
		}
		p, initial = replayed, replayed.Dt()
		s.key = coupling.Key{Mesh: replayed.Run().Mesh, Field: replayed.Run().Field}
		logger.Info("replaying run", "run", replayed.Run().ShortID(), "frames", replayed.Run().Frames)
	} else {
		params := cfg.Params()
		if params.Stepper == "" {
			params.Stepper = solver.DefaultStepper
		}
		local, err := solver.NewRegistry().NewParticipant(cfg.Source, params)
		if err != nil {
			s.Close()
			return nil, err
		}
		p = local
		s.key = coupling.Key{Mesh: solver.MeshName, Field: solver.FieldValue}
		meta = storage.RunMeta{
			Source:   cfg.Source,
			Mesh:     solver.MeshName,
			Field:    solver.FieldValue,
			Width:    params.Width,
			Height:   params.Height,
			Dt:       params.Dt,
			Duration: params.Duration,
			Stepper:  params.Stepper,
		}
	}

	mid := levels[len(levels)/2]
	s.stats.Attach(s.key, metrics.NewMass(), metrics.NewMassDrift(), metrics.NewCoverage(mid))

	opts = append([]coupling.Option{
		coupling.WithInitialDt(initial),
		coupling.WithLogger(logger),
		coupling.WithObserver(s.stats),
	}, opts...)

	if recording && replayed == nil {
		run, err := s.store.CreateRun(ctx, meta)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.recorder = storage.NewRecorder(ctx, s.store, run, cfg.Record.Every)
		opts = append(opts, coupling.WithObserver(s.recorder))
		logger.Info("recording run", "run", run.ShortID(), "every", cfg.Record.Every)
	}

	s.adapter, err = coupling.New(p, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// buffers returns one viewer buffer per field exchanged by the adapter,
// the recorded field first.
func (s *session) buffers() []viz.Buffer {
	var out []viz.Buffer
	for _, key := range s.adapter.Keys() {
		ch, _ := s.adapter.Channel(key)
		b := viz.Buffer{Key: key, Builder: frame.NewBuilder(ch, s.levels)}
		if key == s.key {
			out = append([]viz.Buffer{b}, out...)
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func runLive(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cmap, err := colormap.Lookup(cfg.Colormap.Name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	recording := record || cfg.Record.Path != ""
	s, err := newSession(ctx, cfg, logger, recording, coupling.WithStepDelay(stepDelay))
	if err != nil {
		return err
	}
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)
	s.adapter.Start(gctx)

	opts := viz.Options{
		Title:    "isoflow · " + cfg.Source,
		FPS:      cfg.FPS,
		Map:      cmap,
		Clip:     cfg.Clip(),
		AutoClip: cfg.Colormap.Auto,
		Stats:    s.stats,
		Done:     s.adapter.Done(),
	}
	if s.recorder != nil {
		opts.Recording = s.recorder.Run().ShortID()
	}
	program := tea.NewProgram(viz.NewModel(s.buffers(), opts), tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		return s.adapter.Wait()
	})
	g.Go(func() error {
		// quitting the viewer stops the producer
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	err = g.Wait()
	if s.recorder != nil {
		err = errors.Join(err, s.recorder.Err())
		fmt.Printf("recorded %d frames as run %s\n", s.recorder.Frames(), s.recorder.Run().ShortID())
	}
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Source != config.SourceReplay && cfg.Solver.Duration <= 0 {
		return fmt.Errorf("run needs a positive duration, use --time")
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, cfg, logger, cfg.Source != config.SourceReplay)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("running %s...\n", cfg.Source)
	start := time.Now()
	runErr := s.adapter.Run(ctx)
	runErr = errors.Join(runErr, s.adapter.Finalize())
	elapsed := time.Since(start)
	if runErr != nil {
		return runErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", s.adapter.Steps())
	fmt.Printf("time: %.4g\n", s.adapter.Time())
	if s.recorder != nil {
		if err := s.recorder.Err(); err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", s.recorder.Run().ID)
		fmt.Printf("frames: %d\n", s.recorder.Frames())
	}

	if latest, ok := s.stats.Latest(s.key); ok {
		fmt.Println("\nfinal field:")
		fmt.Printf("  min: %.6f\n  max: %.6f\n  mean: %.6f\n", latest.Min, latest.Max, latest.Mean)
	}
	fmt.Println("\nmetrics:")
	fmt.Printf("  trend: %.6f\n", s.stats.Trend(s.key))
	summary := s.stats.Summary(s.key)
	for _, name := range slices.Sorted(maps.Keys(summary)) {
		fmt.Printf("  %s: %.6f\n", name, summary[name])
	}
	return nil
}
