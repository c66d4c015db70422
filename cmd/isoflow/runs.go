package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/isoflow/internal/colormap"
	"github.com/san-kum/isoflow/internal/config"
	"github.com/san-kum/isoflow/internal/export"
	"github.com/san-kum/isoflow/internal/frame"
	"github.com/san-kum/isoflow/internal/snapshot"
	"github.com/san-kum/isoflow/internal/solver"
	"github.com/san-kum/isoflow/internal/storage"
)

// withStore opens the run database for the duration of fn.
func withStore(fn func(st *storage.Store) error) error {
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := storage.Open(dbPath, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// resolveRun loads the run named in args, or the latest run.
func resolveRun(ctx context.Context, st *storage.Store, args []string) (storage.Run, error) {
	if len(args) > 0 {
		return st.LoadRun(ctx, args[0])
	}
	return st.LatestRun(ctx)
}

func listRuns(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		runs, err := st.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSOURCE\tCREATED\tGRID\tDT\tDURATION\tSTEPPER\tFRAMES")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.4g\t%.4g\t%s\t%d\n",
				run.ShortID(),
				run.Source,
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				run.Width, run.Height,
				run.Dt,
				run.Duration,
				run.Stepper,
				run.Frames,
			)
		}
		return w.Flush()
	})
}

func plotRun(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		ctx := cmd.Context()
		run, err := resolveRun(ctx, st, args)
		if err != nil {
			return err
		}
		frames, err := st.Frames(ctx, run.ID)
		if err != nil {
			return err
		}
		if len(frames) < 2 {
			return fmt.Errorf("run %s has %d frames, need at least 2 to plot", run.ShortID(), len(frames))
		}

		fmt.Printf("run: %s\n", run.ID)
		fmt.Printf("source: %s\n", run.Source)
		fmt.Printf("frames: %d\n\n", len(frames))

		series := []struct {
			caption string
			value   func(storage.FrameInfo) float64
		}{
			{"mean vs time", func(f storage.FrameInfo) float64 { return f.Stats.Mean }},
			{"max vs time", func(f storage.FrameInfo) float64 { return f.Stats.Max }},
		}
		for _, s := range series {
			data := make([]float64, len(frames))
			for i, f := range frames {
				data[i] = s.value(f)
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(s.caption),
			)
			fmt.Println(graph)
			fmt.Println()
		}
		return nil
	})
}

func contourRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	levels, err := cfg.IsoLevels()
	if err != nil {
		return err
	}
	cmap, err := colormap.Lookup(cfg.Colormap.Name)
	if err != nil {
		return err
	}

	return withStore(func(st *storage.Store) error {
		ctx := cmd.Context()
		run, err := resolveRun(ctx, st, args)
		if err != nil {
			return err
		}
		step := frameStep
		if step < 0 {
			frames, err := st.Frames(ctx, run.ID)
			if err != nil {
				return err
			}
			if len(frames) == 0 {
				return fmt.Errorf("%w: run %s has no frames", storage.ErrFrameNotFound, run.ShortID())
			}
			step = frames[len(frames)-1].Step
		}

		g, info, err := st.LoadFrame(ctx, run.ID, step)
		if err != nil {
			return err
		}
		ch, err := snapshot.New(g.Dims())
		if err != nil {
			return err
		}
		if err := ch.Publish(g.Samples(), info.Time); err != nil {
			return err
		}
		f := frame.NewBuilder(ch, levels).Build()

		if rawSVG {
			out, err := os.Create(contourOut)
			if err != nil {
				return err
			}
			w, h := g.Dims()
			if err := export.SegmentsSVG(out, w, h, f.Levels, scale, cmap); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		} else {
			opts := export.DefaultOptions()
			opts.Title = fmt.Sprintf("%s  step %d  t = %.4g", run.Source, step, info.Time)
			opts.Map = cmap
			opts.Clip = cfg.Clip()
			opts.AutoClip = cfg.Colormap.Auto
			if err := export.Save(contourOut, f, opts); err != nil {
				return err
			}
		}
		fmt.Printf("wrote %s (%d levels, %d segments)\n", contourOut, len(f.Levels), f.Segments())
		return nil
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		ctx := cmd.Context()
		run, err := resolveRun(ctx, st, args)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if csvOut != "" {
			f, err := os.Create(csvOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := st.ExportCSV(ctx, w, run.ID); err != nil {
			return err
		}
		if csvOut != "" {
			fmt.Fprintf(os.Stderr, "exported %d frames to %s\n", run.Frames, csvOut)
		}
		return nil
	})
}

func deleteRun(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	})
}

func listPresets(cmd *cobra.Command, args []string) error {
	sources := config.Sources()
	if len(args) > 0 {
		sources = args
	}
	for _, src := range sources {
		presets := config.ListPresets(src)
		if len(presets) == 0 {
			fmt.Printf("no presets for source: %s\n", src)
			continue
		}
		fmt.Printf("presets for %s:\n", src)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", src, p)
		}
	}
	return nil
}

func listSources(cmd *cobra.Command, args []string) error {
	r := solver.NewRegistry()
	fmt.Printf("sources:   %s, %s\n", strings.Join(r.ListModels(), ", "), config.SourceReplay)
	fmt.Printf("steppers:  %s\n", strings.Join(r.ListSteppers(), ", "))
	fmt.Printf("colormaps: %s\n", strings.Join(colormap.Names(), ", "))
	return nil
}
