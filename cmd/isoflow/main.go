package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configFile string
	preset     string
	logFile    string
	logLevel   string

	source     string
	runID      string
	dt         float64
	duration   float64
	stepper    string
	cmapName   string
	autoClip   bool
	frameRate  int
	stepDelay  time.Duration
	record     bool
	recordStep int

	frameStep  int
	contourOut string
	csvOut     string
	rawSVG     bool
	scale      float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers the isoflow commands. With no subcommand the live
// viewer starts on the default configuration.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "isoflow",
		Short:         "live scalar fields and their iso-contours",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "isoflow.db", "run database")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset configuration as source/name")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a source with the live contour viewer",
		RunE:  runLive,
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a source headless and record it",
		RunE:  runHeadless,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd, runCmd} {
		addSourceFlags(c)
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().IntVar(&frameRate, "fps", 0, "viewer frame rate")
		c.Flags().DurationVar(&stepDelay, "delay", 20*time.Millisecond, "pause between producer steps")
		c.Flags().BoolVar(&record, "record", false, "record the run into the database")
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot field statistics of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	contourCmd := &cobra.Command{
		Use:   "contour [run_id]",
		Short: "render one recorded frame with its contours",
		Args:  cobra.MaximumNArgs(1),
		RunE:  contourRun,
	}
	contourCmd.Flags().IntVar(&frameStep, "step", -1, "recorded step (default last)")
	contourCmd.Flags().StringVarP(&contourOut, "out", "o", "contours.png", "output file (.png, .svg or .pdf)")
	contourCmd.Flags().StringVar(&cmapName, "colormap", "", "colormap")
	contourCmd.Flags().BoolVar(&autoClip, "auto-clip", false, "clip the colormap to the frame range")
	contourCmd.Flags().BoolVar(&rawSVG, "segments", false, "write bare contour segments as SVG")
	contourCmd.Flags().Float64Var(&scale, "scale", 10, "pixels per grid cell with --segments")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame statistics to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "out", "o", "", "output file (default stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [source]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "list sources, steppers and colormaps",
		Args:  cobra.NoArgs,
		RunE:  listSources,
	}

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, contourCmd, exportCSVCmd, deleteCmd, presetsCmd, sourcesCmd)
	return rootCmd
}

func addSourceFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&source, "source", "", "field source (plume, pulse, saddle or replay)")
	f.StringVar(&runID, "run", "", "run to replay (default latest)")
	f.Float64Var(&dt, "dt", 0, "timestep")
	f.Float64Var(&duration, "time", 0, "duration (0 runs until stopped)")
	f.StringVar(&stepper, "stepper", "", "time stepper")
	f.StringVar(&cmapName, "colormap", "", "colormap")
	f.BoolVar(&autoClip, "auto-clip", false, "clip the colormap to each frame's range")
	f.IntVar(&recordStep, "every", 0, "record every Nth step")
}

// newLogger writes text logs to the log file, or to stderr unless quiet is
// set. The viewer owns the terminal, so live runs without a log file are
// quiet.
func newLogger(quiet bool) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", logLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
	}
	noop := func() error { return nil }
	if quiet {
		return slog.New(slog.DiscardHandler), noop, nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), noop, nil
}
