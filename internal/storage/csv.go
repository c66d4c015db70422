package storage

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

// ExportCSV writes one row of statistics per stored frame.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer, runID string) error {
	run, err := s.LoadRun(ctx, runID)
	if err != nil {
		return err
	}
	frames, err := s.Frames(ctx, run.ID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "time", "min", "max", "mean", "stddev"}); err != nil {
		return err
	}
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Step),
			format(f.Time),
			format(f.Stats.Min),
			format(f.Stats.Max),
			format(f.Stats.Mean),
			format(f.Stats.StdDev),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
