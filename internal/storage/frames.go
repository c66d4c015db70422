package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/isoflow/internal/field"
)

// FrameInfo is the metadata of one stored frame.
type FrameInfo struct {
	Step  int
	Time  float64
	Stats field.Stats
}

// AppendFrame stores g as the frame for step. Steps are unique per run.
func (s *Store) AppendFrame(ctx context.Context, runID string, step int, t float64, g *field.Grid) error {
	blob, err := encodeGrid(g)
	if err != nil {
		return err
	}
	st := g.Stats()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO frames (run_id, step, time, min, max, mean, stddev, grid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, step, t, nullable(st.Min), nullable(st.Max), nullable(st.Mean), nullable(st.StdDev), blob)
	if err != nil {
		return fmt.Errorf("storage: append frame %d to %s: %w", step, runID, err)
	}
	return nil
}

// Frames lists frame metadata of a run in step order.
func (s *Store) Frames(ctx context.Context, runID string) ([]FrameInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step, time, min, max, mean, stddev FROM frames
		WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage: frames of %s: %w", runID, err)
	}
	defer rows.Close()

	var frames []FrameInfo
	for rows.Next() {
		var (
			fi                   FrameInfo
			lo, hi, mean, stddev sql.NullFloat64
		)
		if err := rows.Scan(&fi.Step, &fi.Time, &lo, &hi, &mean, &stddev); err != nil {
			return nil, fmt.Errorf("storage: frames of %s: %w", runID, err)
		}
		fi.Stats = field.Stats{Min: orNaN(lo), Max: orNaN(hi), Mean: orNaN(mean), StdDev: orNaN(stddev)}
		frames = append(frames, fi)
	}
	return frames, rows.Err()
}

// LoadFrame decodes the grid stored for step.
func (s *Store) LoadFrame(ctx context.Context, runID string, step int) (*field.Grid, FrameInfo, error) {
	var (
		fi   = FrameInfo{Step: step}
		blob []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT time, grid FROM frames WHERE run_id = ? AND step = ?`, runID, step).Scan(&fi.Time, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, FrameInfo{}, fmt.Errorf("%w: %s step %d", ErrFrameNotFound, runID, step)
	}
	if err != nil {
		return nil, FrameInfo{}, fmt.Errorf("storage: load frame %d of %s: %w", step, runID, err)
	}
	g, err := decodeGrid(blob)
	if err != nil {
		return nil, FrameInfo{}, err
	}
	fi.Stats = g.Stats()
	return g, fi, nil
}

func (s *Store) FrameCount(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: count frames of %s: %w", runID, err)
	}
	return n, nil
}

// SQLite has no NaN; statistics of an all-NaN grid are stored as NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
