package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunMeta describes what a run records.
type RunMeta struct {
	Source   string
	Mesh     string
	Field    string
	Width    int
	Height   int
	Dt       float64
	Duration float64
	Stepper  string
}

// Run is a stored run. Frames is filled by ListRuns and LoadRun.
type Run struct {
	ID string
	RunMeta
	CreatedAt time.Time
	Frames    int
}

// ShortID returns the first block of the run's uuid.
func (r Run) ShortID() string {
	if len(r.ID) < 8 {
		return r.ID
	}
	return r.ID[:8]
}

func (s *Store) CreateRun(ctx context.Context, meta RunMeta) (Run, error) {
	if meta.Width < 2 || meta.Height < 2 {
		return Run{}, fmt.Errorf("storage: create run: grid %dx%d too small", meta.Width, meta.Height)
	}
	run := Run{
		ID:        uuid.NewString(),
		RunMeta:   meta,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, mesh, field, width, height, dt, duration, stepper, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, meta.Source, meta.Mesh, meta.Field, meta.Width, meta.Height,
		meta.Dt, meta.Duration, meta.Stepper, run.CreatedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("storage: create run: %w", err)
	}
	s.logger.Info("run created", "run", run.ShortID(), "source", meta.Source, "field", meta.Mesh+"/"+meta.Field)
	return run, nil
}

const runColumns = `r.id, r.source, r.mesh, r.field, r.width, r.height, r.dt, r.duration, r.stepper, r.created_at,
	(SELECT COUNT(*) FROM frames f WHERE f.run_id = r.id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		created int64
	)
	err := sc.Scan(&r.ID, &r.Source, &r.Mesh, &r.Field, &r.Width, &r.Height,
		&r.Dt, &r.Duration, &r.Stepper, &created, &r.Frames)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	return r, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: list runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadRun finds a run by full id or by a unique id prefix.
func (s *Store) LoadRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r WHERE r.id = ? OR r.id LIKE ? ORDER BY r.id = ? DESC LIMIT 2`,
		id, id+"%", id)
	if err != nil {
		return Run{}, fmt.Errorf("storage: load run %s: %w", id, err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("storage: load run %s: %w", id, err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("storage: load run %s: %w", id, err)
	}

	switch {
	case len(found) == 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case found[0].ID == id, len(found) == 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	}
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs r ORDER BY r.created_at DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: latest run: %w", err)
	}
	return r, nil
}

// DeleteRun removes a run and its frames.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: delete run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM frames WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("storage: delete frames of %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: delete run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}
