// Package storage persists recorded runs in SQLite.
//
// A run is one recorded (mesh, field) pair from a producer. Every recorded
// step becomes a frame row holding the grid as a gob+gzip blob alongside its
// summary statistics, so listings and CSV exports never decode grids.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var (
	ErrRunNotFound   = errors.New("storage: run not found")
	ErrAmbiguousRun  = errors.New("storage: run id prefix is ambiguous")
	ErrFrameNotFound = errors.New("storage: frame not found")
)

// Store is a handle on a run database. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

type config struct {
	busyTimeout int
	mkdirAll    bool
	logger      *slog.Logger
}

// Option customises Open.
type Option func(*config)

// WithBusyTimeout sets the SQLite busy timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) Option { return func(c *config) { c.busyTimeout = ms } }

// WithMkdirAll creates the parent directory of the database path.
func WithMkdirAll() Option { return func(c *config) { c.mkdirAll = true } }

// WithLogger sets the logger used for migrations and recording.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// Open opens or creates the database at path and migrates it to the latest
// schema.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := config{busyTimeout: 10_000, logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: mkdir: %w", err)
		}
	}

	// pragmas go in the DSN so every pooled connection gets them
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(%d)",
		path, cfg.busyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}

	s := &Store{db: db, path: path, logger: cfg.logger}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error {
	return s.db.Close()
}
