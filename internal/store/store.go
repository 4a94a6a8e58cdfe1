// Package store is the runtime registry the command shell talks to: it
// creates a table on demand (opening a fresh, truncated write-ahead log),
// reopens an existing table (appending to its log after replaying it
// before the table accepts writes), and looks tables up by name for
// INSERT/SELECT verbs.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/foldtable/foldtable-db/internal/config"
	"github.com/foldtable/foldtable-db/internal/table"
	"github.com/foldtable/foldtable-db/internal/value"
	"github.com/foldtable/foldtable-db/internal/wal"
	"github.com/foldtable/foldtable-db/internal/watchdog"
)

// ErrTableExists is returned when CreateTable is called with a name
// already registered.
var ErrTableExists = errors.New("store: table already exists")

// ErrTableNotFound is returned when a command names a table the store
// doesn't know about.
var ErrTableNotFound = errors.New("store: table not found")

type entry struct {
	tbl *table.Table
	log *wal.Writer
	wd  *watchdog.Watchdog
}

// Store owns every table's WAL writer and lifetime for one process.
type Store struct {
	cfg *config.Config

	mu     sync.RWMutex
	tables map[string]*entry
}

// New builds an empty Store bound to cfg's chunk geometry and data
// directory.
func New(cfg *config.Config) *Store {
	return &Store{cfg: cfg, tables: make(map[string]*entry)}
}

// Name satisfies app.Dependency.
func (s *Store) Name() string { return "Store" }

// Start satisfies app.Dependency. Tables are created lazily by
// CreateTable, so there is nothing to start eagerly.
func (s *Store) Start() error { return nil }

// Stop flushes and closes every table's WAL writer.
func (s *Store) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, e := range s.tables {
		if e.wd != nil {
			if err := e.wd.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("store: stop watchdog %s: %w", name, err))
			}
		}
		if err := e.log.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("store: stop %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// CreateTable opens a fresh write-ahead log for name (truncating any
// existing one, per spec.md's "Create table" scenarios) and registers a
// new, empty Table.
func (s *Store) CreateTable(name string, schema []value.ColumnSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[name]; exists {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}

	w, err := wal.New(&wal.Config{
		Dir:           s.cfg.DataDir,
		TableName:     name,
		Schema:        schema,
		Truncate:      true,
		FlushInterval: s.cfg.FlushInterval,
	})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	tbl, err := table.New(&table.Config{
		Name:        name,
		Schema:      schema,
		ChunkSize:   s.cfg.ChunkSize,
		MaxChunks:   s.cfg.MaxChunks,
		IndexShards: s.cfg.IndexShards,
		WAL:         w,
	})
	if err != nil {
		_ = w.Stop()
		return err
	}

	wd, err := newWatchdog(tbl)
	if err != nil {
		_ = w.Stop()
		return err
	}

	s.tables[name] = &entry{tbl: tbl, log: w, wd: wd}
	log.Info().Str("table", name).Msg("store: table created")
	return nil
}

func newWatchdog(tbl *table.Table) (*watchdog.Watchdog, error) {
	wd, err := watchdog.New(&watchdog.Config{Table: tbl})
	if err != nil {
		return nil, err
	}
	if err := wd.Start(); err != nil {
		return nil, err
	}
	return wd, nil
}

// OpenTable reopens an existing table's log in append mode and replays it
// before returning, mirroring spec.md's Scenario C recovery flow.
func (s *Store) OpenTable(name string, schema []value.ColumnSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[name]; exists {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}

	cfg := &wal.Config{
		Dir:           s.cfg.DataDir,
		TableName:     name,
		Schema:        schema,
		Truncate:      false,
		FlushInterval: s.cfg.FlushInterval,
	}
	logPath := cfg.Path()

	w, err := wal.New(cfg)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	tbl, err := table.New(&table.Config{
		Name:           name,
		Schema:         schema,
		ChunkSize:      s.cfg.ChunkSize,
		MaxChunks:      s.cfg.MaxChunks,
		IndexShards:    s.cfg.IndexShards,
		WAL:            w,
		RecoverLogPath: logPath,
	})
	if err != nil {
		_ = w.Stop()
		return err
	}
	if err := tbl.Start(); err != nil {
		_ = w.Stop()
		return err
	}

	wd, err := newWatchdog(tbl)
	if err != nil {
		_ = w.Stop()
		return err
	}

	s.tables[name] = &entry{tbl: tbl, log: w, wd: wd}
	return nil
}

// Table returns the named table, or ErrTableNotFound.
func (s *Store) Table(name string) (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return e.tbl, nil
}
