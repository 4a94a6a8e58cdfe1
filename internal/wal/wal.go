// Package wal implements the durable write-ahead log: a double-buffered
// background writer that batches row records and flushes them on a timer,
// and a recovery reader (see reader.go) that replays a log file back into
// row records.
package wal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/foldtable/foldtable-db/internal/value"
)

// DefaultFlushInterval matches the source's 10ms group-commit window.
const DefaultFlushInterval = 10 * time.Millisecond

// Writer owns the log file and the ingest buffer for one table. Producers
// call Append, which serializes under a mutex and returns without
// blocking on disk I/O; a single background goroutine drains the buffer on
// a timer.
type Writer struct {
	schema []value.ColumnSpec
	path   string

	mu      sync.Mutex
	ingest  []byte
	file    *os.File
	flushEv time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// Config configures a Writer.
type Config struct {
	// Dir is the directory the log file lives in.
	Dir string
	// TableName determines the log file's name, "<name>.log".
	TableName string
	// Schema is the table's column order, needed to serialize rows; the
	// caller re-declares it out-of-band, as spec.md §6 requires.
	Schema []value.ColumnSpec
	// Truncate clears any existing log file (new table). false preserves
	// existing records and appends after replay (recovery).
	Truncate bool
	// FlushInterval overrides DefaultFlushInterval when non-zero.
	FlushInterval time.Duration
}

func (c *Config) validate() error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, errors.New("wal: dir is required"))
	}
	if c.TableName == "" {
		errs = append(errs, errors.New("wal: table name is required"))
	}
	if len(c.Schema) == 0 {
		errs = append(errs, errors.New("wal: schema is required"))
	}
	return errors.Join(errs...)
}

// Path returns the log file path a Config would open, "<dir>/<name>.log".
func (c *Config) Path() string {
	return filepath.Join(c.Dir, c.TableName+".log")
}

// New opens (creating if necessary) the log file for cfg.TableName. It does
// not start the background flush goroutine; Start does.
func New(cfg *Config) (*Writer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("wal: create dir: %w", err)
	}

	flags := os.O_RDWR | os.O_CREATE
	if cfg.Truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	path := cfg.Path()
	f, err := os.OpenFile(path, flags, 0o640)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", value.ErrIO, path, err)
	}

	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}

	w := &Writer{
		schema:  cfg.Schema,
		path:    path,
		file:    f,
		flushEv: interval,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	return w, nil
}

// Start launches the background flush loop. It satisfies app.Dependency.
func (w *Writer) Start() error {
	go w.loop()
	return nil
}

// Stop signals the background loop to drain and flush a final time, then
// waits for it to exit and closes the file. It satisfies app.Dependency.
func (w *Writer) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	return w.file.Close()
}

// Name satisfies app.Dependency.
func (w *Writer) Name() string { return "WAL[" + filepath.Base(w.path) + "]" }

// Append serializes row into the ingest buffer under the mutex and
// returns; it never performs a per-row flush.
func (w *Writer) Append(row []value.Value) {
	w.mu.Lock()
	w.ingest = encodeRow(w.ingest, w.schema, row)
	w.mu.Unlock()
}

func (w *Writer) loop() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.flushEv)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			w.drainAndFlush()
			return
		case <-ticker.C:
			w.drainAndFlush()
		}
	}
}

// drainAndFlush swaps the ingest buffer for a local drain buffer under the
// mutex (a constant-time pointer swap), then writes and flushes outside
// the lock so producers are never blocked on disk I/O.
func (w *Writer) drainAndFlush() {
	w.mu.Lock()
	drain := w.ingest
	w.ingest = nil
	w.mu.Unlock()

	if len(drain) == 0 {
		return
	}

	if _, err := w.file.Write(drain); err != nil {
		// Best-effort durability: producers never see write errors.
		log.Error().Err(err).Str("path", w.path).Msg("wal: write failed")
		return
	}
	if err := w.file.Sync(); err != nil {
		log.Error().Err(err).Str("path", w.path).Msg("wal: flush failed")
	}
}
