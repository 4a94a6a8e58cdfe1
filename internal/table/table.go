// Package table implements the coordinator described in spec.md §4.4-§4.7:
// schema, tail cursor, insert orchestration, hybrid-fold snapshot query,
// and log-replay recovery. A Table owns one column store per schema
// column, one MVCC metadata array, an optional sharded index per indexed
// column, and (optionally) a write-ahead log writer.
package table

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foldtable/foldtable-db/internal/column"
	"github.com/foldtable/foldtable-db/internal/index"
	"github.com/foldtable/foldtable-db/internal/mvcc"
	"github.com/foldtable/foldtable-db/internal/value"
)

// DefaultChunkSize matches the source's 100,000-row chunk.
const DefaultChunkSize = 100_000

// DefaultMaxChunks matches the source's compile-time chunk-slot maximum.
const DefaultMaxChunks = 4096

// DefaultIndexShards matches the source's fixed shard fan-out.
const DefaultIndexShards = index.DefaultShardCount

//go:generate mockgen -destination=mock_logappender_test.go -package=table -source=table.go

// logAppender is the narrow surface Table needs from a write-ahead log
// writer. *wal.Writer implements it; tests substitute a gomock mock.
type logAppender interface {
	Append(row []value.Value)
}

// Table is the coordinator for one insert-only, column-oriented table.
type Table struct {
	ID   uuid.UUID
	name string

	schema     []value.ColumnSpec
	colIndex   map[string]int
	columns    []column.Column
	indexes    map[int]*index.Index // keyed by schema column index
	meta       *mvcc.Metadata
	chunkSize  uint64
	maxChunks  int

	tail  atomic.Uint64
	clock atomic.Uint64

	wal      logAppender
	logging  atomic.Bool
	readOnly atomic.Bool

	recoverLogPath string
}

// Config configures a new Table.
type Config struct {
	Name        string
	Schema      []value.ColumnSpec
	ChunkSize   uint64
	MaxChunks   int
	IndexShards int
	// WAL is the log writer inserts append to. Nil disables logging
	// entirely.
	WAL logAppender
	// RecoverLogPath, if set, is replayed by Start before the table is
	// considered ready, with logging disabled during replay.
	RecoverLogPath string
}

func (c *Config) validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("table: name is required"))
	}
	if len(c.Schema) == 0 {
		errs = append(errs, errors.New("table: schema must have at least one column"))
	}
	seen := make(map[string]bool, len(c.Schema))
	for _, col := range c.Schema {
		if err := col.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[col.Name] {
			errs = append(errs, fmt.Errorf("table: duplicate column name %q", col.Name))
		}
		seen[col.Name] = true
	}
	return errors.Join(errs...)
}

// New builds a Table. Schema order defines the positional row layout used
// by inserts and by the log.
func New(cfg *Config) (*Table, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	maxChunks := cfg.MaxChunks
	if maxChunks == 0 {
		maxChunks = DefaultMaxChunks
	}

	t := &Table{
		ID:             uuid.New(),
		name:           cfg.Name,
		schema:         append([]value.ColumnSpec(nil), cfg.Schema...),
		colIndex:       make(map[string]int, len(cfg.Schema)),
		columns:        make([]column.Column, len(cfg.Schema)),
		indexes:        make(map[int]*index.Index),
		meta:           mvcc.New(chunkSize, maxChunks),
		chunkSize:      chunkSize,
		maxChunks:      maxChunks,
		wal:            cfg.WAL,
		recoverLogPath: cfg.RecoverLogPath,
	}
	if cfg.WAL != nil {
		t.logging.Store(true)
	}

	for i, col := range cfg.Schema {
		t.colIndex[col.Name] = i
		t.columns[i] = column.New(col.Type, chunkSize, maxChunks)
		if col.Indexed {
			t.indexes[i] = index.New(cfg.IndexShards)
		}
	}

	return t, nil
}

// Name satisfies app.Dependency.
func (t *Table) Name() string { return "Table[" + t.name + "]" }

// Len returns the number of rows claimed so far (committed or not).
func (t *Table) Len() uint64 { return t.tail.Load() }

// Capacity reports how many rows have been claimed against the table's
// fixed maximum (MaxChunks*ChunkSize), for the capacity watchdog.
func (t *Table) Capacity() (used uint64, max uint64) {
	return t.tail.Load(), uint64(t.maxChunks) * t.chunkSize
}

// ReadOnly reports whether the table has entered read-only mode after a
// CapacityExceeded failure.
func (t *Table) ReadOnly() bool { return t.readOnly.Load() }

func (t *Table) columnByName(name string) (int, value.ColumnSpec, bool) {
	idx, ok := t.colIndex[name]
	if !ok {
		return 0, value.ColumnSpec{}, false
	}
	return idx, t.schema[idx], true
}

func (t *Table) logFields() *zerolog.Logger {
	l := log.With().Str("table", t.name).Str("table_id", t.ID.String()).Logger()
	return &l
}
