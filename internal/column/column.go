// Package column implements the chunked, insert-only column store: one
// specialization per value.Kind, sharing the chunk geometry defined in
// internal/chunk. A column exclusively owns its chunk slots; there is no
// shared ownership across columns and no reference graph to break on
// teardown.
package column

import (
	"github.com/foldtable/foldtable-db/internal/chunk"
	"github.com/foldtable/foldtable-db/internal/value"
)

// Column is the shared abstract surface every column specialization
// implements: ensure a chunk exists, write a cell, read a cell back.
type Column interface {
	// Type reports the value.Kind this column stores.
	Type() value.Kind
	// EnsureChunk idempotently allocates chunk chunkIndex, if necessary.
	EnsureChunk(chunkIndex int) error
	// Set writes row's cell. The caller must have ensured row's chunk.
	// Returns value.ErrTypeMismatch if v's variant doesn't match Type().
	Set(row uint64, v value.Value) error
	// Get reads row's cell back as a value.Value.
	Get(row uint64) value.Value
}

// New builds a Column for the given spec's type, with the given chunk
// geometry.
func New(t value.Kind, chunkSize uint64, maxChunks int) Column {
	switch t {
	case value.Int:
		return &intColumn{data: chunk.NewArray[int64](chunkSize, maxChunks)}
	case value.String:
		return &stringColumn{data: chunk.NewArray[string](chunkSize, maxChunks)}
	default:
		panic("column: unknown value.Kind")
	}
}

type intColumn struct {
	data *chunk.Array[int64]
}

func (c *intColumn) Type() value.Kind { return value.Int }

func (c *intColumn) EnsureChunk(chunkIndex int) error {
	return c.data.EnsureChunk(chunkIndex)
}

func (c *intColumn) Set(row uint64, v value.Value) error {
	if v.Kind() != value.Int {
		return value.ErrTypeMismatch
	}
	if !c.data.Set(row, v.AsInt64()) {
		panic("column: Set called before EnsureChunk")
	}
	return nil
}

func (c *intColumn) Get(row uint64) value.Value {
	v, _ := c.data.Get(row)
	return value.Int64(v)
}

type stringColumn struct {
	data *chunk.Array[string]
}

func (c *stringColumn) Type() value.Kind { return value.String }

func (c *stringColumn) EnsureChunk(chunkIndex int) error {
	return c.data.EnsureChunk(chunkIndex)
}

func (c *stringColumn) Set(row uint64, v value.Value) error {
	if v.Kind() != value.String {
		return value.ErrTypeMismatch
	}
	if !c.data.Set(row, v.AsString()) {
		panic("column: Set called before EnsureChunk")
	}
	return nil
}

func (c *stringColumn) Get(row uint64) value.Value {
	v, _ := c.data.Get(row)
	return value.Str(v)
}
