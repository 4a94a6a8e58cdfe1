package table

import (
	"fmt"

	"github.com/foldtable/foldtable-db/internal/value"
)

// Insert appends a new physical row and returns its row index. Ordering
// follows spec.md §4.4 exactly: cells are written and indexed before the
// log record, the log record is written before publication, and
// publication (SetCreated) is always last so a reader that observes a
// committed row also observes every one of its cell writes.
func (t *Table) Insert(values []value.Value) (uint64, error) {
	if t.readOnly.Load() {
		return 0, value.ErrReadOnly
	}
	if err := t.validateRow(values); err != nil {
		return 0, err
	}

	myIdx := t.tail.Add(1) - 1
	if err := t.ensureRowChunk(myIdx); err != nil {
		t.readOnly.Store(true)
		t.logFields().Error().Uint64("row", myIdx).Err(err).
			Msg("table: capacity exceeded, entering read-only mode")
		return myIdx, err
	}

	txID := t.clock.Add(1)

	for i, col := range t.schema {
		if err := t.columns[i].Set(myIdx, values[i]); err != nil {
			// The row's chunk is allocated but its creation timestamp is
			// never published: it stays permanently uncommitted, leaking
			// the slot but not the chunk (spec.md §4.4 error model).
			return myIdx, err
		}
		if col.Indexed {
			t.indexes[i].Insert(values[i].AsString(), myIdx)
		}
	}

	if t.logging.Load() {
		t.wal.Append(values)
	}

	t.meta.SetCreated(myIdx, txID)
	return myIdx, nil
}

func (t *Table) validateRow(values []value.Value) error {
	if len(values) != len(t.schema) {
		return fmt.Errorf("%w: expected %d values, got %d", value.ErrSchemaMismatch, len(t.schema), len(values))
	}
	for i, col := range t.schema {
		if values[i].Kind() != col.Type {
			return fmt.Errorf("%w: column %q expects %s, got %s", value.ErrSchemaMismatch, col.Name, col.Type, values[i].Kind())
		}
	}
	return nil
}

// ensureRowChunk allocates the chunk containing row in the MVCC metadata
// and in every column. Both calls are idempotent and race-free: many
// concurrent inserts into the same chunk collapse onto one allocation.
func (t *Table) ensureRowChunk(row uint64) error {
	chunkIdx := int(row / t.chunkSize)
	if err := t.meta.EnsureChunk(chunkIdx); err != nil {
		return err
	}
	for _, col := range t.columns {
		if err := col.EnsureChunk(chunkIdx); err != nil {
			return err
		}
	}
	return nil
}

// insertReplay is Insert with logging disabled, used during recovery to
// re-apply records read back from the log without re-appending them.
func (t *Table) insertReplay(values []value.Value) (uint64, error) {
	wasLogging := t.logging.Swap(false)
	defer t.logging.Store(wasLogging)
	return t.Insert(values)
}
