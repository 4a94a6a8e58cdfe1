package value

import "errors"

// Sentinel errors shared across the chunked column store, the MVCC
// metadata, and the table coordinator. Each is surfaced to the caller as a
// typed result rather than through a global exception-for-control-flow
// pattern (spec.md §7).
var (
	// ErrSchemaMismatch is returned when an insert's row arity or a cell's
	// variant does not match the table's schema.
	ErrSchemaMismatch = errors.New("foldtable: row does not match schema")
	// ErrTypeMismatch is returned when a Set or a query key's variant does
	// not match the target column's type.
	ErrTypeMismatch = errors.New("foldtable: value type mismatch")
	// ErrUnknownColumn is returned when a query references a column absent
	// from the schema.
	ErrUnknownColumn = errors.New("foldtable: unknown column")
	// ErrCapacityExceeded is returned once a row index would fall beyond
	// MaxChunks*ChunkSize. The table enters read-only mode.
	ErrCapacityExceeded = errors.New("foldtable: capacity exceeded")
	// ErrIO wraps a write-ahead-log I/O failure surfaced during recovery.
	ErrIO = errors.New("foldtable: log I/O error")
	// ErrReadOnly is returned by insert once the table has entered
	// read-only mode after ErrCapacityExceeded.
	ErrReadOnly = errors.New("foldtable: table is read-only")
)
