// Package mvcc implements the multi-version visibility metadata that is
// published atomically after a row's cell payloads are written. It is a
// parallel chunked array of creation timestamps, sharing chunk geometry
// with the column store it accompanies.
package mvcc

import (
	"sync/atomic"

	"github.com/foldtable/foldtable-db/internal/chunk"
)

// Infinity is the sentinel creation timestamp meaning "not yet created".
// A row is committed iff its creation timestamp is strictly less than
// Infinity.
const Infinity uint64 = ^uint64(0)

// Metadata is the MVCC creation-timestamp array for one table. There is no
// invalidation timestamp: the spec's committed query path only needs
// creation order, and LAST-resolution supersedence is handled entirely by
// comparing creation timestamps at fold time.
type Metadata struct {
	created *chunk.Array[uint64]
}

// New builds a Metadata array with the given chunk geometry.
func New(chunkSize uint64, maxChunks int) *Metadata {
	return &Metadata{
		created: chunk.NewArrayWithFill[uint64](chunkSize, maxChunks, Infinity),
	}
}

// EnsureChunk has the same idempotent contract as chunk.Array.EnsureChunk;
// freshly allocated cells are initialized to Infinity.
func (m *Metadata) EnsureChunk(chunkIndex int) error {
	return m.created.EnsureChunk(chunkIndex)
}

// SetCreated is the publication write: it must happen only after every
// column cell for row has been written, since a reader that observes a
// finite creation timestamp is guaranteed to observe every one of that
// row's cell writes. This is a genuine release-store on the cell address
// (chunk.Array.Cell, not Set — Set's per-cell access is plain memory and
// would not give the happens-before edge this pairing needs), matched by
// GetCreated's acquire-load.
func (m *Metadata) SetCreated(row uint64, ts uint64) {
	cell, ok := m.created.Cell(row)
	if !ok {
		panic("mvcc: SetCreated called before EnsureChunk")
	}
	atomic.StoreUint64(cell, ts)
}

// GetCreated is an acquire-load of row's creation timestamp, paired with
// SetCreated's release-store on the same cell address. It returns Infinity
// if the row's chunk has not been allocated.
func (m *Metadata) GetCreated(row uint64) uint64 {
	cell, ok := m.created.Cell(row)
	if !ok {
		return Infinity
	}
	return atomic.LoadUint64(cell)
}

// IsVisible reports whether row is committed (finite creation timestamp)
// and was created at or before queryTS.
func (m *Metadata) IsVisible(row uint64, queryTS uint64) bool {
	ts := m.GetCreated(row)
	return ts < Infinity && ts <= queryTS
}
