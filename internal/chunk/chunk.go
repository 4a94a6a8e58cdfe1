// Package chunk implements the lazy-allocated, fixed-size block geometry
// shared by every chunked column and by the MVCC metadata array: EnsureChunk,
// Set, and Get over a typed slice, with double-checked-locking allocation so
// many concurrent writers can append without a global lock. EnsureChunk's
// chunk-slot publication is atomic; Set/Get's per-cell access is plain
// memory, sufficient for column payloads where each row index has exactly
// one writer. Cell hands out the cell address for callers (internal/mvcc)
// that need a genuine atomic load/store on the cell itself.
package chunk

import (
	"sync"
	"sync/atomic"

	"github.com/foldtable/foldtable-db/internal/value"
)

// Array is a fixed number of lazily-allocated chunk slots, each holding
// ChunkSize values of T once allocated. Row index i lives in chunk i/Size,
// at offset i%Size.
type Array[T any] struct {
	size      uint64
	maxChunks int
	fill      *T // when non-nil, every cell of a freshly allocated chunk is set to *fill

	slots   []atomic.Pointer[[]T]
	allocMu sync.Mutex
}

// NewArray builds an Array with the given per-chunk capacity and chunk-slot
// count. New cells default to T's zero value.
func NewArray[T any](chunkSize uint64, maxChunks int) *Array[T] {
	return &Array[T]{
		size:      chunkSize,
		maxChunks: maxChunks,
		slots:     make([]atomic.Pointer[[]T], maxChunks),
	}
}

// NewArrayWithFill is NewArray, but every cell of a freshly allocated chunk
// is initialized to fill instead of T's zero value. MVCC metadata uses this
// to seed chunks with the "infinity" (uncommitted) sentinel.
func NewArrayWithFill[T any](chunkSize uint64, maxChunks int, fill T) *Array[T] {
	a := NewArray[T](chunkSize, maxChunks)
	a.fill = &fill
	return a
}

// ChunkSize returns the configured per-chunk capacity.
func (a *Array[T]) ChunkSize() uint64 { return a.size }

// MaxChunks returns the compile-time (here: construction-time) maximum
// number of chunk slots.
func (a *Array[T]) MaxChunks() int { return a.maxChunks }

// EnsureChunk idempotently installs a freshly allocated chunk for
// chunkIndex if none is present yet. Concurrency: a double-checked pattern
// using an acquire-load fast path, then the array's single allocation
// mutex with a re-check before publishing via atomic Store (the Go memory
// model gives atomic.Pointer loads and stores the acquire/release
// semantics this needs).
func (a *Array[T]) EnsureChunk(chunkIndex int) error {
	if chunkIndex < 0 || chunkIndex >= a.maxChunks {
		return value.ErrCapacityExceeded
	}

	if a.slots[chunkIndex].Load() != nil {
		return nil
	}

	a.allocMu.Lock()
	defer a.allocMu.Unlock()

	if a.slots[chunkIndex].Load() != nil {
		return nil
	}

	c := make([]T, a.size)
	if a.fill != nil {
		for i := range c {
			c[i] = *a.fill
		}
	}
	a.slots[chunkIndex].Store(&c)
	return nil
}

// chunkFor returns the chunk slice backing row, or nil if it hasn't been
// ensured yet.
func (a *Array[T]) chunkFor(row uint64) []T {
	idx := row / a.size
	if idx >= uint64(a.maxChunks) {
		return nil
	}
	ptr := a.slots[idx].Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// Set writes cell row with a plain (non-atomic) slice-element store. The
// caller must have already called EnsureChunk for row's chunk; each row
// index is owned by exactly one writer (established by the table's tail
// cursor), so no per-cell synchronization is needed for column payloads.
// Callers that need a real release-store on the cell itself (internal/mvcc's
// creation timestamps) must go through Cell instead.
func (a *Array[T]) Set(row uint64, v T) bool {
	c := a.chunkFor(row)
	if c == nil {
		return false
	}
	c[row%a.size] = v
	return true
}

// Get reads cell row with a plain (non-atomic) slice-element load. ok is
// false if the enclosing chunk hasn't been allocated. See Set's note on
// Cell for callers that need atomic per-cell semantics.
func (a *Array[T]) Get(row uint64) (v T, ok bool) {
	c := a.chunkFor(row)
	if c == nil {
		return v, false
	}
	return c[row%a.size], true
}

// Cell returns a pointer to row's slot within its chunk, or nil if the
// chunk hasn't been allocated yet. The chunk backing slice never moves or
// reallocates once published (EnsureChunk only ever installs it once), so
// the pointer stays valid for the array's lifetime. This is the hook
// internal/mvcc uses to get a genuine atomic.Store/LoadUint64 on the cell
// address, rather than the plain access Set/Get give every other caller.
func (a *Array[T]) Cell(row uint64) (*T, bool) {
	c := a.chunkFor(row)
	if c == nil {
		return nil, false
	}
	return &c[row%a.size], true
}
