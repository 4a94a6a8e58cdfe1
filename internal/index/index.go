// Package index implements the sharded equality index: value -> list of
// row indices, sharded by FNV-1a hash with a per-shard spinlock. A spinlock
// is appropriate here because the critical section is a short map insert
// or probe and the shard fan-out keeps contention low, the same tradeoff
// the source's HashIndex makes with std::atomic_flag.
package index

import (
	"hash/fnv"
	"runtime"
	"sync/atomic"
)

// DefaultShardCount matches the source's fixed shard fan-out.
const DefaultShardCount = 1024

type shard struct {
	locked atomic.Bool
	// padding keeps each shard on its own cache line so spinning on one
	// shard's lock doesn't thrash a neighbor's.
	_    [7]uint64
	data map[string][]uint64
}

func (s *shard) lock() {
	for !s.locked.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *shard) unlock() {
	s.locked.Store(false)
}

// Index is a fixed number of independently-locked shards, each mapping a
// string key to the (unordered, undeduplicated) list of row indices
// inserted under that key. Shards are stored by value in one contiguous
// slice so the padding in shard actually separates cache lines; storing
// them by pointer would put each shard in its own heap allocation, where
// the padding buys nothing.
type Index struct {
	shards []shard
}

// New builds an Index with shardCount shards. shardCount<=0 uses
// DefaultShardCount.
func New(shardCount int) *Index {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	shards := make([]shard, shardCount)
	for i := range shards {
		shards[i].data = make(map[string][]uint64)
	}
	return &Index{shards: shards}
}

func (ix *Index) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &ix.shards[h.Sum32()%uint32(len(ix.shards))]
}

// Insert appends row to key's bucket. No deduplication: duplicate values
// are expected, since every insert of an equal key produces a new physical
// row.
func (ix *Index) Insert(key string, row uint64) {
	s := ix.shardFor(key)
	s.lock()
	s.data[key] = append(s.data[key], row)
	s.unlock()
}

// Lookup copies out key's bucket, or returns nil if key was never
// inserted. Bucket order follows insertion order within the shard; callers
// must not depend on that order for correctness, only on completeness.
func (ix *Index) Lookup(key string) []uint64 {
	s := ix.shardFor(key)
	s.lock()
	bucket := s.data[key]
	out := make([]uint64, len(bucket))
	copy(out, bucket)
	s.unlock()
	return out
}
