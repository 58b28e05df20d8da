package pipeline

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"

	"chunkforge/internal/world"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 32

// shardedMap is a chunk-keyed map split into independently locked shards.
// Every operation takes exactly one shard lock.
type shardedMap[V any] struct {
	shards []mapShard[V]
	mask   uint64
}

type mapShard[V any] struct {
	mu sync.RWMutex
	m  map[world.ChunkCoord]V
}

// newShardedMap rounds n up to a power of two.
func newShardedMap[V any](n int) *shardedMap[V] {
	size := 1
	for size < n {
		size <<= 1
	}
	sm := &shardedMap[V]{
		shards: make([]mapShard[V], size),
		mask:   uint64(size - 1),
	}
	for i := range sm.shards {
		sm.shards[i].m = make(map[world.ChunkCoord]V)
	}
	return sm
}

func (sm *shardedMap[V]) shard(c world.ChunkCoord) *mapShard[V] {
	var key [8]byte
	binary.LittleEndian.PutUint32(key[0:4], uint32(c.X))
	binary.LittleEndian.PutUint32(key[4:8], uint32(c.Z))
	return &sm.shards[xxhash.Sum64(key[:])&sm.mask]
}

func (sm *shardedMap[V]) Get(c world.ChunkCoord) (V, bool) {
	s := sm.shard(c)
	s.mu.RLock()
	v, ok := s.m[c]
	s.mu.RUnlock()
	return v, ok
}

func (sm *shardedMap[V]) Has(c world.ChunkCoord) bool {
	_, ok := sm.Get(c)
	return ok
}

// Put stores v under c and reports whether c was new.
func (sm *shardedMap[V]) Put(c world.ChunkCoord, v V) bool {
	s := sm.shard(c)
	s.mu.Lock()
	_, existed := s.m[c]
	s.m[c] = v
	s.mu.Unlock()
	return !existed
}

// Delete removes c and reports whether it was present.
func (sm *shardedMap[V]) Delete(c world.ChunkCoord) bool {
	s := sm.shard(c)
	s.mu.Lock()
	_, ok := s.m[c]
	delete(s.m, c)
	s.mu.Unlock()
	return ok
}

// Clear empties the map one shard at a time.
func (sm *shardedMap[V]) Clear() {
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.Lock()
		clear(s.m)
		s.mu.Unlock()
	}
}

func (sm *shardedMap[V]) Len() int {
	n := 0
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Keys returns a point-in-time copy of the keys, shard by shard.
func (sm *shardedMap[V]) Keys() []world.ChunkCoord {
	keys := make([]world.ChunkCoord, 0, sm.Len())
	for i := range sm.shards {
		s := &sm.shards[i]
		s.mu.RLock()
		for k := range s.m {
			keys = append(keys, k)
		}
		s.mu.RUnlock()
	}
	return keys
}
