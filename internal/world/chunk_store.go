package world

import (
	"sort"
	"sync"
	"sync/atomic"

	"chunkforge/internal/profiling"
)

// ChunkStore is an in-memory World holding resident chunk columns.
type ChunkStore struct {
	chunks   map[ChunkCoord]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove

	minY     int
	sections int
	debug    atomic.Bool
}

// NewChunkStore creates a store using the default vertical layout.
func NewChunkStore() *ChunkStore {
	return NewChunkStoreWithLayout(DefaultMinY, DefaultSections)
}

// NewChunkStoreWithLayout creates a store whose chunks span sections*16 blocks from minY.
func NewChunkStoreWithLayout(minY, sections int) *ChunkStore {
	return &ChunkStore{
		chunks:   make(map[ChunkCoord]*Chunk),
		minY:     minY,
		sections: sections,
	}
}

// NewChunk creates an empty chunk matching the store's layout. It is not added.
func (cs *ChunkStore) NewChunk(coord ChunkCoord) *Chunk {
	return NewChunk(coord, cs.minY, cs.sections)
}

// Chunk returns the chunk at coord, or nil.
func (cs *ChunkStore) Chunk(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// HasChunk checks if a chunk exists.
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// AddChunk installs a chunk, replacing any previous one at the same coordinate.
func (cs *ChunkStore) AddChunk(chunk *Chunk) {
	cs.mu.Lock()
	cs.chunks[chunk.Coord] = chunk
	cs.modCount++
	cs.mu.Unlock()
}

// RemoveChunk drops the chunk at coord and reports whether one was present.
func (cs *ChunkStore) RemoveChunk(coord ChunkCoord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[coord]; !ok {
		return false
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return true
}

// ResidentChunks returns all chunks ordered by (X, Z).
func (cs *ChunkStore) ResidentChunks() []*Chunk {
	cs.mu.RLock()
	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coord, out[j].Coord
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	return out
}

// Len returns the number of resident chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// StateAt returns the state at a world position; unloaded space is air.
func (cs *ChunkStore) StateAt(p BlockPos) VoxelState {
	chunk := cs.Chunk(ChunkCoordOf(p))
	if chunk == nil {
		return Air
	}
	return chunk.StateAt(p)
}

// FluidAt returns the fluid at a world position.
func (cs *ChunkStore) FluidAt(p BlockPos) FluidState {
	return cs.StateAt(p).Fluid()
}

// SetBlock sets the state at a world position, creating the chunk if needed.
func (cs *ChunkStore) SetBlock(p BlockPos, st VoxelState) {
	coord := ChunkCoordOf(p)
	cs.mu.Lock()
	chunk, ok := cs.chunks[coord]
	if !ok {
		chunk = NewChunk(coord, cs.minY, cs.sections)
		cs.chunks[coord] = chunk
		cs.modCount++
	}
	cs.mu.Unlock()
	chunk.SetBlock(p, st)
}

// Height returns the vertical extent in blocks.
func (cs *ChunkStore) Height() int { return cs.sections * SectionSize }

// MinY returns the lowest world Y.
func (cs *ChunkStore) MinY() int { return cs.minY }

// IsDebug reports whether the debug override is active.
func (cs *ChunkStore) IsDebug() bool { return cs.debug.Load() }

// SetDebug toggles the debug override.
func (cs *ChunkStore) SetDebug(v bool) { cs.debug.Store(v) }

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarChunks removes chunks outside the given radius (in chunks) around
// (cx, cz) and returns their coordinates.
func (cs *ChunkStore) EvictFarChunks(cx, cz, radius int) []ChunkCoord {
	defer profiling.Track("world.EvictFarChunks")()
	var removed []ChunkCoord
	cs.mu.Lock()
	for coord := range cs.chunks {
		dx := int(coord.X) - cx
		dz := int(coord.Z) - cz
		if dx*dx+dz*dz > radius*radius {
			delete(cs.chunks, coord)
			cs.modCount++
			removed = append(removed, coord)
		}
	}
	cs.mu.Unlock()
	return removed
}
