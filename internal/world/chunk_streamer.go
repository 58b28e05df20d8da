package world

import (
	"math"
	"runtime"
	"sync"

	"chunkforge/internal/profiling"
)

// ChunkStreamer generates chunk columns around a point, installs them in the
// store and forwards load/unload events to a Listener.
type ChunkStreamer struct {
	jobs       chan ChunkCoord
	pending    map[ChunkCoord]struct{}
	pendingMu  sync.Mutex
	maxPending int

	maxJobsPerCall int

	closeOnce sync.Once
	wg        sync.WaitGroup

	// Dependencies
	store    *ChunkStore
	gen      TerrainGenerator
	listener Listener
}

// NewChunkStreamer creates a streamer with NumCPU background workers. The
// listener may be nil.
func NewChunkStreamer(store *ChunkStore, gen TerrainGenerator, listener Listener) *ChunkStreamer {
	cs := &ChunkStreamer{
		jobs:           make(chan ChunkCoord, 4096),
		pending:        make(map[ChunkCoord]struct{}),
		maxJobsPerCall: 2048,
		maxPending:     16384,
		store:          store,
		gen:            gen,
		listener:       listener,
	}

	workers := max(runtime.NumCPU(), 1)
	for i := 0; i < workers; i++ {
		cs.wg.Add(1)
		go cs.worker()
	}

	return cs
}

// Close stops the background generation workers and waits for them to exit.
func (cs *ChunkStreamer) Close() {
	cs.closeOnce.Do(func() {
		close(cs.jobs)
		cs.wg.Wait()
	})
}

func (cs *ChunkStreamer) worker() {
	defer cs.wg.Done()
	for coord := range cs.jobs {
		cs.generateChunkSync(coord)
		cs.pendingMu.Lock()
		delete(cs.pending, coord)
		cs.pendingMu.Unlock()
	}
}

// generateChunkSync builds and installs a chunk if missing.
func (cs *ChunkStreamer) generateChunkSync(coord ChunkCoord) {
	if cs.store.HasChunk(coord) {
		return
	}

	chunk := cs.store.NewChunk(coord)
	cs.gen.PopulateChunk(chunk)

	cs.store.AddChunk(chunk)
	if cs.listener != nil {
		cs.listener.Load(chunk)
	}
}

func chunkAt(x, z float32) (int, int) {
	cx := floorDiv(int(math.Floor(float64(x))), ChunkSizeX)
	cz := floorDiv(int(math.Floor(float64(z))), ChunkSizeZ)
	return cx, cz
}

// StreamAroundSync loads every column within radius synchronously.
func (cs *ChunkStreamer) StreamAroundSync(x, z float32, radius int) {
	defer profiling.Track("world.StreamAroundSync")()
	cx, cz := chunkAt(x, z)
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			cs.generateChunkSync(ChunkCoord{X: int32(cx + dx), Z: int32(cz + dz)})
		}
	}
}

// StreamAroundAsync queues columns for async loading in rings of growing
// radius, so the nearest columns arrive first. It returns the number queued.
func (cs *ChunkStreamer) StreamAroundAsync(x, z float32, radius int) int {
	defer profiling.Track("world.StreamAroundAsync")()
	cx, cz := chunkAt(x, z)

	jobsPushed := 0
	push := func(xk, zk int) bool {
		if cs.requestChunkLimited(ChunkCoord{X: int32(xk), Z: int32(zk)}) {
			jobsPushed++
		}
		return jobsPushed < cs.maxJobsPerCall
	}

	if !push(cx, cz) {
		return jobsPushed
	}
	for r := 1; r <= radius; r++ {
		x0, x1 := cx-r, cx+r
		z0, z1 := cz-r, cz+r

		for xk := x0; xk <= x1; xk++ {
			if !push(xk, z0) {
				return jobsPushed
			}
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			if !push(x1, zk) {
				return jobsPushed
			}
		}
		for xk := x1; xk >= x0; xk-- {
			if !push(xk, z1) {
				return jobsPushed
			}
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			if !push(x0, zk) {
				return jobsPushed
			}
		}
	}
	return jobsPushed
}

// requestChunkLimited respects pending cap and returns true if enqueued.
func (cs *ChunkStreamer) requestChunkLimited(coord ChunkCoord) bool {
	if cs.store.HasChunk(coord) {
		return false
	}

	cs.pendingMu.Lock()
	if _, ok := cs.pending[coord]; ok {
		cs.pendingMu.Unlock()
		return false
	}
	if cs.maxPending > 0 && len(cs.pending) >= cs.maxPending {
		cs.pendingMu.Unlock()
		return false
	}
	cs.pending[coord] = struct{}{}
	cs.pendingMu.Unlock()

	select {
	case cs.jobs <- coord:
		return true
	default:
		// queue full: rollback
		cs.pendingMu.Lock()
		delete(cs.pending, coord)
		cs.pendingMu.Unlock()
		return false
	}
}

// Pending returns the number of queued or in-flight columns.
func (cs *ChunkStreamer) Pending() int {
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	return len(cs.pending)
}

// EvictFar removes columns outside radius and reports each one to the listener.
func (cs *ChunkStreamer) EvictFar(x, z float32, radius int) int {
	cx, cz := chunkAt(x, z)
	removed := cs.store.EvictFarChunks(cx, cz, radius)
	if cs.listener != nil {
		for _, coord := range removed {
			cs.listener.Unload(coord)
		}
	}
	return len(removed)
}
