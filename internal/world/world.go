package world

// World is the voxel world as seen by the build pipeline. Implementations are
// supplied by the streaming layer; ChunkStore is the in-memory one.
type World interface {
	// ResidentChunks returns every chunk currently held by the world.
	ResidentChunks() []*Chunk
	StateAt(p BlockPos) VoxelState
	FluidAt(p BlockPos) FluidState
	// Height is the vertical extent of the world in blocks.
	Height() int
	MinY() int
	// IsDebug reports whether the world renders its debug layout, in which case
	// neighbour lookups must bypass any cached chunk data.
	IsDebug() bool
}

// StateGetter answers voxel lookups by world position.
type StateGetter interface {
	StateAt(p BlockPos) VoxelState
}

// Listener receives streaming events. The chunk build pipeline implements it.
type Listener interface {
	Load(c *Chunk)
	Unload(coord ChunkCoord)
}
