package world

// LayeredAccessor resolves voxel lookups for one chunk build. A position is
// answered from the bound section when it falls inside it, then from the owning
// chunk, and only then from the world. Neighbour lookups at section or chunk
// edges therefore stay correct without a world lookup for the common case.
//
// A LayeredAccessor is not safe for concurrent use; each build owns one.
type LayeredAccessor struct {
	world   World
	chunk   *Chunk
	section *Section
	origin  BlockPos
	end     BlockPos
}

// NewLayeredAccessor binds an accessor to a chunk. No section is active until
// SetActiveSection is called.
func NewLayeredAccessor(w World, c *Chunk) *LayeredAccessor {
	return &LayeredAccessor{world: w, chunk: c}
}

// SetActiveSection binds the accessor to section index of the current chunk.
// It must be called again for every section processed; a stale binding maps
// positions to the wrong local coordinates.
func (a *LayeredAccessor) SetActiveSection(s *Section, index int) {
	a.section = s
	a.origin = a.chunk.SectionOrigin(index)
	a.end = a.origin.Offset(SectionSize-1, SectionSize-1, SectionSize-1)
}

// ActiveOrigin returns the world origin of the bound section.
func (a *LayeredAccessor) ActiveOrigin() BlockPos {
	return a.origin
}

func (a *LayeredAccessor) inSection(p BlockPos) bool {
	return a.section != nil && inArea(p, a.origin, a.end)
}

// StateAt returns the state at a world position.
func (a *LayeredAccessor) StateAt(p BlockPos) VoxelState {
	switch {
	case a.world != nil && a.world.IsDebug():
		return a.world.StateAt(p)
	case a.inSection(p):
		return a.section.StateAt(p.X-a.origin.X, p.Y-a.origin.Y, p.Z-a.origin.Z)
	case a.chunk.Contains(p):
		return a.chunk.StateAt(p)
	case a.world != nil:
		return a.world.StateAt(p)
	default:
		return Air
	}
}

// FluidAt returns the fluid at a world position. The debug override does not apply.
func (a *LayeredAccessor) FluidAt(p BlockPos) FluidState {
	switch {
	case a.inSection(p):
		return a.section.FluidAt(p.X-a.origin.X, p.Y-a.origin.Y, p.Z-a.origin.Z)
	case a.chunk.Contains(p):
		return a.chunk.FluidAt(p)
	case a.world != nil:
		return a.world.FluidAt(p)
	default:
		return FluidState{}
	}
}

// Height returns the world height.
func (a *LayeredAccessor) Height() int {
	if a.world == nil {
		return len(a.chunk.sections) * SectionSize
	}
	return a.world.Height()
}

// MinY returns the world's lowest Y.
func (a *LayeredAccessor) MinY() int {
	if a.world == nil {
		return a.chunk.minY
	}
	return a.world.MinY()
}
