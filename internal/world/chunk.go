package world

const (
	// Chunk footprint
	ChunkSizeX = 16
	ChunkSizeZ = 16

	// Section dimensions
	SectionSize   = 16
	SectionVolume = SectionSize * SectionSize * SectionSize

	// Default vertical layout: 16 sections from y=0 to y=255
	DefaultMinY     = 0
	DefaultSections = 16
)

// Section is a 16x16x16 band of a chunk. A section whose storage was never
// allocated holds only air.
type Section struct {
	states []VoxelState
	nonAir int
}

// NewSection returns an all-air section.
func NewSection() *Section {
	return &Section{}
}

// indexInSection converts local section coordinates to a flat index (y-major, then z, then x).
func indexInSection(x, y, z int) int {
	return (y*SectionSize+z)*SectionSize + x
}

// StateAt returns the state at local section coordinates.
func (s *Section) StateAt(x, y, z int) VoxelState {
	if s == nil || s.states == nil {
		return Air
	}
	if x < 0 || x >= SectionSize || y < 0 || y >= SectionSize || z < 0 || z >= SectionSize {
		return Air
	}
	return s.states[indexInSection(x, y, z)]
}

// FluidAt returns the fluid at local section coordinates.
func (s *Section) FluidAt(x, y, z int) FluidState {
	return s.StateAt(x, y, z).Fluid()
}

// Set stores a state at local section coordinates.
func (s *Section) Set(x, y, z int, st VoxelState) {
	if x < 0 || x >= SectionSize || y < 0 || y >= SectionSize || z < 0 || z >= SectionSize {
		return
	}
	if s.states == nil {
		if st.IsAir() {
			return
		}
		s.states = make([]VoxelState, SectionVolume)
	}
	idx := indexInSection(x, y, z)
	old := s.states[idx]
	if old == st {
		return
	}
	switch {
	case old.IsAir() && !st.IsAir():
		s.nonAir++
	case !old.IsAir() && st.IsAir():
		s.nonAir--
	}
	s.states[idx] = st
	if s.nonAir == 0 {
		s.states = nil
	}
}

// HasOnlyAir reports whether every voxel in the section is air.
func (s *Section) HasOnlyAir() bool {
	return s == nil || s.nonAir == 0
}

// NonAirCount returns the number of non-air voxels.
func (s *Section) NonAirCount() int {
	if s == nil {
		return 0
	}
	return s.nonAir
}

// Chunk is a vertical column of sections. The build pipeline treats it as read-only.
type Chunk struct {
	Coord    ChunkCoord
	minY     int
	sections []*Section
}

// NewChunk creates an all-air chunk with the given vertical layout.
// minY must be a multiple of SectionSize.
func NewChunk(coord ChunkCoord, minY, sectionCount int) *Chunk {
	c := &Chunk{
		Coord:    coord,
		minY:     minY,
		sections: make([]*Section, sectionCount),
	}
	for i := range c.sections {
		c.sections[i] = NewSection()
	}
	return c
}

// MinY returns the lowest world Y covered by the chunk.
func (c *Chunk) MinY() int { return c.minY }

// MaxY returns the highest world Y covered by the chunk.
func (c *Chunk) MaxY() int { return c.minY + len(c.sections)*SectionSize - 1 }

// Sections returns the chunk's sections, lowest first. Callers must not modify the slice.
func (c *Chunk) Sections() []*Section { return c.sections }

// SectionOrigin returns the world position of the lowest corner of section i.
func (c *Chunk) SectionOrigin(i int) BlockPos {
	return BlockPos{
		X: c.Coord.MinBlockX(),
		Y: c.minY + i*SectionSize,
		Z: c.Coord.MinBlockZ(),
	}
}

// Contains reports whether a world position falls inside the chunk's extent.
func (c *Chunk) Contains(p BlockPos) bool {
	minX, minZ := c.Coord.MinBlockX(), c.Coord.MinBlockZ()
	return p.X >= minX && p.X < minX+ChunkSizeX &&
		p.Z >= minZ && p.Z < minZ+ChunkSizeZ &&
		p.Y >= c.minY && p.Y <= c.MaxY()
}

func (c *Chunk) locate(p BlockPos) (*Section, int, int, int, bool) {
	if !c.Contains(p) {
		return nil, 0, 0, 0, false
	}
	rel := p.Y - c.minY
	return c.sections[rel/SectionSize], mod(p.X, ChunkSizeX), rel % SectionSize, mod(p.Z, ChunkSizeZ), true
}

// StateAt returns the state at a world position, or air outside the chunk.
func (c *Chunk) StateAt(p BlockPos) VoxelState {
	sec, x, y, z, ok := c.locate(p)
	if !ok {
		return Air
	}
	return sec.StateAt(x, y, z)
}

// FluidAt returns the fluid at a world position.
func (c *Chunk) FluidAt(p BlockPos) FluidState {
	return c.StateAt(p).Fluid()
}

// SetBlock stores a state at a world position inside the chunk. It belongs to
// the world layer; the build pipeline never calls it.
func (c *Chunk) SetBlock(p BlockPos, st VoxelState) {
	sec, x, y, z, ok := c.locate(p)
	if !ok {
		return
	}
	sec.Set(x, y, z, st)
}

// IsEmpty reports whether every section holds only air.
func (c *Chunk) IsEmpty() bool {
	for _, s := range c.sections {
		if !s.HasOnlyAir() {
			return false
		}
	}
	return true
}
