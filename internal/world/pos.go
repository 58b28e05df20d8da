package world

import "fmt"

// ChunkCoord identifies a chunk column on the horizontal grid.
type ChunkCoord struct {
	X, Z int32
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("[%d, %d]", c.X, c.Z)
}

// MinBlockX returns the lowest world X covered by the chunk.
func (c ChunkCoord) MinBlockX() int { return int(c.X) * ChunkSizeX }

// MinBlockZ returns the lowest world Z covered by the chunk.
func (c ChunkCoord) MinBlockZ() int { return int(c.Z) * ChunkSizeZ }

// BlockPos is a world-absolute voxel position.
type BlockPos struct {
	X, Y, Z int
}

func (p BlockPos) Offset(dx, dy, dz int) BlockPos {
	return BlockPos{p.X + dx, p.Y + dy, p.Z + dz}
}

func (p BlockPos) Above() BlockPos { return p.Offset(0, 1, 0) }
func (p BlockPos) Below() BlockPos { return p.Offset(0, -1, 0) }
func (p BlockPos) North() BlockPos { return p.Offset(0, 0, -1) }
func (p BlockPos) South() BlockPos { return p.Offset(0, 0, 1) }
func (p BlockPos) East() BlockPos  { return p.Offset(1, 0, 0) }
func (p BlockPos) West() BlockPos  { return p.Offset(-1, 0, 0) }

// ChunkCoordOf returns the column containing the position.
func ChunkCoordOf(p BlockPos) ChunkCoord {
	return ChunkCoord{X: int32(floorDiv(p.X, ChunkSizeX)), Z: int32(floorDiv(p.Z, ChunkSizeZ))}
}

// inArea reports whether p lies in the closed box [min, max].
func inArea(p, min, max BlockPos) bool {
	return p.X >= min.X && p.X <= max.X &&
		p.Y >= min.Y && p.Y <= max.Y &&
		p.Z >= min.Z && p.Z <= max.Z
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
