package meshing

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"chunkforge/internal/world"
)

// VertexStride is the number of float32 per vertex (pos.xyz).
const VertexStride = 3

// LocalPos is a voxel position relative to its chunk in the backend's frame:
// X and Z are taken modulo the chunk footprint, Y stays world-absolute, and Z
// is negated to match the backend's handedness.
type LocalPos struct {
	X, Y, Z int
}

// ToLocal converts a world position to the chunk-local backend frame.
func ToLocal(p world.BlockPos) LocalPos {
	return LocalPos{
		X: p.X & (world.ChunkSizeX - 1),
		Y: p.Y,
		Z: -(p.Z & (world.ChunkSizeZ - 1)),
	}
}

// Vec3 returns the position as a float vector.
func (p LocalPos) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

// Mesh is an indexed triangle list. Indices refer to vertices of the same mesh.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// IsEmpty reports whether the mesh holds no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Reset truncates the mesh, keeping its capacity.
func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// AppendRebased appends other to m, shifting other's indices past m's vertices.
// An index outside other's own vertex range is a generator bug and panics.
func (m *Mesh) AppendRebased(other *Mesh) {
	if len(other.Vertices)%VertexStride != 0 {
		panic(errors.Errorf("meshing: vertex buffer length %d is not a multiple of %d", len(other.Vertices), VertexStride))
	}
	offset := uint32(m.VertexCount())
	count := uint32(other.VertexCount())
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, idx := range other.Indices {
		if idx >= count {
			panic(errors.Errorf("meshing: index %d out of range for %d vertices", idx, count))
		}
		m.Indices = append(m.Indices, idx+offset)
	}
}

// Clone returns a copy that shares no memory with m.
func (m *Mesh) Clone() Mesh {
	out := Mesh{}
	if len(m.Vertices) > 0 {
		out.Vertices = append(make([]float32, 0, len(m.Vertices)), m.Vertices...)
	}
	if len(m.Indices) > 0 {
		out.Indices = append(make([]uint32, 0, len(m.Indices)), m.Indices...)
	}
	return out
}

// Validate checks that the buffers are consistent.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%VertexStride != 0 {
		return errors.Errorf("vertex buffer length %d is not a multiple of %d", len(m.Vertices), VertexStride)
	}
	if len(m.Indices)%3 != 0 {
		return errors.Errorf("index buffer length %d is not a multiple of 3", len(m.Indices))
	}
	count := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= count {
			return errors.Errorf("index %d at %d out of range for %d vertices", idx, i, count)
		}
	}
	return nil
}

// BoundingVolume is an axis-aligned box.
type BoundingVolume struct {
	Min, Max mgl32.Vec3
}

// Translate returns the box moved by d.
func (b BoundingVolume) Translate(d mgl32.Vec3) BoundingVolume {
	return BoundingVolume{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Size returns the box extent per axis.
func (b BoundingVolume) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}
