package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"chunkforge/internal/meshing"
	"chunkforge/internal/world"
)

// BuiltChunk is the geometry produced for one chunk. It is never modified
// after being stored; a rebuild replaces it.
type BuiltChunk struct {
	Coord world.ChunkCoord
	// Mesh vertices are chunk-local in the backend frame (see meshing.LocalPos).
	Mesh meshing.Mesh
	// Bounds are chunk-local in the same frame as Mesh.
	Bounds []meshing.BoundingVolume
	// Origin is the chunk's corner in the backend world frame.
	Origin mgl32.Vec3
}

// chunkOrigin places a chunk in the backend frame, where Z is negated.
func chunkOrigin(c world.ChunkCoord) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.MinBlockX()), 0, -float32(c.MinBlockZ())}
}

// WorldBounds returns the bounding volumes translated to world space.
func (b *BuiltChunk) WorldBounds() []meshing.BoundingVolume {
	out := make([]meshing.BoundingVolume, len(b.Bounds))
	for i, v := range b.Bounds {
		out[i] = v.Translate(b.Origin)
	}
	return out
}

// IsEmpty reports whether the chunk produced no geometry at all.
func (b *BuiltChunk) IsEmpty() bool {
	return b.Mesh.IsEmpty() && len(b.Bounds) == 0
}

// Uploader receives finished chunk meshes for the GPU backend. Calls are
// fire-and-forget; the uploader owns the slices it is given.
type Uploader interface {
	UploadChunkMesh(chunkX, chunkZ int32, vertices []float32, indices []uint32)
}

// Forgetter is implemented by uploaders that retain meshes. The builder calls
// ForgetChunkMesh when a chunk's artifact is dropped or rebuilt without a mesh.
type Forgetter interface {
	ForgetChunkMesh(chunkX, chunkZ int32)
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(chunkX, chunkZ int32, vertices []float32, indices []uint32)

func (f UploaderFunc) UploadChunkMesh(chunkX, chunkZ int32, vertices []float32, indices []uint32) {
	f(chunkX, chunkZ, vertices, indices)
}

// NopUploader discards every mesh.
type NopUploader struct{}

func (NopUploader) UploadChunkMesh(int32, int32, []float32, []uint32) {}
