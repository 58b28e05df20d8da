// Package export writes uploaded chunk meshes to a binary glTF file, for
// inspecting pipeline output without a GPU backend.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"chunkforge/internal/world"
)

type chunkMesh struct {
	vertices []float32
	indices  []uint32
}

// GLTFUploader collects the latest mesh of every built chunk and writes them
// as one glTF scene with a node per chunk. It satisfies pipeline.Uploader and
// pipeline.Forgetter, so unloaded chunks drop out of the export.
type GLTFUploader struct {
	log *slog.Logger

	mu     sync.Mutex
	meshes map[world.ChunkCoord]chunkMesh
}

func NewGLTFUploader(log *slog.Logger) *GLTFUploader {
	if log == nil {
		log = slog.Default()
	}
	return &GLTFUploader{
		log:    log.With("component", "export"),
		meshes: make(map[world.ChunkCoord]chunkMesh),
	}
}

// UploadChunkMesh records the mesh, replacing any earlier one for the chunk.
func (u *GLTFUploader) UploadChunkMesh(chunkX, chunkZ int32, vertices []float32, indices []uint32) {
	u.mu.Lock()
	u.meshes[world.ChunkCoord{X: chunkX, Z: chunkZ}] = chunkMesh{vertices: vertices, indices: indices}
	u.mu.Unlock()
}

// ForgetChunkMesh drops the chunk's mesh so it is left out of the export.
func (u *GLTFUploader) ForgetChunkMesh(chunkX, chunkZ int32) {
	u.mu.Lock()
	delete(u.meshes, world.ChunkCoord{X: chunkX, Z: chunkZ})
	u.mu.Unlock()
}

// Len returns the number of chunks holding a mesh.
func (u *GLTFUploader) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.meshes)
}

// Document assembles the collected meshes. Each chunk becomes a node
// translated to its origin in the backend frame, where Z is negated.
func (u *GLTFUploader) Document() *gltf.Document {
	u.mu.Lock()
	coords := make([]world.ChunkCoord, 0, len(u.meshes))
	for c := range u.meshes {
		coords = append(coords, c)
	}
	snapshot := make(map[world.ChunkCoord]chunkMesh, len(u.meshes))
	for c, m := range u.meshes {
		snapshot[c] = m
	}
	u.mu.Unlock()

	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Z < coords[j].Z
	})

	doc := gltf.NewDocument()
	for _, c := range coords {
		m := snapshot[c]
		positions := make([][3]float32, len(m.vertices)/3)
		for i := range positions {
			positions[i] = [3]float32{m.vertices[3*i], m.vertices[3*i+1], m.vertices[3*i+2]}
		}
		pos := modeler.WritePosition(doc, positions)
		idx := modeler.WriteIndices(doc, m.indices)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: fmt.Sprintf("chunk_%d_%d", c.X, c.Z),
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(idx),
				Attributes: map[string]uint32{gltf.POSITION: pos},
				Mode:       gltf.PrimitiveTriangles,
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        fmt.Sprintf("chunk_%d_%d", c.X, c.Z),
			Mesh:        gltf.Index(uint32(len(doc.Meshes) - 1)),
			Translation: [3]float32{float32(c.MinBlockX()), 0, -float32(c.MinBlockZ())},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}
	return doc
}

// Save writes the collected meshes to path as binary glTF.
func (u *GLTFUploader) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create export dir")
	}
	doc := u.Document()
	if err := gltf.SaveBinary(doc, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	u.log.Info("exported chunk meshes", "path", path, "chunks", len(doc.Meshes))
	return nil
}
