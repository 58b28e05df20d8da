package snapshot

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chunkforge/internal/world"
)

func sampleStore() *world.ChunkStore {
	store := world.NewChunkStoreWithLayout(-16, 4)
	gen := world.NewGenerator(99)
	for x := int32(-1); x <= 0; x++ {
		for z := int32(0); z <= 1; z++ {
			c := store.NewChunk(world.ChunkCoord{X: x, Z: z})
			gen.PopulateChunk(c)
			store.AddChunk(c)
		}
	}
	store.SetBlock(world.BlockPos{X: 3, Y: 40, Z: 3}, world.StateGlass)
	store.SetBlock(world.BlockPos{X: 4, Y: 40, Z: 3}, world.StateWater)
	return store
}

func TestSaveLoadPreservesVoxels(t *testing.T) {
	store := sampleStore()
	path := filepath.Join(t.TempDir(), "snap", "world.nbt.zst")
	require.NoError(t, Save(path, store))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, store.MinY(), loaded.MinY())
	assert.Equal(t, store.Height(), loaded.Height())
	require.Equal(t, store.Len(), loaded.Len())

	for _, c := range store.ResidentChunks() {
		other := loaded.Chunk(c.Coord)
		require.NotNil(t, other, "chunk %s missing", c.Coord)
		for y := c.MinY(); y <= c.MaxY(); y++ {
			for z := range world.ChunkSizeZ {
				for x := range world.ChunkSizeX {
					p := world.BlockPos{X: c.Coord.MinBlockX() + x, Y: y, Z: c.Coord.MinBlockZ() + z}
					if got, want := other.StateAt(p), c.StateAt(p); got != want {
						t.Fatalf("state at %v: got %v, want %v", p, got, want)
					}
				}
			}
		}
	}
	assert.False(t, loaded.StateAt(world.BlockPos{X: 4, Y: 40, Z: 3}).Fluid().IsEmpty())
}

func TestEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, world.NewChunkStore()))
	loaded, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestAirOnlyChunkRoundTrips(t *testing.T) {
	store := world.NewChunkStore()
	store.AddChunk(store.NewChunk(world.ChunkCoord{X: 5, Z: -5}))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, store))
	loaded, err := Read(&buf)
	require.NoError(t, err)
	require.True(t, loaded.HasChunk(world.ChunkCoord{X: 5, Z: -5}))
	assert.True(t, loaded.Chunk(world.ChunkCoord{X: 5, Z: -5}).IsEmpty())
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a snapshot")))
	assert.Error(t, err)

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte{0x0a, 0x00})
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	_, err = Read(&buf)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
