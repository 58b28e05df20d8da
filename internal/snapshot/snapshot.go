// Package snapshot saves and restores the resident chunks of a ChunkStore as
// a zstd-compressed NBT document.
package snapshot

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"chunkforge/internal/profiling"
	"chunkforge/internal/world"
)

// Version is the format version written by Write.
const Version = 1

type fileV1 struct {
	Version  int32     `nbt:"version"`
	MinY     int32     `nbt:"min_y"`
	Sections int32     `nbt:"sections"`
	Chunks   []chunkV1 `nbt:"chunks"`
}

type chunkV1 struct {
	X        int32       `nbt:"x"`
	Z        int32       `nbt:"z"`
	Sections []sectionV1 `nbt:"sections"`
}

// sectionV1 stores one non-air section as a palette plus one palette index
// per voxel in section index order (y, then z, then x).
type sectionV1 struct {
	Index   int32     `nbt:"index"`
	Palette []stateV1 `nbt:"palette"`
	Blocks  []int32   `nbt:"blocks"`
}

type stateV1 struct {
	ID    int32 `nbt:"id"`
	Flags byte  `nbt:"flags"`
}

// Write encodes every resident chunk of store to w.
func Write(w io.Writer, store *world.ChunkStore) error {
	defer profiling.Track("snapshot.Write")()
	doc := fileV1{
		Version:  Version,
		MinY:     int32(store.MinY()),
		Sections: int32(store.Height() / world.SectionSize),
		Chunks:   []chunkV1{},
	}
	for _, c := range store.ResidentChunks() {
		doc.Chunks = append(doc.Chunks, encodeChunk(c))
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrap(err, "zstd writer")
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := nbt.NewEncoder(bw).Encode(doc, ""); err != nil {
		enc.Close()
		return errors.Wrap(err, "nbt encode")
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return errors.Wrap(err, "flush")
	}
	return errors.Wrap(enc.Close(), "zstd close")
}

func encodeChunk(c *world.Chunk) chunkV1 {
	out := chunkV1{X: c.Coord.X, Z: c.Coord.Z, Sections: []sectionV1{}}
	for i, sec := range c.Sections() {
		if sec.HasOnlyAir() {
			continue
		}
		palette := map[world.VoxelState]int32{}
		s := sectionV1{Index: int32(i), Blocks: make([]int32, 0, world.SectionVolume)}
		for y := range world.SectionSize {
			for z := range world.SectionSize {
				for x := range world.SectionSize {
					st := sec.StateAt(x, y, z)
					idx, ok := palette[st]
					if !ok {
						idx = int32(len(s.Palette))
						palette[st] = idx
						s.Palette = append(s.Palette, stateV1{ID: int32(st.ID), Flags: byte(st.Flags)})
					}
					s.Blocks = append(s.Blocks, idx)
				}
			}
		}
		out.Sections = append(out.Sections, s)
	}
	return out
}

// Read decodes a snapshot into a new ChunkStore.
func Read(r io.Reader) (*world.ChunkStore, error) {
	defer profiling.Track("snapshot.Read")()
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "zstd reader")
	}
	defer dec.Close()

	var doc fileV1
	if _, err := nbt.NewDecoder(bufio.NewReaderSize(dec, 256*1024)).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "nbt decode")
	}
	if doc.Version != Version {
		return nil, errors.Errorf("unsupported snapshot version %d", doc.Version)
	}
	if doc.Sections <= 0 || doc.MinY%world.SectionSize != 0 {
		return nil, errors.Errorf("invalid layout: min_y=%d sections=%d", doc.MinY, doc.Sections)
	}

	store := world.NewChunkStoreWithLayout(int(doc.MinY), int(doc.Sections))
	for _, cd := range doc.Chunks {
		c, err := decodeChunk(store, cd)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk [%d, %d]", cd.X, cd.Z)
		}
		store.AddChunk(c)
	}
	return store, nil
}

func decodeChunk(store *world.ChunkStore, cd chunkV1) (*world.Chunk, error) {
	c := store.NewChunk(world.ChunkCoord{X: cd.X, Z: cd.Z})
	sections := c.Sections()
	for _, sd := range cd.Sections {
		if sd.Index < 0 || int(sd.Index) >= len(sections) {
			return nil, errors.Errorf("section index %d out of range", sd.Index)
		}
		if len(sd.Blocks) != world.SectionVolume {
			return nil, errors.Errorf("section %d has %d blocks", sd.Index, len(sd.Blocks))
		}
		sec := sections[sd.Index]
		i := 0
		for y := range world.SectionSize {
			for z := range world.SectionSize {
				for x := range world.SectionSize {
					p := sd.Blocks[i]
					i++
					if p < 0 || int(p) >= len(sd.Palette) {
						return nil, errors.Errorf("palette index %d out of range", p)
					}
					e := sd.Palette[p]
					sec.Set(x, y, z, world.VoxelState{ID: uint16(e.ID), Flags: world.StateFlags(e.Flags)})
				}
			}
		}
	}
	return c, nil
}

// Save writes a snapshot file, creating parent directories.
func Save(path string, store *world.ChunkStore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create snapshot dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	if err := Write(f, store); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close snapshot")
}

// Load reads a snapshot file.
func Load(path string) (*world.ChunkStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer f.Close()
	return Read(f)
}
