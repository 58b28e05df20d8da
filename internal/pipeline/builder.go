package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"chunkforge/internal/meshing"
	"chunkforge/internal/profiling"
	"chunkforge/internal/registry"
	"chunkforge/internal/world"
)

// ErrClosed is returned by a second Close and is the panic value of any
// mutating call made after Close.
var ErrClosed = errors.New("pipeline: builder closed")

// Builder tracks which chunks are loaded and turns them into BuiltChunks.
//
// A chunk is absent, loaded (known, no artifact) or built (known, artifact
// stored). Load, Unload, Rebuild and Build may be called from any goroutine.
// Each call takes one shard lock of one map at a time, so a Build that races
// an Unload of the same chunk can store an artifact after the unload removed
// it. The orphan is harmless: it is replaced by the next build or removed by
// the next unload or rebuild.
type Builder struct {
	reg *registry.Registry
	up  Uploader
	log *slog.Logger
	m   *Metrics

	depth      float32
	meshOut    bool
	boundsOut  bool
	worldMu    sync.RWMutex
	world      world.World
	loaded     *shardedMap[*world.Chunk]
	built      *shardedMap[*BuiltChunk]
	scratch    atomic.Pointer[sync.Pool]
	closed     atomic.Bool
	buildCount atomic.Uint64
}

// scratch holds the per-build buffers reused across builds.
type scratch struct {
	voxel  meshing.Mesh
	mesh   meshing.Mesh
	bounds []meshing.BoundingVolume
}

func (s *scratch) reset() {
	s.voxel.Reset()
	s.mesh.Reset()
	s.bounds = s.bounds[:0]
}

// New creates a Builder over w and marks every resident chunk loaded.
// A nil uploader discards meshes.
func New(w world.World, reg *registry.Registry, up Uploader, opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if up == nil {
		up = NopUploader{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	b := &Builder{
		reg:       reg,
		up:        up,
		log:       o.logger.With("component", "pipeline"),
		m:         o.metrics,
		depth:     o.depth,
		meshOut:   o.mesh,
		boundsOut: o.bounds,
		world:     w,
		loaded:    newShardedMap[*world.Chunk](o.shards),
		built:     newShardedMap[*BuiltChunk](o.shards),
	}
	b.scratch.Store(&sync.Pool{New: func() any { return new(scratch) }})
	b.m.setCounts(b.populate(w), 0)
	return b
}

func (b *Builder) populate(w world.World) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, c := range w.ResidentChunks() {
		if c == nil {
			continue
		}
		if b.loaded.Put(c.Coord, c) {
			n++
		}
	}
	return n
}

func (b *Builder) mustOpen() {
	if b.closed.Load() {
		panic(ErrClosed)
	}
}

func (b *Builder) currentWorld() world.World {
	b.worldMu.RLock()
	defer b.worldMu.RUnlock()
	return b.world
}

// Load marks a chunk loaded. A nil chunk is ignored. An existing artifact for
// the coordinate is kept until the next Build replaces it.
func (b *Builder) Load(c *world.Chunk) {
	b.mustOpen()
	if c == nil {
		return
	}
	if b.loaded.Put(c.Coord, c) {
		b.m.addLoaded(1)
	}
}

// Unload forgets a chunk and drops its artifact. An uploader implementing
// Forgetter is told to drop the chunk's mesh.
func (b *Builder) Unload(coord world.ChunkCoord) {
	b.mustOpen()
	if b.loaded.Delete(coord) {
		b.m.addLoaded(-1)
	}
	if b.built.Delete(coord) {
		b.m.addBuilt(-1)
		b.forget(coord)
	}
}

func (b *Builder) forget(coord world.ChunkCoord) {
	if f, ok := b.up.(Forgetter); ok {
		f.ForgetChunkMesh(coord.X, coord.Z)
	}
}

// Rebuild drops all state and reloads membership from w, which becomes the
// world used for neighbour lookups. Dropped artifacts are forgotten by the
// uploader as in Unload. No chunk is built.
func (b *Builder) Rebuild(w world.World) {
	b.mustOpen()
	b.worldMu.Lock()
	b.world = w
	b.worldMu.Unlock()

	b.loaded.Clear()
	for _, c := range b.built.Keys() {
		if b.built.Delete(c) {
			b.forget(c)
		}
	}
	n := b.populate(w)
	b.m.setCounts(n, 0)
	b.log.Info("rebuilt chunk membership", "loaded", n)
}

// Build generates geometry for a loaded chunk, stores it and hands a non-empty
// mesh to the uploader. It reports false without doing anything when the
// chunk is not loaded.
func (b *Builder) Build(coord world.ChunkCoord) (*BuiltChunk, bool) {
	b.mustOpen()
	chunk, ok := b.loaded.Get(coord)
	if !ok {
		b.m.skip()
		b.log.Debug("build skipped, chunk not loaded", "chunk", coord.String())
		return nil, false
	}
	defer profiling.Track("pipeline.Build")()
	start := time.Now()

	pool := b.scratch.Load()
	if pool == nil {
		panic(ErrClosed)
	}
	s := pool.Get().(*scratch)
	s.reset()

	b.generate(chunk, s)

	out := &BuiltChunk{
		Coord:  coord,
		Mesh:   s.mesh.Clone(),
		Origin: chunkOrigin(coord),
	}
	if len(s.bounds) > 0 {
		out.Bounds = append(make([]meshing.BoundingVolume, 0, len(s.bounds)), s.bounds...)
	}
	pool.Put(s)

	if b.built.Put(coord, out) {
		b.m.addBuilt(1)
	}
	b.buildCount.Add(1)
	b.m.observeBuild(time.Since(start).Seconds(), out)

	if !out.Mesh.IsEmpty() {
		upload := out.Mesh.Clone()
		b.up.UploadChunkMesh(coord.X, coord.Z, upload.Vertices, upload.Indices)
		b.m.upload()
	} else {
		b.forget(coord)
	}
	b.log.Debug("built chunk", "chunk", coord.String(),
		"vertices", out.Mesh.VertexCount(), "indices", len(out.Mesh.Indices), "bounds", len(out.Bounds))
	return out, true
}

// generate scans the chunk's non-air sections bottom-up and each section in
// y, z, x order, accumulating geometry into s.
func (b *Builder) generate(chunk *world.Chunk, s *scratch) {
	acc := world.NewLayeredAccessor(b.currentWorld(), chunk)
	for i, sec := range chunk.Sections() {
		if sec.HasOnlyAir() {
			continue
		}
		acc.SetActiveSection(sec, i)
		origin := acc.ActiveOrigin()
		for y := range world.SectionSize {
			for z := range world.SectionSize {
				for x := range world.SectionSize {
					st := sec.StateAt(x, y, z)
					if st.IsAir() {
						continue
					}
					pos := origin.Offset(x, y, z)
					faces := meshing.EvaluateFaces(acc, pos)
					if !faces.IsAnyVisible() {
						continue
					}
					gen := b.reg.Lookup(st)
					local := meshing.ToLocal(pos)
					if b.meshOut && gen.Has(meshing.CapMesh) {
						s.voxel.Reset()
						gen.AppendMesh(&s.voxel, faces, local)
						s.mesh.AppendRebased(&s.voxel)
					}
					if b.boundsOut {
						s.bounds = gen.AppendBounds(s.bounds, faces, local, b.depth)
					}
				}
			}
		}
	}
}

// BuildAll builds every loaded chunk using up to workers goroutines and
// returns how many were built. It stops scheduling once ctx is done.
func (b *Builder) BuildAll(ctx context.Context, workers int) (int, error) {
	defer profiling.Track("pipeline.BuildAll")()
	coords := b.LoadedCoords()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	var n atomic.Int64
	for _, c := range coords {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, ok := b.Build(c); ok {
				n.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return int(n.Load()), err
}

// IsBuilt reports whether the chunk containing pos has an artifact.
func (b *Builder) IsBuilt(pos world.BlockPos) bool {
	return b.built.Has(world.ChunkCoordOf(pos))
}

// IsLoaded reports whether the chunk is tracked.
func (b *Builder) IsLoaded(coord world.ChunkCoord) bool {
	return b.loaded.Has(coord)
}

// Built returns the stored artifact for a chunk.
func (b *Builder) Built(coord world.ChunkCoord) (*BuiltChunk, bool) {
	return b.built.Get(coord)
}

// LoadedCoords returns the coordinates currently loaded, in no particular order.
func (b *Builder) LoadedCoords() []world.ChunkCoord {
	return b.loaded.Keys()
}

func (b *Builder) LoadedCount() int { return b.loaded.Len() }
func (b *Builder) BuiltCount() int  { return b.built.Len() }

// Builds returns the number of builds completed since creation.
func (b *Builder) Builds() uint64 { return b.buildCount.Load() }

// Close releases the pooled scratch buffers. Any later Load, Unload, Rebuild
// or Build panics with ErrClosed.
func (b *Builder) Close() error {
	if b.closed.Swap(true) {
		return ErrClosed
	}
	b.scratch.Store(nil)
	b.log.Info("pipeline closed", "loaded", b.loaded.Len(), "built", b.built.Len(), "builds", b.buildCount.Load())
	return nil
}

var _ world.Listener = (*Builder)(nil)
