package pipeline

import "chunkforge/internal/world"

// Feeder connects a chunk streamer to a Builder. Arriving chunks are loaded
// and scheduled for building along with their loaded horizontal neighbours,
// whose border faces may now be hidden.
type Feeder struct {
	b *Builder
	s *Scheduler
}

func NewFeeder(b *Builder, s *Scheduler) *Feeder {
	return &Feeder{b: b, s: s}
}

func (f *Feeder) Load(c *world.Chunk) {
	if c == nil {
		return
	}
	f.b.Load(c)
	f.s.Submit(c.Coord)
	for _, n := range [4]world.ChunkCoord{
		{X: c.Coord.X + 1, Z: c.Coord.Z},
		{X: c.Coord.X - 1, Z: c.Coord.Z},
		{X: c.Coord.X, Z: c.Coord.Z + 1},
		{X: c.Coord.X, Z: c.Coord.Z - 1},
	} {
		if f.b.IsLoaded(n) {
			f.s.Submit(n)
		}
	}
}

func (f *Feeder) Unload(coord world.ChunkCoord) {
	f.b.Unload(coord)
}

var _ world.Listener = (*Feeder)(nil)
