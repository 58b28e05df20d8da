package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"chunkforge/internal/world"
)

func TestFeederSchedulesNeighbours(t *testing.T) {
	b := New(world.NewChunkStore(), cubeRegistry(), nil)
	// no workers: inspect the queue directly
	s := &Scheduler{b: b, jobQueue: make(chan world.ChunkCoord, 16), pending: map[world.ChunkCoord]struct{}{}}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	defer s.cancel()
	f := NewFeeder(b, s)

	f.Load(world.NewChunk(world.ChunkCoord{X: 0}, 0, 1))
	assert.Equal(t, 1, s.Pending())

	<-s.jobQueue
	s.release(world.ChunkCoord{X: 0})
	f.Load(world.NewChunk(world.ChunkCoord{X: 1}, 0, 1))
	assert.Equal(t, 2, s.Pending())
	assert.True(t, b.IsLoaded(world.ChunkCoord{X: 1}))

	f.Load(nil)
	f.Unload(world.ChunkCoord{X: 1})
	assert.False(t, b.IsLoaded(world.ChunkCoord{X: 1}))
}
