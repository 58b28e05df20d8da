package pipeline

import (
	"context"
	"sync"

	"chunkforge/internal/world"
)

// Scheduler runs builds on a fixed set of worker goroutines fed from a
// bounded queue. A coordinate already queued is not queued again.
type Scheduler struct {
	b        *Builder
	jobQueue chan world.ChunkCoord
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[world.ChunkCoord]struct{}

	// OnBuilt, when set before the first Submit, receives every stored artifact.
	OnBuilt func(*BuiltChunk)

	shutdownOnce sync.Once
}

// NewScheduler starts workers goroutines building for b.
func NewScheduler(b *Builder, workers, queueSize int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		b:        b,
		jobQueue: make(chan world.ChunkCoord, max(queueSize, 1)),
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[world.ChunkCoord]struct{}),
	}
	for i := range max(workers, 1) {
		s.wg.Add(1)
		go s.worker(i)
	}
	return s
}

func (s *Scheduler) reserve(c world.ChunkCoord) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if _, ok := s.pending[c]; ok {
		return false
	}
	s.pending[c] = struct{}{}
	return true
}

func (s *Scheduler) release(c world.ChunkCoord) {
	s.pendingMu.Lock()
	delete(s.pending, c)
	s.pendingMu.Unlock()
}

// Submit queues a build without blocking. It returns false when the
// coordinate is already pending, the queue is full or the scheduler is shut down.
func (s *Scheduler) Submit(c world.ChunkCoord) bool {
	if s.ctx.Err() != nil || !s.reserve(c) {
		return false
	}
	select {
	case s.jobQueue <- c:
		return true
	default:
		s.release(c)
		return false
	}
}

// SubmitWait queues a build, blocking until there is room. A coordinate that
// is already pending counts as queued.
func (s *Scheduler) SubmitWait(ctx context.Context, c world.ChunkCoord) error {
	if err := s.ctx.Err(); err != nil {
		return ErrClosed
	}
	if !s.reserve(c) {
		return nil
	}
	select {
	case s.jobQueue <- c:
		return nil
	case <-ctx.Done():
		s.release(c)
		return ctx.Err()
	case <-s.ctx.Done():
		s.release(c)
		return ErrClosed
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case c := <-s.jobQueue:
			s.release(c)
			built, ok := s.b.Build(c)
			if ok && s.OnBuilt != nil {
				s.OnBuilt(built)
			}
		case <-s.ctx.Done():
			s.b.log.Debug("scheduler worker stopped", "worker", id)
			return
		}
	}
}

// Pending returns the number of coordinates queued and not yet started.
func (s *Scheduler) Pending() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

// Shutdown stops the workers once their current build finishes. Queued
// coordinates are dropped.
func (s *Scheduler) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.pendingMu.Lock()
		clear(s.pending)
		s.pendingMu.Unlock()
	})
}
