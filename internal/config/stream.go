package config

import "sync"

const (
	MinRadius = 1
	MaxRadius = 32
)

// StreamSettings holds the runtime-adjustable streaming radius.
type StreamSettings struct {
	mu     sync.RWMutex
	radius int // in chunks
}

var globalStreamSettings = &StreamSettings{
	radius: 4,
}

// GetRadius returns the current load radius in chunks.
func GetRadius() int {
	globalStreamSettings.mu.RLock()
	defer globalStreamSettings.mu.RUnlock()
	return globalStreamSettings.radius
}

// SetRadius sets the load radius in chunks.
func SetRadius(radius int) {
	globalStreamSettings.mu.Lock()
	defer globalStreamSettings.mu.Unlock()
	globalStreamSettings.radius = clamp(radius, MinRadius, MaxRadius)
}

// GetLoadRadius returns the radius chunks are streamed in at.
func GetLoadRadius() int {
	return GetRadius()
}

// GetEvictRadius returns the radius beyond which chunks are evicted.
func GetEvictRadius() int {
	return GetRadius() * 2
}
