package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	before := *cfg
	cfg.Validate()
	assert.Equal(t, before, *cfg)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("CHUNKFORGE_CONFIG", "")
	path := filepath.Join(t.TempDir(), "chunkforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline:
  depth: 0.5
  bounds: false
  workers: 2
world:
  generator: flat
  flat_height: 10
log:
  level: DEBUG
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), cfg.Pipeline.Depth)
	assert.True(t, cfg.Pipeline.Mesh)
	assert.False(t, cfg.Pipeline.Bounds)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, "flat", cfg.World.Generator)
	assert.Equal(t, 10, cfg.World.FlatHeight)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// untouched sections keep their defaults
	assert.Equal(t, 16, cfg.World.Sections)
}

func TestLoadWithoutPath(t *testing.T) {
	t.Setenv("CHUNKFORGE_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Pipeline, cfg.Pipeline)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stream:\n  radius: 7\n"), 0o644))
	t.Setenv("CHUNKFORGE_CONFIG", path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Stream.Radius)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHUNKFORGE_CONFIG", "")
	t.Setenv("CHUNKFORGE_DEPTH", "0.75")
	t.Setenv("CHUNKFORGE_WORKERS", "9")
	t.Setenv("CHUNKFORGE_LOG_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, float32(0.75), cfg.Pipeline.Depth)
	assert.Equal(t, 9, cfg.Pipeline.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)

	t.Setenv("CHUNKFORGE_WORKERS", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("CHUNKFORGE_CONFIG", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.Depth = 3
	cfg.Pipeline.Workers = 0
	cfg.Stream.Radius = 500
	cfg.Log.Level = "verbose"
	cfg.World.Generator = "caves"
	cfg.World.MinY = -70
	cfg.Pipeline.DefaultGenerator = ""
	cfg.Validate()

	assert.Equal(t, float32(1), cfg.Pipeline.Depth)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.Equal(t, MaxRadius, cfg.Stream.Radius)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "noise", cfg.World.Generator)
	assert.Equal(t, -80, cfg.World.MinY)
	assert.Equal(t, "cube", cfg.Pipeline.DefaultGenerator)
}

func TestDefaultGeneratorIsCube(t *testing.T) {
	assert.Equal(t, "cube", Default().Pipeline.DefaultGenerator)

	cfg := Default()
	cfg.Pipeline.DefaultGenerator = " Inflated_Box "
	cfg.Validate()
	assert.Equal(t, "inflated_box", cfg.Pipeline.DefaultGenerator)
}

func TestStreamRadius(t *testing.T) {
	defer SetRadius(GetRadius())

	SetRadius(0)
	if got := GetRadius(); got != MinRadius {
		t.Fatalf("radius clamp low: got %d, want %d", got, MinRadius)
	}
	SetRadius(100)
	if got := GetLoadRadius(); got != MaxRadius {
		t.Fatalf("radius clamp high: got %d, want %d", got, MaxRadius)
	}
	if got := GetEvictRadius(); got != 2*MaxRadius {
		t.Fatalf("evict radius: got %d, want %d", got, 2*MaxRadius)
	}
}
