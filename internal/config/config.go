package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the root of the chunkforge configuration file.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	World    WorldConfig    `yaml:"world"`
	Stream   StreamConfig   `yaml:"stream"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Export   ExportConfig   `yaml:"export"`
}

type PipelineConfig struct {
	// Depth is how far bounding volumes extend past a visible face.
	Depth   float32 `yaml:"depth"`
	Mesh    bool    `yaml:"mesh"`
	Bounds  bool    `yaml:"bounds"`
	Workers int     `yaml:"workers"`
	Queue   int     `yaml:"queue"`
	Shards  int     `yaml:"shards"`
	// DefaultGenerator names the generator used for unregistered states:
	// nothing, cube, inflated_box or cube_with_bounds.
	DefaultGenerator string `yaml:"default_generator"`
	// Assets is an optional block-model directory used to populate the registry.
	Assets string `yaml:"assets"`
}

type StreamConfig struct {
	// Radius is the load radius in chunks around the focus point.
	Radius int     `yaml:"radius"`
	X      float32 `yaml:"x"`
	Z      float32 `yaml:"z"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

type ExportConfig struct {
	Dir string `yaml:"dir"` // empty disables glTF export
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Depth:            0.25,
			Mesh:             true,
			Bounds:           true,
			Workers:          4,
			Queue:            1024,
			Shards:           32,
			DefaultGenerator: "cube",
		},
		World:  defaultWorldConfig(),
		Stream: StreamConfig{Radius: 4},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// CHUNKFORGE_CONFIG; with neither set the defaults are used. Environment
// overrides are applied last and the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("CHUNKFORGE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Validate()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CHUNKFORGE_DEPTH"); v != "" {
		d, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return errors.Wrap(err, "CHUNKFORGE_DEPTH")
		}
		c.Pipeline.Depth = float32(d)
	}
	if v := os.Getenv("CHUNKFORGE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "CHUNKFORGE_WORKERS")
		}
		c.Pipeline.Workers = n
	}
	if v := os.Getenv("CHUNKFORGE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate clamps out-of-range values to usable ones.
func (c *Config) Validate() {
	c.Pipeline.Depth = clamp(c.Pipeline.Depth, 0, 1)
	c.Pipeline.Workers = clamp(c.Pipeline.Workers, 1, 256)
	c.Pipeline.Queue = clamp(c.Pipeline.Queue, 1, 1<<20)
	c.Pipeline.Shards = clamp(c.Pipeline.Shards, 1, 4096)
	c.Stream.Radius = clamp(c.Stream.Radius, MinRadius, MaxRadius)
	c.World.validate()
	c.Pipeline.DefaultGenerator = strings.ToLower(strings.TrimSpace(c.Pipeline.DefaultGenerator))
	if c.Pipeline.DefaultGenerator == "" {
		c.Pipeline.DefaultGenerator = "cube"
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Log.Level = "info"
	}
	if c.Log.Format != "json" {
		c.Log.Format = "text"
	}
}

func clamp[T int | float32](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
