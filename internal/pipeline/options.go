package pipeline

import "log/slog"

// DefaultDepth is the bounding-volume inflation used when none is configured.
const DefaultDepth = 0.25

type options struct {
	depth   float32
	mesh    bool
	bounds  bool
	shards  int
	logger  *slog.Logger
	metrics *Metrics
}

func defaultOptions() options {
	return options{
		depth:  DefaultDepth,
		mesh:   true,
		bounds: true,
		shards: DefaultShards,
	}
}

// Option configures a Builder.
type Option func(*options)

// WithDepth sets how far bounding volumes extend past a visible face.
func WithDepth(depth float32) Option {
	return func(o *options) { o.depth = depth }
}

// WithOutputs enables or disables mesh and bounding-volume generation.
func WithOutputs(mesh, bounds bool) Option {
	return func(o *options) {
		o.mesh = mesh
		o.bounds = bounds
	}
}

// WithShards sets the shard count of the membership and artifact maps.
// It is rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}
