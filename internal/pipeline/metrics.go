package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	builds        prometheus.Counter
	skipped       prometheus.Counter
	uploads       prometheus.Counter
	vertices      prometheus.Counter
	indices       prometheus.Counter
	boxes         prometheus.Counter
	loaded        prometheus.Gauge
	built         prometheus.Gauge
	buildDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "builds_total",
			Help:      "Chunks built.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "builds_skipped_total",
			Help:      "Build requests for chunks that were not loaded.",
		}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "uploads_total",
			Help:      "Meshes handed to the uploader.",
		}),
		vertices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "vertices_total",
			Help:      "Vertices emitted across all builds.",
		}),
		indices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "indices_total",
			Help:      "Triangle indices emitted across all builds.",
		}),
		boxes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "bounding_volumes_total",
			Help:      "Bounding volumes emitted across all builds.",
		}),
		loaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "chunks_loaded",
			Help:      "Chunks currently tracked as loaded.",
		}),
		built: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "chunks_built",
			Help:      "Chunks currently holding a built artifact.",
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chunkforge",
			Subsystem: "pipeline",
			Name:      "build_duration_seconds",
			Help:      "Time spent building one chunk.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	for _, c := range []prometheus.Collector{
		m.builds, m.skipped, m.uploads, m.vertices, m.indices, m.boxes, m.loaded, m.built, m.buildDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeBuild(seconds float64, b *BuiltChunk) {
	if m == nil {
		return
	}
	m.builds.Inc()
	m.buildDuration.Observe(seconds)
	m.vertices.Add(float64(b.Mesh.VertexCount()))
	m.indices.Add(float64(len(b.Mesh.Indices)))
	m.boxes.Add(float64(len(b.Bounds)))
}

func (m *Metrics) skip() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

func (m *Metrics) upload() {
	if m == nil {
		return
	}
	m.uploads.Inc()
}

func (m *Metrics) addLoaded(delta int) {
	if m == nil {
		return
	}
	m.loaded.Add(float64(delta))
}

func (m *Metrics) addBuilt(delta int) {
	if m == nil {
		return
	}
	m.built.Add(float64(delta))
}

func (m *Metrics) setCounts(loaded, built int) {
	if m == nil {
		return
	}
	m.loaded.Set(float64(loaded))
	m.built.Set(float64(built))
}
