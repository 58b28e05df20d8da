package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"

	"chunkforge/internal/config"
	"chunkforge/internal/export"
	"chunkforge/internal/logging"
	"chunkforge/internal/meshing"
	"chunkforge/internal/pipeline"
	"chunkforge/internal/profiling"
	"chunkforge/internal/registry"
	"chunkforge/internal/snapshot"
	"chunkforge/internal/world"
	"chunkforge/pkg/blockmodel"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $CHUNKFORGE_CONFIG)")
	serve := flag.Bool("serve", false, "keep streaming and building until interrupted")
	saveSnapshot := flag.String("save-snapshot", "", "write the loaded world to this snapshot file before exiting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	config.SetRadius(cfg.Stream.Radius)

	log := logging.New(cfg.Log, nil)
	slog.SetDefault(log)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	if err := profiling.Register(promReg); err != nil {
		log.Error("register profiling metrics", "error", err)
		os.Exit(1)
	}
	metrics, err := pipeline.NewMetrics(promReg)
	if err != nil {
		log.Error("register pipeline metrics", "error", err)
		os.Exit(1)
	}

	reg := newRegistry(cfg.Pipeline, log)

	store, fromSnapshot, err := openWorld(cfg.World, log)
	if err != nil {
		log.Error("open world", "error", err)
		os.Exit(1)
	}

	var up pipeline.Uploader = pipeline.NopUploader{}
	var exporter *export.GLTFUploader
	if cfg.Export.Dir != "" {
		exporter = export.NewGLTFUploader(log)
		up = exporter
	}

	builder := pipeline.New(store, reg, up,
		pipeline.WithDepth(cfg.Pipeline.Depth),
		pipeline.WithOutputs(cfg.Pipeline.Mesh, cfg.Pipeline.Bounds),
		pipeline.WithShards(cfg.Pipeline.Shards),
		pipeline.WithLogger(log),
		pipeline.WithMetrics(metrics),
	)
	scheduler := pipeline.NewScheduler(builder, cfg.Pipeline.Workers, cfg.Pipeline.Queue)

	var gen world.TerrainGenerator = world.NewGenerator(cfg.World.Seed)
	if cfg.World.Generator == "flat" {
		gen = world.NewFlatGenerator(cfg.World.FlatHeight)
	}
	var listener world.Listener = builder
	if *serve {
		listener = pipeline.NewFeeder(builder, scheduler)
	}
	streamer := world.NewChunkStreamer(store, gen, listener)
	streamCtx, stopStreaming := context.WithCancel(context.Background())
	streamDone := make(chan struct{})

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		srv = startMetrics(cfg.Metrics.Addr, promReg, log)
	}

	closer.Bind(func() {
		stopStreaming()
		if *serve {
			<-streamDone
		}
		streamer.Close()
		scheduler.Shutdown()
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = srv.Shutdown(ctx)
			cancel()
		}
		if *saveSnapshot != "" {
			if err := snapshot.Save(*saveSnapshot, store); err != nil {
				log.Error("save snapshot", "error", err)
			} else {
				log.Info("saved snapshot", "path", *saveSnapshot, "chunks", store.Len())
			}
		}
		if exporter != nil {
			if err := exporter.Save(filepath.Join(cfg.Export.Dir, "chunks.glb")); err != nil {
				log.Error("export meshes", "error", err)
			}
		}
		if err := builder.Close(); err != nil {
			log.Warn("close pipeline", "error", err)
		}
		log.Info("shutdown", "builds", builder.Builds(), "profile", profiling.TopN(5))
	})

	if *serve {
		go func() {
			defer close(streamDone)
			streamLoop(streamCtx, streamer, cfg.Stream, log)
		}()
		if fromSnapshot {
			go func() {
				for _, c := range builder.LoadedCoords() {
					if err := scheduler.SubmitWait(streamCtx, c); err != nil {
						return
					}
				}
			}()
		}
		log.Info("serving", "metrics", cfg.Metrics.Addr)
		closer.Hold()
		return
	}

	// one-shot: load the neighbourhood synchronously, then build everything
	if !fromSnapshot {
		streamer.StreamAroundSync(cfg.Stream.X, cfg.Stream.Z, config.GetLoadRadius())
	}
	start := time.Now()
	n, err := builder.BuildAll(context.Background(), cfg.Pipeline.Workers)
	if err != nil {
		log.Error("build", "error", err)
	}
	log.Info("built world", "chunks", n, "loaded", builder.LoadedCount(), "elapsed", time.Since(start))
	closer.Close()
}

func newRegistry(cfg config.PipelineConfig, log *slog.Logger) *registry.Registry {
	reg, ok := registry.NewNamed(cfg.DefaultGenerator)
	if !ok {
		log.Warn("unknown default generator, using cube", "name", cfg.DefaultGenerator)
	}
	reg.RegisterOpaque(registry.Builtin, meshing.Cube)
	if cfg.Assets != "" {
		n := reg.LoadDefinitions(blockmodel.NewLoader(cfg.Assets), registry.Builtin, log)
		log.Info("loaded block models", "assets", cfg.Assets, "registered", n)
	}
	return reg
}

func openWorld(cfg config.WorldConfig, log *slog.Logger) (*world.ChunkStore, bool, error) {
	if cfg.Snapshot != "" {
		store, err := snapshot.Load(cfg.Snapshot)
		if err != nil {
			return nil, false, err
		}
		store.SetDebug(cfg.Debug)
		log.Info("loaded snapshot", "path", cfg.Snapshot, "chunks", store.Len())
		return store, true, nil
	}
	store := world.NewChunkStoreWithLayout(cfg.MinY, cfg.Sections)
	store.SetDebug(cfg.Debug)
	return store, false, nil
}

func startMetrics(addr string, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server", "error", err)
		}
	}()
	return srv
}

// streamLoop keeps the neighbourhood of the focus point loaded and evicts
// what falls outside the evict radius.
func streamLoop(ctx context.Context, s *world.ChunkStreamer, cfg config.StreamConfig, log *slog.Logger) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		queued := s.StreamAroundAsync(cfg.X, cfg.Z, config.GetLoadRadius())
		evicted := s.EvictFar(cfg.X, cfg.Z, config.GetEvictRadius())
		if queued > 0 || evicted > 0 {
			log.Debug("stream tick", "queued", queued, "evicted", evicted, "pending", s.Pending())
		}
	}
}
