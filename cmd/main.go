package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"homeboard/offlinegate/internal/bus"
	"homeboard/offlinegate/internal/cache"
	"homeboard/offlinegate/internal/config"
	"homeboard/offlinegate/internal/fetch"
	"homeboard/offlinegate/internal/handler"
	"homeboard/offlinegate/internal/manifest"
	"homeboard/offlinegate/internal/strategy"
	"homeboard/offlinegate/internal/worker"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Initialize cache store (Redis or in-memory)
	var store cache.Store
	var redisBus bus.Bus
	needRedis := cfg.Cache.Backend == "redis" || cfg.Bus.Backend == "redis"
	if needRedis {
		redisClient, err := config.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		if cfg.Cache.Backend == "redis" {
			store = cache.NewRedisStore(redisClient, cfg.Cache.KeyPrefix)
			logger.Info("using Redis cache store")
		}
		if cfg.Bus.Backend == "redis" {
			redisBus = bus.NewRedisBus(redisClient, cfg.Bus.Channel, cfg.Bus.Buffer, logger)
			logger.Info("using Redis broadcast bus")
		}
	}
	if store == nil {
		store = cache.NewMemoryStore()
		logger.Info("using in-memory cache store")
	}

	// 4. Initialize broadcast bus
	var broadcast bus.Bus
	if redisBus != nil {
		broadcast = redisBus
	} else {
		broadcast = bus.NewMemoryBus(cfg.Bus.Buffer)
		logger.Info("using in-memory broadcast bus")
	}

	// 5. Asset manifest
	assets, err := manifest.New(cfg.Manifest.Assets)
	if err != nil {
		logger.Fatal("invalid asset manifest", zap.Error(err))
	}

	// 6. Upstream fetcher
	fetcher, err := fetch.NewUpstream(cfg.Upstream.Origin, cfg.Upstream.Timeout)
	if err != nil {
		logger.Fatal("invalid upstream config", zap.Error(err))
	}

	// 7. Build the worker with its strategies
	origin := cfg.Upstream.PublicOrigin
	if origin == "" {
		origin = cfg.Upstream.Origin
	}
	w, err := worker.New(worker.Options{
		Store:        store,
		Version:      cfg.Cache.Version,
		Fetcher:      fetcher,
		Bus:          broadcast,
		Manifest:     assets,
		Origin:       origin,
		StaticPrefix: cfg.Manifest.StaticPrefix,
		Logger:       logger,
		CacheFirst:   strategy.NewCacheFirst(store, cfg.Cache.Version, fetcher, logger),
		NetworkFirst: strategy.NewNetworkFirst(store, cfg.Cache.Version, fetcher, logger),
	})
	if err != nil {
		logger.Fatal("failed to build worker", zap.Error(err))
	}

	// 8. Install and activate. An install failure aborts startup so the
	// previous deployment keeps serving; the supervisor retries us.
	ctx := context.Background()
	if err := w.OnInstall(ctx); err != nil {
		logger.Fatal("install failed", zap.Error(err))
	}
	if err := w.OnActivate(ctx); err != nil {
		logger.Fatal("activate failed", zap.Error(err))
	}

	// 9. Setup router
	router := handler.SetupRouter(cfg, logger, w, broadcast)

	// 10. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 11. Start server with graceful shutdown
	go func() {
		logger.Info("gateway starting",
			zap.String("addr", addr),
			zap.String("version", cfg.Cache.Version),
			zap.String("upstream", cfg.Upstream.Origin))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("gateway exited gracefully")
}
