package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/advocate-directory/search-service/internal/advocate"
	"github.com/advocate-directory/search-service/internal/analytics"
	"github.com/advocate-directory/search-service/internal/search"
	"github.com/advocate-directory/search-service/internal/search/cache"
	"github.com/advocate-directory/search-service/internal/search/handler"
	"github.com/advocate-directory/search-service/internal/search/params"
	"github.com/advocate-directory/search-service/internal/search/ratelimit"
	"github.com/advocate-directory/search-service/internal/search/source"
	"github.com/advocate-directory/search-service/pkg/config"
	"github.com/advocate-directory/search-service/pkg/health"
	"github.com/advocate-directory/search-service/pkg/kafka"
	"github.com/advocate-directory/search-service/pkg/logger"
	"github.com/advocate-directory/search-service/pkg/metrics"
	"github.com/advocate-directory/search-service/pkg/middleware"
	"github.com/advocate-directory/search-service/pkg/postgres"
	pkgredis "github.com/advocate-directory/search-service/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting directory service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The primary store is optional at startup: without it, searches are
	// served from the fallback dataset and seeding is rejected.
	var primary source.Source
	var store *advocate.Store
	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, searches will use the fallback dataset", "error", err)
	} else {
		defer db.Close()
		store = advocate.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		primary = source.NewPostgres(db)
		slog.Info("postgres connected", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	}

	var resultCache cache.Store
	var memCache *cache.Memory
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, using in-process result cache", "error", err)
		} else {
			defer redisClient.Close()
			resultCache = cache.NewRedis(redisClient, cfg.Cache.TTL)
			slog.Info("redis result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
		}
	}
	if resultCache == nil {
		memCache = cache.NewMemory(cfg.Cache.TTL, cfg.Cache.MaxEntries, cfg.Cache.SweepInterval)
		defer memCache.Close()
		resultCache = memCache
		slog.Info("in-process result cache enabled",
			"ttl", cfg.Cache.TTL,
			"max_entries", cfg.Cache.MaxEntries,
		)
	}

	var collector *analytics.Collector
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 10000)
		collector.Start(ctx)
		defer collector.Close()
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		if memCache != nil {
			memCache.SetEvictionHook(m.CacheEvictionsTotal.Inc)
		}
	}

	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, cfg.RateLimit.SweepInterval)
	defer limiter.Close()

	fallback := source.NewFallback(advocate.FallbackData)
	svc := search.NewService(primary, fallback, resultCache, cfg.Search.StoreTimeout, m, collector)
	validator := params.New(cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	h := handler.New(svc, limiter, validator, store, m)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if db == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured, fallback dataset active"}
		}
		if err := db.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("cache", func(ctx context.Context) health.ComponentHealth {
		if memCache != nil {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d entries", memCache.Len())}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/advocates/search", h.Search)
	mux.HandleFunc("GET /api/v1/advocates", h.List)
	mux.HandleFunc("POST /api/v1/advocates/seed", h.Seed)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	go func() {
		slog.Info("http server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if metricsShutdown != nil {
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "error", err)
		}
	}
	slog.Info("shutdown complete")
}
