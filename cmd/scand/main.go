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

	"github.com/crosscheck-io/crosscheck/internal/analytics"
	"github.com/crosscheck-io/crosscheck/internal/auth/apikey"
	"github.com/crosscheck-io/crosscheck/internal/auth/ratelimit"
	"github.com/crosscheck-io/crosscheck/internal/engine"
	"github.com/crosscheck-io/crosscheck/internal/scanner/cache"
	"github.com/crosscheck-io/crosscheck/internal/scanner/handler"
	scanmw "github.com/crosscheck-io/crosscheck/internal/scanner/middleware"
	"github.com/crosscheck-io/crosscheck/pkg/config"
	"github.com/crosscheck-io/crosscheck/pkg/health"
	"github.com/crosscheck-io/crosscheck/pkg/kafka"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
	"github.com/crosscheck-io/crosscheck/pkg/metrics"
	"github.com/crosscheck-io/crosscheck/pkg/middleware"
	"github.com/crosscheck-io/crosscheck/pkg/postgres"
	pkgredis "github.com/crosscheck-io/crosscheck/pkg/redis"
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
	slog.Info("starting scan service",
		"port", cfg.Server.Port,
		"shingle_len", cfg.Engine.ShingleLen,
		"winnow_window", cfg.Engine.WinnowWindow,
	)

	m := metrics.New()

	eng, err := engine.New(cfg.Engine)
	if err != nil {
		slog.Error("invalid engine configuration", "error", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		slog.Info("report cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}
	reportCache := cache.New(redisClient, cfg.Redis, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.ScanEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.ScanEvents)

	aggregator := analytics.NewAggregator()
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ScanEvents, aggregator.HandleMessage)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			slog.Error("analytics consumer error", "error", err)
		}
	}()

	var keyStore *apikey.Store
	var pgClient *postgres.Client
	pgClient, err = postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, api-key auth disabled", "error", err)
		pgClient = nil
	} else {
		defer pgClient.Close()
		keyStore = apikey.NewStore(pgClient)
		slog.Info("api-key auth enabled", "host", cfg.Postgres.Host)
	}

	checker := health.NewChecker()
	checker.Register("engine", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("index capacity %d", cfg.Engine.IndexCapacity),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if pgClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := pgClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(eng, reportCache, collector, m)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/scan", h.Scan)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /api/v1/analytics", analytics.StatsHandler(aggregator))
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = scanmw.RateLimit(ratelimit.NewLimiter())(chain)
	chain = scanmw.Auth(keyStore)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Metrics.Enabled {
		metricsServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metrics.Handler(),
		}
		go func() {
			slog.Info("metrics server listening", "addr", metricsServer.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server error", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			metricsServer.Close()
		}()
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("scan service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("scan service stopped")
}
