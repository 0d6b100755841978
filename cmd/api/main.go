package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tokenwatch/token-health/internal/application/services"
	"github.com/tokenwatch/token-health/internal/config"
	"github.com/tokenwatch/token-health/internal/domain/repositories"
	"github.com/tokenwatch/token-health/internal/infrastructure/cache"
	"github.com/tokenwatch/token-health/internal/infrastructure/database"
	"github.com/tokenwatch/token-health/internal/infrastructure/providers"
	"github.com/tokenwatch/token-health/internal/presentation/handlers"
	"github.com/tokenwatch/token-health/internal/presentation/middleware"
)

func main() {
	// Load .env if present, environment wins otherwise
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	logger.Info("Starting token-health API",
		zap.Int("port", cfg.API.Port),
	)

	// Connect to Redis cache (optional)
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.Redis, cfg.Aggregator.MetricsTTL, cfg.Aggregator.IdentityTTL, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Connect to database (optional, scan history only)
	var db *database.PostgresDB
	var historyRepo repositories.HistoryRepository
	db, err = database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Warn("Failed to connect to database, scan history disabled", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
		historyRepo = database.NewHistoryRepo(db.DB())
	}

	// Create provider clients
	retryDelay := cfg.Providers.RetryDelay
	backoff := cfg.Providers.RetryBackoff
	marketClient := providers.NewMarketDataClient(cfg.Providers.MarketData(), retryDelay, backoff, logger)
	poolsClient := providers.NewPoolsClient(cfg.Providers.Pools(), retryDelay, backoff, logger)
	explorerClient := providers.NewExplorerClient(cfg.Providers.Explorer(), retryDelay, backoff, logger)
	securityClient := providers.NewSecurityClient(cfg.Providers.Security(), retryDelay, backoff, logger)
	tvlClient := providers.NewTVLClient(cfg.Providers.TVL(), retryDelay, backoff, logger)
	socialClient := providers.NewSocialClient(cfg.Providers.Social(), retryDelay, backoff, logger)
	codeClient := providers.NewCodeActivityClient(cfg.Providers.CodeActivity(), retryDelay, backoff, logger)

	// Create services. The nil interface dance keeps the cache truly
	// optional for the services that take it.
	var metricsCache services.MetricsCache
	var identityCache services.IdentityCache
	if redisCache != nil {
		metricsCache = redisCache
		identityCache = redisCache
	}

	resolver := services.NewResolverService(marketClient, identityCache, logger)
	aggregator := services.NewAggregatorService(
		marketClient, poolsClient, explorerClient, securityClient,
		tvlClient, socialClient, codeClient,
		cfg.Aggregator.OverallDeadline, logger,
	)
	healthService := services.NewHealthService(resolver, aggregator, metricsCache, historyRepo, logger)
	historyService := services.NewHistoryService(historyRepo, logger)

	// Create handlers
	scanHandler := handlers.NewScanHandler(healthService, logger)
	historyHandler := handlers.NewHistoryHandler(historyService, logger)

	var dbChecker, cacheChecker handlers.HealthChecker
	if db != nil {
		dbChecker = db
	}
	if redisCache != nil {
		cacheChecker = redisCache
	}
	healthHandler := handlers.NewHealthHandler(dbChecker, cacheChecker)

	// Setup router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimiter(cfg.API.RateLimitRPS))
	r.Use(middleware.Identity())

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		scanHandler.RegisterRoutes(r)
		historyHandler.RegisterRoutes(r)
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Run server in goroutine
	go func() {
		logger.Info("API server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
