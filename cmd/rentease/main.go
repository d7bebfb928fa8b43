package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/config"
	"github.com/boddenberg/rentease-api-go/internal/domain"
	"github.com/boddenberg/rentease-api-go/internal/handler"
	"github.com/boddenberg/rentease-api-go/internal/infra/cache"
	"github.com/boddenberg/rentease-api-go/internal/infra/memory"
	"github.com/boddenberg/rentease-api-go/internal/infra/mysql"
	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/infra/resilience"
	"github.com/boddenberg/rentease-api-go/internal/infra/supabase"
	"github.com/boddenberg/rentease-api-go/internal/port"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"go.uber.org/zap"
)

// listingCache is what the property service needs plus a health probe.
type listingCache interface {
	port.Cache[[]domain.Property]
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("env", cfg.Env),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("redis_cache", cfg.RedisURL != ""),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Duration("jwt_ttl", cfg.JWTTTL),
	)

	ctx := context.Background()

	// --- Tracing ---
	shutdown, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, "rentease-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store & identity ---
	var (
		store    port.Store
		identity port.IdentityProvider
	)

	switch cfg.StoreBackend {
	case config.BackendSupabase:
		logger.Info("using Supabase as data backend", zap.String("supabase_url", cfg.SupabaseURL))
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		sb := supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase"),
			resilienceCfg,
			metrics,
			logger,
		)
		store = sb
		identity = sb

	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		mem := memory.New()
		store = mem
		identity = service.NewLocalIdentity(mem, cfg.JWTSecret, cfg.JWTTTL, logger)

	default:
		db, err := mysql.Open(ctx, mysql.Options{
			DSN:             cfg.MySQLDSN,
			MaxOpenConns:    cfg.MySQLMaxOpenConns,
			MaxIdleConns:    cfg.MySQLMaxIdleConns,
			ConnMaxLifetime: cfg.MySQLConnMaxLifetime,
		})
		if err != nil {
			logger.Fatal("failed to connect to MySQL", zap.Error(err))
		}
		defer db.Close()
		logger.Info("using MySQL as data backend")
		ms := mysql.NewStore(db, metrics, logger)
		store = ms
		identity = service.NewLocalIdentity(ms, cfg.JWTSecret, cfg.JWTTTL, logger)
	}

	// --- Cache ---
	// Listings are cached only when CACHE_TTL > 0. Property status changes
	// made outside the API stay invisible for up to one TTL.
	var (
		listings     listingCache
		listingStore port.Cache[[]domain.Property]
	)
	switch {
	case cfg.CacheTTL <= 0:
		logger.Info("listing cache disabled")
	case cfg.RedisURL != "":
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		listings = cache.NewRedis[[]domain.Property](rdb, "rentease:listings:", cfg.CacheTTL, logger)
		logger.Info("listing cache backed by Redis")
	default:
		listings = cache.New[[]domain.Property](cfg.CacheTTL)
	}

	probes := []handler.Probe{{Name: "store", Check: store.Ping}}
	if listings != nil {
		defer listings.Close()
		listingStore = listings
		probes = append(probes, handler.Probe{Name: "cache", Check: listings.Ping})
	}

	// --- Services ---
	svc := handler.Services{
		Properties: service.NewPropertyService(store, listingStore, metrics, logger),
		Rentals:    service.NewRentalService(store, store, metrics, logger),
		Saved:      service.NewSavedService(store, metrics, logger),
		Contact:    service.NewContactService(store, metrics, logger),
		Auth:       service.NewAuthService(identity, metrics, logger),
	}

	// --- Router ---
	router := handler.NewRouter(svc, handler.RouterConfig{
		Backend:        cfg.StoreBackend,
		Production:     cfg.IsProduction(),
		AllowedOrigins: cfg.AllowedOrigins,
		MaxConcurrency: cfg.MaxConcurrency,
		Probes:         probes,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
