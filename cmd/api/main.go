package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/georgemunganga/storefront/internal/config"
	"github.com/georgemunganga/storefront/internal/logger"
	appmiddleware "github.com/georgemunganga/storefront/internal/middleware"
	"github.com/georgemunganga/storefront/internal/modules/delivery"
	"github.com/georgemunganga/storefront/internal/modules/storeconfig"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("unable to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		appLogger.Fatal("cannot connect to database", zap.Error(err))
	}
	appLogger.Info("connected to database")

	// ── Store configuration ─────────────────────────────────
	storeRepo := storeconfig.NewPostgresRepository(db)
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Warn("redis unreachable, store configuration reads go to the database", zap.Error(err))
		}
		storeRepo = storeconfig.NewCachedRepository(storeRepo, rdb, cfg.ConfigCacheTTL, appLogger)
		appLogger.Info("store configuration cache enabled",
			zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.ConfigCacheTTL))
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(appmiddleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "UP", "env": cfg.Env})
	})

	// ── Delivery ────────────────────────────────────────────
	deliveryService := delivery.NewService(storeRepo, delivery.Settings{DefaultWindows: cfg.DefaultWindows})
	delivery.NewHandler(deliveryService, appLogger).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLogger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("server exiting")
}
