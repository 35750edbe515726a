// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bridget/internal/config"
	httptransport "bridget/internal/http"
	"bridget/internal/infra"
	"bridget/internal/logger"
	"bridget/internal/modules/featureflags"
	"bridget/internal/modules/transform"
)

func main() {
	_ = godotenv.Load()
	log := logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Error("db init failed", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()

	flagStore := featureflags.NewRedisStore(redisClient)
	flagSvc, err := featureflags.NewService(ctx, flagStore)
	if err != nil {
		log.Error("flag service init failed", "err", err)
		os.Exit(1)
	}

	calibrations := transform.NewStore(dbPool)
	calc := transform.NewCalculator(calibrations)
	cache := transform.NewCache(transform.CacheConfig{
		MatrixCapacity:   cfg.Transform.MatrixCacheCapacity,
		PointCapacity:    cfg.Transform.PointCacheCapacity,
		EnablePointCache: cfg.Transform.EnablePointCache,
		QuantizeDecimals: cfg.Transform.QuantizeDecimals,
	})
	transformSvc := transform.NewService(calc, cache, cfg.Transform)

	handler := httptransport.NewRouter(transformSvc, flagSvc)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("bridged listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}
