// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"assignment-workers/internal/common/camunda"
	"assignment-workers/internal/common/config"
	"assignment-workers/internal/common/database"
	"assignment-workers/internal/common/logger"
	"assignment-workers/internal/common/observability"
	cas "assignment-workers/internal/workers/matching/calculate-assignment-score"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err := cfg.ValidateForWorkers(); err != nil {
		zapLog.Fatal("invalid worker configuration", zap.Error(err))
	}

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("strategy", cfg.Matching.Strategy),
	)

	obs := observability.New(cfg.App.Name, observability.WithJaegerEndpoint(cfg.Observability.JaegerEndpoint))
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe client with retry ---
	zeebe, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Optional score cache ---
	cache := newScoreCache(ctx, cfg, log)

	// --- Workers ---
	workerCfg, err := cas.LoadConfig(cfg)
	if err != nil {
		zapLog.Fatal("failed to load calculate-assignment-score config", zap.Error(err))
	}
	handler, err := cas.NewHandler(workerCfg, cache.scores, obs, log)
	if err != nil {
		zapLog.Fatal("failed to create calculate-assignment-score handler", zap.Error(err))
	}
	jobWorker := camunda.StartWorker(zeebe.GetClient(), cas.TaskType, config.GetWorkerConfig(cfg, cas.TaskType), handler.Handle, log)

	// --- Health & Metrics Server ---
	server := newHealthServer(cfg.Server.Address, zeebe.HealthCheck)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := cache.close(); err != nil {
		zapLog.Error("Error closing Redis client", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

type scoreCache struct {
	redis  *database.RedisClient
	scores *database.ScoreCache
}

func (c scoreCache) close() error {
	return c.redis.Close()
}

// newScoreCache connects to Redis when an address is configured. An
// unreachable Redis disables caching rather than stopping the worker.
func newScoreCache(ctx context.Context, cfg *config.Config, log logger.Logger) scoreCache {
	rc := database.NewRedis(cfg.Database.Redis)
	if rc == nil {
		log.Info("redis not configured, score cache disabled", nil)
		return scoreCache{}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, score cache disabled", map[string]interface{}{
			"address": cfg.Database.Redis.Address,
			"error":   err.Error(),
		})
		_ = rc.Close()
		return scoreCache{}
	}

	ttl := time.Duration(cfg.Matching.CacheTTL) * time.Second
	log.Info("score cache enabled", map[string]interface{}{"ttl": ttl.String()})
	return scoreCache{redis: rc, scores: database.NewScoreCache(rc.GetClient(), ttl)}
}
