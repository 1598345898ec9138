package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"pgl-ranking-bot/internal/adapters/repo"
	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/bootstrap"
	"pgl-ranking-bot/internal/infra/cache"
	"pgl-ranking-bot/internal/infra/config"
	"pgl-ranking-bot/internal/infra/db"
	applog "pgl-ranking-bot/internal/infra/log"
	"pgl-ranking-bot/internal/infra/metrics"
	"pgl-ranking-bot/internal/infra/queue"
	"pgl-ranking-bot/internal/usecase/publication"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	redisClient, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: нет подключения к Redis (REDIS_ADDR)")
	}
	defer redisClient.Close()
	publishQueue := queue.NewRedisPublishQueue(redisClient, cfg.Queues.Publish)

	var journal domain.PublicationRepo
	if cfg.PGDSN != "" {
		pool, err := db.Connect(ctx, cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: нет подключения к БД")
		}
		defer pool.Close()
		repoAdapter := repo.NewPostgres(pool)
		if err := repoAdapter.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("worker: не удалось подготовить схему")
		}
		journal = repoAdapter
	}

	service, err := bootstrap.PublicationService(cfg, logger, journal)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: не удалось собрать сервис")
	}

	logger.Info().Str("queue", cfg.Queues.Publish).Msg("worker: запущен")
	publication.NewWorker(publishQueue, service, applog.Component(logger, "worker")).Run(ctx)
	logger.Info().Msg("worker: остановлен")
}
