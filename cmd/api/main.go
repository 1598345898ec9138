package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pgl-ranking-bot/internal/adapters/repo"
	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/cache"
	"pgl-ranking-bot/internal/infra/config"
	"pgl-ranking-bot/internal/infra/db"
	httpinfra "pgl-ranking-bot/internal/infra/http"
	applog "pgl-ranking-bot/internal/infra/log"
	"pgl-ranking-bot/internal/infra/metrics"
	"pgl-ranking-bot/internal/infra/queue"
	"pgl-ranking-bot/internal/usecase/schedule"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет подключения к Redis (REDIS_ADDR)")
	}
	defer redisClient.Close()

	jobs, err := schedule.NewService(
		queue.NewRedisPublishQueue(redisClient, cfg.Queues.Publish),
		cache.NewRedis(redisClient),
		cfg.TZ,
		cfg.Publish.DailyTime,
		applog.Component(logger, "schedule"),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: некорректное расписание")
	}

	var journal domain.PublicationRepo
	if cfg.PGDSN != "" {
		pool, err := db.Connect(ctx, cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: нет подключения к БД")
		}
		defer pool.Close()
		repoAdapter := repo.NewPostgres(pool)
		if err := repoAdapter.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("api: не удалось подготовить схему")
		}
		journal = repoAdapter
	}

	server := httpinfra.NewServer(applog.Component(logger, "http"))
	api := httpinfra.NewAPI(journal, jobs, cfg.PGL.AssetTemplate, cfg.PGL.ImageSize, domain.SystemClock{}, applog.Component(logger, "api"))
	api.Mount(server.Router)

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("api: HTTP сервер остановлен")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
