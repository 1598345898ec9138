package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pgl-ranking-bot/internal/infra/cache"
	"pgl-ranking-bot/internal/infra/config"
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

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	redisClient, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: нет подключения к Redis (REDIS_ADDR)")
	}
	defer redisClient.Close()

	scheduler, err := schedule.NewService(
		queue.NewRedisPublishQueue(redisClient, cfg.Queues.Publish),
		cache.NewRedis(redisClient),
		cfg.TZ,
		cfg.Publish.DailyTime,
		applog.Component(logger, "scheduler"),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: некорректное расписание")
	}

	tick := func(now time.Time) {
		if _, err := scheduler.Tick(ctx, now); err != nil {
			logger.Error().Err(err).Msg("scheduler: ошибка постановки задачи")
		}
	}

	logger.Info().Str("tz", cfg.TZ).Str("daily_time", cfg.Publish.DailyTime).Msg("scheduler: запущен")
	tick(time.Now())
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("scheduler: остановлен")
			return
		case now := <-ticker.C:
			tick(now)
		}
	}
}
