package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"pgl-ranking-bot/internal/adapters/repo"
	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/bootstrap"
	"pgl-ranking-bot/internal/infra/config"
	"pgl-ranking-bot/internal/infra/db"
	applog "pgl-ranking-bot/internal/infra/log"
	"pgl-ranking-bot/internal/infra/metrics"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var journal domain.PublicationRepo
	if cfg.PGDSN != "" {
		pool, err := db.Connect(ctx, cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("publisher: нет подключения к БД")
		}
		defer pool.Close()
		repoAdapter := repo.NewPostgres(pool)
		if err := repoAdapter.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("publisher: не удалось подготовить схему")
		}
		journal = repoAdapter
	}

	service, err := bootstrap.PublicationService(cfg, logger, journal)
	if err != nil {
		logger.Fatal().Err(err).Msg("publisher: не удалось собрать сервис")
	}

	now := time.Now().UTC()
	job := domain.PublishJob{ID: uuid.NewString(), Date: now, RequestedAt: now, Cause: domain.PublishCauseManual}
	pub, err := service.Publish(ctx, job)
	if err != nil {
		logger.Error().Err(err).Str("job", job.ID).Msg("publisher: прогон не удался")
		stop()
		os.Exit(1)
	}
	logger.Info().Str("publication", pub.ID).Str("season", pub.SeasonID).Int("entities", len(pub.Entities)).Msg("publisher: готово")
}
