package bootstrap

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/adapters/pgl"
	"pgl-ranking-bot/internal/adapters/telegram"
	"pgl-ranking-bot/internal/adapters/weibo"
	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/config"
	applog "pgl-ranking-bot/internal/infra/log"
	"pgl-ranking-bot/internal/usecase/publication"
	"pgl-ranking-bot/internal/usecase/rankings"
)

// ErrNoTargets возвращается, если не задан ни WEIBO_ACCESS_TOKEN, ни TG_BOT_TOKEN.
var ErrNoTargets = errors.New("не настроена ни одна площадка публикации (WEIBO_ACCESS_TOKEN, TG_BOT_TOKEN)")

// PGLClient собирает клиента Pokémon Global Link из конфига.
func PGLClient(cfg config.AppConfig) *pgl.Client {
	endpoints := pgl.Endpoints{
		Login:         cfg.PGL.LoginURL,
		Season:        cfg.PGL.SeasonURL,
		Ranking:       cfg.PGL.RankingURL,
		Referer:       cfg.PGL.Referer,
		AssetTemplate: cfg.PGL.AssetTemplate,
	}
	return pgl.NewClient(endpoints, cfg.Ranking(), pgl.WithTimeout(cfg.PGL.Timeout))
}

// Publishers создаёт площадки, для которых заданы токены.
func Publishers(cfg config.AppConfig) ([]domain.Publisher, error) {
	var publishers []domain.Publisher
	if cfg.Weibo.AccessToken != "" {
		publishers = append(publishers, weibo.NewClient(cfg.Weibo.AccessToken, weibo.WithShareURL(cfg.Weibo.ShareURL)))
	}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, telegram.NewPublisher(bot, cfg.Telegram.ChatID))
	}
	if len(publishers) == 0 {
		return nil, ErrNoTargets
	}
	return publishers, nil
}

// PublicationService собирает оркестратор и сервис публикации. journal может быть nil.
func PublicationService(cfg config.AppConfig, logger zerolog.Logger, journal domain.PublicationRepo) (*publication.Service, error) {
	publishers, err := Publishers(cfg)
	if err != nil {
		return nil, err
	}
	client := PGLClient(cfg)
	clock := domain.SystemClock{}
	builder := rankings.NewService(client, client, client, cfg.Ranking(), clock, applog.Component(logger, "rankings"))
	return publication.NewService(builder, publishers, journal, cfg.Publish.Caption, clock, applog.Component(logger, "publication")), nil
}
