package rankings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/imaging"
	"pgl-ranking-bot/internal/infra/metrics"
)

// ErrInvalidParams возвращается при некорректных параметрах прогона.
var ErrInvalidParams = errors.New("invalid ranking params")

// Service строит склейку рейтинга: сессия, сезон, рейтинг, затем картинки по одной.
type Service struct {
	sessions domain.SessionClient
	ranking  domain.RankingFetcher
	assets   domain.AssetFetcher
	params   domain.RankingParams
	clock    domain.Clock
	log      zerolog.Logger
}

var _ domain.CompositeBuilder = (*Service)(nil)

// NewService создаёт оркестратор прогона.
func NewService(sessions domain.SessionClient, ranking domain.RankingFetcher, assets domain.AssetFetcher, params domain.RankingParams, clock domain.Clock, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Service{sessions: sessions, ranking: ranking, assets: assets, params: params, clock: clock, log: logger}
}

// Build выполняет прогон целиком. Любая ошибка прерывает его, частичная склейка не возвращается.
func (s *Service) Build(ctx context.Context) (domain.Composite, error) {
	if err := s.validate(); err != nil {
		return domain.Composite{}, err
	}

	sess, err := s.sessions.Authenticate(ctx)
	if err != nil {
		return domain.Composite{}, fmt.Errorf("авторизация: %w", err)
	}
	season, err := s.ranking.CurrentSeason(ctx, sess)
	if err != nil {
		return domain.Composite{}, fmt.Errorf("получение сезона: %w", err)
	}
	entities, err := s.ranking.RankedEntities(ctx, sess, season)
	if err != nil {
		return domain.Composite{}, fmt.Errorf("получение рейтинга сезона %s: %w", season.ID, err)
	}

	top := topEntities(entities, s.params.RankCount)
	if len(top) == 0 {
		return domain.Composite{}, fmt.Errorf("сезон %s: %w", season.ID, domain.ErrNoEntities)
	}
	if len(top) < s.params.RankCount {
		s.log.Warn().Str("season", season.ID).Int("available", len(top)).Int("wanted", s.params.RankCount).Msg("рейтинг короче заданного, публикуем сколько есть")
	}

	size := s.params.ImageSize
	canvas := imaging.NewCanvas(size, len(top))
	for idx, entity := range top {
		if err := s.render(ctx, canvas, idx, entity); err != nil {
			return domain.Composite{}, err
		}
	}

	return domain.Composite{
		Season:   season,
		Entities: top,
		Image:    canvas.Image(),
		BuiltAt:  s.clock.Now(),
	}, nil
}

func (s *Service) render(ctx context.Context, canvas *imaging.Canvas, idx int, entity domain.RankedEntity) error {
	raw, err := s.assets.Fetch(ctx, s.params.ImageSize, entity)
	if err != nil {
		return fmt.Errorf("картинка #%d (%d/%d): %w", entity.Rank, entity.MonsNo, entity.FormNo, err)
	}
	tile, err := imaging.Descramble(raw)
	if err != nil {
		return fmt.Errorf("картинка #%d (%d/%d): %w", entity.Rank, entity.MonsNo, entity.FormNo, err)
	}
	if err := canvas.Paste(idx, tile); err != nil {
		return fmt.Errorf("картинка #%d (%d/%d): %w", entity.Rank, entity.MonsNo, entity.FormNo, err)
	}
	metrics.IncEntitiesRendered()
	s.log.Debug().Int("rank", entity.Rank).Int("monsno", entity.MonsNo).Int("form", entity.FormNo).Msg("картинка добавлена")
	return nil
}

func (s *Service) validate() error {
	if s.params.RankCount <= 0 {
		return fmt.Errorf("%w: rank count %d", ErrInvalidParams, s.params.RankCount)
	}
	if s.params.ImageSize <= 0 || s.params.ImageSize%2 != 0 {
		return fmt.Errorf("%w: image size %d", ErrInvalidParams, s.params.ImageSize)
	}
	return nil
}

// topEntities возвращает первые n позиций без пересортировки.
func topEntities(entities []domain.RankedEntity, n int) []domain.RankedEntity {
	if len(entities) > n {
		entities = entities[:n]
	}
	out := make([]domain.RankedEntity, len(entities))
	copy(out, entities)
	return out
}
