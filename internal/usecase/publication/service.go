package publication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/imaging"
	"pgl-ranking-bot/internal/infra/metrics"
)

// ErrNoPublishers возвращается, если не настроена ни одна площадка.
var ErrNoPublishers = errors.New("no publishers configured")

// Service строит склейку и публикует её на все площадки.
type Service struct {
	builder    domain.CompositeBuilder
	publishers []domain.Publisher
	journal    domain.PublicationRepo
	caption    string
	clock      domain.Clock
	log        zerolog.Logger
}

// NewService создаёт сервис публикации. journal может быть nil.
func NewService(builder domain.CompositeBuilder, publishers []domain.Publisher, journal domain.PublicationRepo, caption string, clock domain.Clock, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Service{builder: builder, publishers: publishers, journal: journal, caption: caption, clock: clock, log: logger}
}

// Publish выполняет задачу. Если склейка не построена, площадки не вызываются.
func (s *Service) Publish(ctx context.Context, job domain.PublishJob) (pub domain.Publication, err error) {
	start := time.Now()
	defer func() { metrics.ObserveRun(start, err) }()

	if len(s.publishers) == 0 {
		return domain.Publication{}, ErrNoPublishers
	}

	composite, err := s.builder.Build(ctx)
	if err != nil {
		return domain.Publication{}, fmt.Errorf("построение склейки: %w", err)
	}
	png, err := imaging.EncodePNG(composite.Image)
	if err != nil {
		return domain.Publication{}, err
	}

	receipts := make([]domain.PublishReceipt, 0, len(s.publishers))
	for _, publisher := range s.publishers {
		receipt, err := publisher.Publish(ctx, png, s.caption)
		if err != nil {
			metrics.IncPublishError(publisher.Name())
			return domain.Publication{}, fmt.Errorf("публикация в %s: %w", publisher.Name(), err)
		}
		s.log.Info().Str("target", receipt.Target).Str("post_id", receipt.PostID).Msg("склейка опубликована")
		receipts = append(receipts, receipt)
	}

	pub = domain.Publication{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		SeasonID:    composite.Season.ID,
		Entities:    composite.Entities,
		Receipts:    receipts,
		Caption:     s.caption,
		PublishedAt: s.clock.Now(),
	}
	if s.journal != nil {
		// Публикация уже случилась, ошибка журнала её не отменяет.
		if err := s.journal.SavePublication(ctx, pub); err != nil {
			s.log.Error().Err(err).Str("publication", pub.ID).Msg("не удалось записать публикацию в журнал")
		}
	}
	return pub, nil
}
