package publication

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
)

const popErrorBackoff = time.Second

type jobPublisher interface {
	Publish(ctx context.Context, job domain.PublishJob) (domain.Publication, error)
}

// Worker выполняет задачи из очереди по одной.
type Worker struct {
	queue     domain.PublishQueue
	publisher jobPublisher
	log       zerolog.Logger
}

// NewWorker создаёт обработчик очереди публикаций.
func NewWorker(queue domain.PublishQueue, publisher jobPublisher, logger zerolog.Logger) *Worker {
	return &Worker{queue: queue, publisher: publisher, log: logger}
}

// Run читает очередь до отмены контекста. Упавшая задача не повторяется:
// следующая публикация придёт по расписанию.
func (w *Worker) Run(ctx context.Context) {
	for {
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error().Err(err).Msg("worker: ошибка чтения очереди")
			select {
			case <-ctx.Done():
				return
			case <-time.After(popErrorBackoff):
			}
			continue
		}

		logger := w.log.With().Str("job", job.ID).Str("cause", string(job.Cause)).Logger()
		logger.Info().Msg("worker: задача получена")
		pub, err := w.publisher.Publish(ctx, job)
		if err != nil {
			logger.Error().Err(err).Msg("worker: публикация не удалась")
			continue
		}
		logger.Info().Str("publication", pub.ID).Str("season", pub.SeasonID).Int("entities", len(pub.Entities)).Msg("worker: публикация завершена")
	}
}
