package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // часовые пояса без системной tzdata в контейнере

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
	"pgl-ranking-bot/internal/infra/metrics"
)

// ErrInvalidTimezone возвращается, если указан некорректный часовой пояс.
var ErrInvalidTimezone = errors.New("invalid timezone")

// ErrInvalidDailyTime возвращается, если время публикации не в формате HH:MM.
var ErrInvalidDailyTime = errors.New("invalid daily time")

const lockTTL = 36 * time.Hour

// Service ставит ежедневную задачу публикации.
type Service struct {
	queue    domain.PublishQueue
	cache    domain.Cache
	location *time.Location
	daily    time.Duration
	log      zerolog.Logger
}

// NewService создаёт планировщик. dailyTime задаётся как HH:MM в часовом поясе timezone.
func NewService(queue domain.PublishQueue, cache domain.Cache, timezone, dailyTime string, logger zerolog.Logger) (*Service, error) {
	normalized, err := normalizeTimezone(timezone)
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, timezone)
	}
	parsed, err := time.Parse("15:04", strings.TrimSpace(dailyTime))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDailyTime, dailyTime)
	}
	daily := time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute
	return &Service{queue: queue, cache: cache, location: location, daily: daily, log: logger}, nil
}

// Tick ставит задачу, если время публикации наступило и сегодня задачи ещё не было.
func (s *Service) Tick(ctx context.Context, now time.Time) (bool, error) {
	local := now.In(s.location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	if local.Before(day.Add(s.daily)) {
		return false, nil
	}

	enqueued := false
	key := "publish:" + day.Format("2006-01-02")
	err := s.cache.Once(ctx, key, lockTTL, func() error {
		job := newJob(now, day, domain.PublishCauseScheduled)
		if err := s.enqueue(ctx, job); err != nil {
			return err
		}
		enqueued = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("постановка задачи на %s: %w", key, err)
	}
	return enqueued, nil
}

// EnqueueNow ставит внеплановую задачу публикации.
func (s *Service) EnqueueNow(ctx context.Context, now time.Time) (domain.PublishJob, error) {
	local := now.In(s.location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	job := newJob(now, day, domain.PublishCauseManual)
	if err := s.enqueue(ctx, job); err != nil {
		return domain.PublishJob{}, err
	}
	return job, nil
}

func (s *Service) enqueue(ctx context.Context, job domain.PublishJob) error {
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	metrics.IncJobEnqueued(string(job.Cause))
	s.log.Info().Str("job", job.ID).Str("cause", string(job.Cause)).Time("date", job.Date).Msg("задача публикации поставлена")
	return nil
}

func newJob(now, day time.Time, cause domain.PublishJobCause) domain.PublishJob {
	return domain.PublishJob{
		ID:          uuid.NewString(),
		Date:        day,
		RequestedAt: now.UTC(),
		Cause:       cause,
	}
}

func normalizeTimezone(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", ErrInvalidTimezone
	}
	candidate = strings.ReplaceAll(candidate, " ", "_")
	if _, err := time.LoadLocation(candidate); err == nil {
		return candidate, nil
	}

	lower := strings.ToLower(candidate)
	parts := strings.Split(lower, "/")
	for i, part := range parts {
		segments := strings.Split(part, "_")
		for j, segment := range segments {
			pieces := strings.Split(segment, "-")
			for k, piece := range pieces {
				if piece == "" {
					continue
				}
				pieces[k] = strings.ToUpper(piece[:1]) + piece[1:]
			}
			segments[j] = strings.Join(pieces, "-")
		}
		parts[i] = strings.Join(segments, "_")
	}
	normalized := strings.Join(parts, "/")
	if _, err := time.LoadLocation(normalized); err == nil {
		return normalized, nil
	}
	return "", ErrInvalidTimezone
}
