package domain

import (
	"context"
	"time"
)

// PublishJobCause описывает источник задачи на публикацию.
type PublishJobCause string

const (
	// PublishCauseManual: публикацию запросили через API.
	PublishCauseManual PublishJobCause = "manual"
	// PublishCauseScheduled: публикация по ежедневному расписанию.
	PublishCauseScheduled PublishJobCause = "scheduled"
)

// PublishJob содержит информацию о задаче публикации.
type PublishJob struct {
	ID          string          `json:"job_id"`
	Date        time.Time       `json:"date"`
	RequestedAt time.Time       `json:"requested_at"`
	Cause       PublishJobCause `json:"cause"`
}

// PublishQueue описывает очередь задач на публикацию.
type PublishQueue interface {
	Enqueue(ctx context.Context, job PublishJob) error
	Pop(ctx context.Context) (PublishJob, error)
}
