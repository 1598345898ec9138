package publication

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
)

type fakeQueue struct {
	jobs   []domain.PublishJob
	cancel context.CancelFunc
}

func (f *fakeQueue) Enqueue(_ context.Context, job domain.PublishJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Pop(ctx context.Context) (domain.PublishJob, error) {
	if len(f.jobs) == 0 {
		f.cancel()
		<-ctx.Done()
		return domain.PublishJob{}, ctx.Err()
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

type recordingPublisher struct {
	handled []string
	failOn  string
}

func (r *recordingPublisher) Publish(_ context.Context, job domain.PublishJob) (domain.Publication, error) {
	r.handled = append(r.handled, job.ID)
	if job.ID == r.failOn {
		return domain.Publication{}, errors.New("boom")
	}
	return domain.Publication{ID: "pub-" + job.ID}, nil
}

func TestWorkerProcessesJobsInOrderAndSurvivesFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue := &fakeQueue{cancel: cancel, jobs: []domain.PublishJob{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	publisher := &recordingPublisher{failOn: "b"}

	NewWorker(queue, publisher, zerolog.Nop()).Run(ctx)

	want := []string{"a", "b", "c"}
	if len(publisher.handled) != len(want) {
		t.Fatalf("ожидали %d задач, обработано %d", len(want), len(publisher.handled))
	}
	for i := range want {
		if publisher.handled[i] != want[i] {
			t.Fatalf("задача %d: %s, ожидали %s", i, publisher.handled[i], want[i])
		}
	}
}
