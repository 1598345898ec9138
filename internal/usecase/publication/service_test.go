package publication

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pgl-ranking-bot/internal/domain"
)

type fakeBuilder struct {
	composite domain.Composite
	err       error
}

func (f *fakeBuilder) Build(context.Context) (domain.Composite, error) {
	return f.composite, f.err
}

type fakePublisher struct {
	name     string
	err      error
	payloads [][]byte
	captions []string
}

func (f *fakePublisher) Name() string { return f.name }

func (f *fakePublisher) Publish(_ context.Context, png []byte, caption string) (domain.PublishReceipt, error) {
	f.payloads = append(f.payloads, png)
	f.captions = append(f.captions, caption)
	if f.err != nil {
		return domain.PublishReceipt{}, f.err
	}
	return domain.PublishReceipt{Target: f.name, PostID: "post-" + f.name}, nil
}

type fakeJournal struct {
	saved []domain.Publication
	err   error
}

func (f *fakeJournal) SavePublication(_ context.Context, p domain.Publication) error {
	f.saved = append(f.saved, p)
	return f.err
}

func (f *fakeJournal) ListPublications(context.Context, int) ([]domain.Publication, error) {
	return f.saved, nil
}

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func readyComposite() domain.Composite {
	return domain.Composite{
		Season:   domain.Season{ID: "42"},
		Entities: []domain.RankedEntity{{Rank: 1, MonsNo: 445}, {Rank: 2, MonsNo: 25}},
		Image:    image.NewNRGBA(image.Rect(0, 0, 2, 4)),
	}
}

func TestPublishSendsToAllPublishersAndJournals(t *testing.T) {
	weibo := &fakePublisher{name: "weibo"}
	tg := &fakePublisher{name: "telegram"}
	journal := &fakeJournal{}
	service := NewService(&fakeBuilder{composite: readyComposite()}, []domain.Publisher{weibo, tg}, journal, "ranking today", domain.FixedClock(testNow), zerolog.Nop())

	pub, err := service.Publish(context.Background(), domain.PublishJob{ID: "job-1"})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(weibo.payloads) != 1 || len(tg.payloads) != 1 {
		t.Fatalf("ожидали по одной публикации на площадку")
	}
	if string(weibo.payloads[0][1:4]) != "PNG" {
		t.Fatalf("ожидали PNG на входе публикатора")
	}
	if weibo.captions[0] != "ranking today" {
		t.Fatalf("неожиданная подпись %q", weibo.captions[0])
	}
	if pub.JobID != "job-1" || pub.SeasonID != "42" || len(pub.Receipts) != 2 || pub.ID == "" {
		t.Fatalf("неожиданная публикация %+v", pub)
	}
	if !pub.PublishedAt.Equal(testNow) {
		t.Fatalf("ожидали время из часов сервиса")
	}
	if len(journal.saved) != 1 || journal.saved[0].ID != pub.ID {
		t.Fatalf("ожидали запись в журнале")
	}
}

func TestPublishSkipsPublishersWhenBuildFails(t *testing.T) {
	weibo := &fakePublisher{name: "weibo"}
	journal := &fakeJournal{}
	builder := &fakeBuilder{err: domain.ErrAssetFetch}
	service := NewService(builder, []domain.Publisher{weibo}, journal, "x", nil, zerolog.Nop())

	_, err := service.Publish(context.Background(), domain.PublishJob{})
	if !errors.Is(err, domain.ErrAssetFetch) {
		t.Fatalf("ожидали ErrAssetFetch, получили %v", err)
	}
	if len(weibo.payloads) != 0 {
		t.Fatalf("публикатор не должен вызываться при ошибке построения")
	}
	if len(journal.saved) != 0 {
		t.Fatalf("журнал не должен пополняться при ошибке")
	}
}

func TestPublishPropagatesUploadError(t *testing.T) {
	weibo := &fakePublisher{name: "weibo", err: domain.ErrUpload}
	journal := &fakeJournal{}
	service := NewService(&fakeBuilder{composite: readyComposite()}, []domain.Publisher{weibo}, journal, "x", nil, zerolog.Nop())

	_, err := service.Publish(context.Background(), domain.PublishJob{})
	if !errors.Is(err, domain.ErrUpload) {
		t.Fatalf("ожидали ErrUpload, получили %v", err)
	}
	if len(journal.saved) != 0 {
		t.Fatalf("журнал не должен пополняться при ошибке загрузки")
	}
}

func TestPublishIgnoresJournalFailure(t *testing.T) {
	journal := &fakeJournal{err: errors.New("db down")}
	service := NewService(&fakeBuilder{composite: readyComposite()}, []domain.Publisher{&fakePublisher{name: "weibo"}}, journal, "x", nil, zerolog.Nop())

	if _, err := service.Publish(context.Background(), domain.PublishJob{}); err != nil {
		t.Fatalf("ошибка журнала не должна валить публикацию: %v", err)
	}
}

func TestPublishRequiresPublishers(t *testing.T) {
	builder := &fakeBuilder{composite: readyComposite()}
	service := NewService(builder, nil, nil, "x", nil, zerolog.Nop())
	if _, err := service.Publish(context.Background(), domain.PublishJob{}); !errors.Is(err, ErrNoPublishers) {
		t.Fatalf("ожидали ErrNoPublishers, получили %v", err)
	}
}
