package domain

import (
	"context"
	"image"
	"time"
)

// SessionClient авторизуется в сервисе рейтингов.
type SessionClient interface {
	Authenticate(ctx context.Context) (*Session, error)
}

// RankingFetcher выполняет запросы сезона и списка рейтинга.
type RankingFetcher interface {
	CurrentSeason(ctx context.Context, sess *Session) (Season, error)
	RankedEntities(ctx context.Context, sess *Session, season Season) ([]RankedEntity, error)
}

// AssetFetcher скачивает и декодирует картинку позиции рейтинга.
type AssetFetcher interface {
	Fetch(ctx context.Context, size int, entity RankedEntity) (image.Image, error)
}

// CompositeBuilder строит склейку за один прогон.
type CompositeBuilder interface {
	Build(ctx context.Context) (Composite, error)
}

// Publisher публикует готовую картинку.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, png []byte, caption string) (PublishReceipt, error)
}

// PublicationRepo ведёт журнал публикаций.
type PublicationRepo interface {
	SavePublication(ctx context.Context, p Publication) error
	ListPublications(ctx context.Context, limit int) ([]Publication, error)
}

// Cache используется для однократных действий с TTL.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}
