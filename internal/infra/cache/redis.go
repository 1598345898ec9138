package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"pgl-ranking-bot/internal/domain"
)

// RedisCache реализует domain.Cache через Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedis создаёт кэш.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

var _ domain.Cache = (*RedisCache)(nil)

// Once выполняет функцию, если ключ ещё не задан. При ошибке ключ снимается,
// чтобы следующая попытка могла пройти.
func (c *RedisCache) Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	ok, err := c.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := fn(); err != nil {
		_ = c.client.Del(context.WithoutCancel(ctx), key).Err()
		return err
	}
	return nil
}
