package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/domain/repository"
)

const keyPrefix = "moderation/verdict/"

type verdictCache struct {
	data *cache.Cache
	ttl  time.Duration
}

var _ repository.VerdictCache = (*verdictCache)(nil)

// NewVerdictCache creates a verdict cache backed by redis with a small local LFU in front
func NewVerdictCache(client *redis.Client, ttl time.Duration) repository.VerdictCache {
	return &verdictCache{
		data: cache.New(&cache.Options{
			Redis:      client,
			LocalCache: cache.NewTinyLFU(1_000, ttl),
		}),
		ttl: ttl,
	}
}

func cacheKey(key string) string {
	return keyPrefix + key
}

func (c *verdictCache) Get(ctx context.Context, key string) (*entity.AggregateVerdict, error) {
	var val string
	err := c.data.Get(ctx, cacheKey(key), &val)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var verdict entity.AggregateVerdict
	if err := json.Unmarshal([]byte(val), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

func (c *verdictCache) Set(ctx context.Context, key string, verdict *entity.AggregateVerdict) error {
	b, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	return c.data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   cacheKey(key),
		Value: string(b),
		TTL:   c.ttl,
	})
}
