package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/domain/repository"
)

// DefaultCapacity bounds the number of cached verdicts
const DefaultCapacity = 10_000

type verdictCache struct {
	data *expirable.LRU[string, string]
}

// NewVerdictCache creates an in-process verdict cache. Verdicts are stored
// serialized so that callers never share mutable state through the cache.
func NewVerdictCache(capacity int, ttl time.Duration) repository.VerdictCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &verdictCache{
		data: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

func (c *verdictCache) Get(_ context.Context, key string) (*entity.AggregateVerdict, error) {
	v, ok := c.data.Get(key)
	if !ok {
		return nil, nil
	}
	var verdict entity.AggregateVerdict
	if err := json.Unmarshal([]byte(v), &verdict); err != nil {
		c.data.Remove(key)
		return nil, err
	}
	return &verdict, nil
}

func (c *verdictCache) Set(_ context.Context, key string, verdict *entity.AggregateVerdict) error {
	b, err := json.Marshal(verdict)
	if err != nil {
		return err
	}
	c.data.Add(key, string(b))
	return nil
}
