package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

func TestRedisVerdictCacheBasics(t *testing.T) {
	t.Skip("live test, need redis running locally")
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	c := NewVerdictCache(client, time.Minute)

	v, err := c.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, v)

	verdict := &entity.AggregateVerdict{
		Flagged: true,
		PerProvider: map[string]*entity.ProviderResult{
			"openai": entity.NewProviderResult("openai", entity.CategoryFlags{"hate": true}, entity.CategoryScore{"hate": 0.9}, entity.ProviderStatusOK),
		},
		Metadata: entity.VerdictMetadata{
			Timestamp:          time.Now().UTC().Truncate(time.Millisecond),
			TextLength:         4,
			ProvidersConsulted: []string{"openai"},
		},
	}
	assert.NoError(t, c.Set(ctx, "test1", verdict))

	v, err = c.Get(ctx, "test1")
	assert.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.Flagged)
	assert.True(t, v.PerProvider["openai"].IsFlagged())
	assert.Equal(t, 0.9, v.PerProvider["openai"].Scores["hate"])
	assert.NoError(t, client.Del(ctx, cacheKey("test1")).Err())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "moderation/verdict/abc:openai", cacheKey("abc:openai"))
}
