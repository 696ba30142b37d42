package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

func sampleVerdict() *entity.AggregateVerdict {
	return &entity.AggregateVerdict{
		Flagged: false,
		PerProvider: map[string]*entity.ProviderResult{
			"openai": entity.NewProviderResult("openai",
				entity.CategoryFlags{"hate": false},
				entity.CategoryScore{"hate": 0.1},
				entity.ProviderStatusOK),
			"perspective": entity.NewFailedResult("perspective", &entity.ErrorInfo{
				Kind:    entity.ErrorKindServiceUnavailable,
				Message: "unavailable",
			}),
		},
		Metadata: entity.VerdictMetadata{
			Timestamp:          time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			TextLength:         5,
			ProvidersConsulted: []string{"openai", "perspective"},
		},
	}
}

func TestVerdictCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		c := NewVerdictCache(10, time.Minute)

		v, err := c.Get(ctx, "nope")

		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("round trip", func(t *testing.T) {
		c := NewVerdictCache(10, time.Minute)
		require.NoError(t, c.Set(ctx, "k", sampleVerdict()))

		v, err := c.Get(ctx, "k")

		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, sampleVerdict().Metadata, v.Metadata)
		assert.Equal(t, entity.ProviderStatusOK, v.PerProvider["openai"].Status)
		assert.False(t, v.PerProvider["openai"].IsFlagged())
		assert.Nil(t, v.PerProvider["perspective"].Flagged)
		assert.Equal(t, 1, v.SucceededCount())
	})

	t.Run("entries are independent copies", func(t *testing.T) {
		c := NewVerdictCache(10, time.Minute)
		require.NoError(t, c.Set(ctx, "k", sampleVerdict()))

		first, err := c.Get(ctx, "k")
		require.NoError(t, err)
		first.Flagged = true
		first.PerProvider["openai"].Scores["hate"] = 1

		second, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, second.Flagged)
		assert.Equal(t, 0.1, second.PerProvider["openai"].Scores["hate"])
	})

	t.Run("expiry", func(t *testing.T) {
		c := NewVerdictCache(10, 10*time.Millisecond)
		require.NoError(t, c.Set(ctx, "k", sampleVerdict()))

		time.Sleep(50 * time.Millisecond)
		v, err := c.Get(ctx, "k")

		assert.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("capacity evicts oldest", func(t *testing.T) {
		c := NewVerdictCache(1, time.Minute)
		require.NoError(t, c.Set(ctx, "a", sampleVerdict()))
		require.NoError(t, c.Set(ctx, "b", sampleVerdict()))

		v, err := c.Get(ctx, "a")
		assert.NoError(t, err)
		assert.Nil(t, v)

		v, err = c.Get(ctx, "b")
		assert.NoError(t, err)
		assert.NotNil(t, v)
	})
}
