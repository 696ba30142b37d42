package repository

import (
	"context"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

// VerdictCache defines the interface for short-lived verdict caching
type VerdictCache interface {
	// Get returns the cached verdict for key, or nil on a miss
	Get(ctx context.Context, key string) (*entity.AggregateVerdict, error)

	// Set stores a verdict under key
	Set(ctx context.Context, key string, verdict *entity.AggregateVerdict) error
}
