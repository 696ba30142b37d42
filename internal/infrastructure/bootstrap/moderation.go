package bootstrap

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karlgroves/openai-content-moderator/internal/adapter/client"
	"github.com/karlgroves/openai-content-moderator/internal/adapter/repository/memory"
	redisrepo "github.com/karlgroves/openai-content-moderator/internal/adapter/repository/redis"
	"github.com/karlgroves/openai-content-moderator/internal/domain/repository"
	"github.com/karlgroves/openai-content-moderator/internal/domain/service"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/config"
	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Moderation is the assembled moderation pipeline
type Moderation struct {
	Usecase     usecase.ModerationUsecase
	ProviderIDs []string
}

// NeedsRedis reports whether the configuration asks for a redis verdict cache
func NeedsRedis(cfg *config.Config) bool {
	return cfg.Moderation.CacheTTL > 0 && cfg.Moderation.CacheBackend == CacheBackendRedis
}

// NewModeration builds the providers, verdict cache and usecase from configuration.
// redisClient is only used by the redis cache backend.
func NewModeration(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*Moderation, error) {
	bindings := ProviderBindings(&cfg.Providers, logger)
	if len(bindings) == 0 {
		return nil, usecase.ErrNoProviders
	}

	cache, err := NewVerdictCache(&cfg.Moderation, redisClient)
	if err != nil {
		return nil, err
	}

	aggregator := usecase.NewAggregator(bindings, logger)
	return &Moderation{
		Usecase:     usecase.NewModerationUsecase(usecase.NewValidator(cfg.Moderation.MaxLength), aggregator, cache, logger),
		ProviderIDs: aggregator.ProviderIDs(),
	}, nil
}

// ProviderBindings creates the enabled providers in configured order, OpenAI first
func ProviderBindings(cfg *config.ProvidersConfig, logger *zap.Logger) []usecase.ProviderBinding {
	var bindings []usecase.ProviderBinding

	if p := cfg.OpenAI; p.Enabled {
		httpClient := client.NewHTTPClient(client.WithMaxRetries(p.MaxRetries), client.WithLogger(logger))
		openai := client.NewOpenAIClient(p.BaseURL, p.APIKey, p.Model, httpClient)
		bindings = append(bindings, usecase.ProviderBinding{
			Provider: client.NewOpenAIProvider(openai),
			Policy:   policy(p.ProviderConfig),
		})
	}

	if p := cfg.Perspective; p.Enabled {
		httpClient := client.NewHTTPClient(client.WithMaxRetries(p.MaxRetries), client.WithLogger(logger))
		perspective := client.NewPerspectiveClient(p.BaseURL, p.APIKey, p.Attributes, p.Languages, httpClient)
		bindings = append(bindings, usecase.ProviderBinding{
			Provider: client.NewPerspectiveProvider(perspective),
			Policy:   policy(p.ProviderConfig),
		})
	}

	return bindings
}

func policy(p config.ProviderConfig) service.ProviderPolicy {
	return service.ProviderPolicy{
		FailOpen:   p.FailOpen,
		Thresholds: p.Thresholds,
		Timeout:    p.Timeout,
	}
}

// NewVerdictCache returns the configured cache, or nil when caching is disabled
func NewVerdictCache(cfg *config.ModerationConfig, redisClient *redis.Client) (repository.VerdictCache, error) {
	if cfg.CacheTTL <= 0 {
		return nil, nil
	}
	switch cfg.CacheBackend {
	case CacheBackendMemory, "":
		return memory.NewVerdictCache(cfg.CacheSize, cfg.CacheTTL), nil
	case CacheBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis cache backend requires a redis connection")
		}
		return redisrepo.NewVerdictCache(redisClient, cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
