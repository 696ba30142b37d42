package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/domain/repository"
)

// ModerationUsecase defines the interface for moderation business logic
type ModerationUsecase interface {
	// Moderate validates the input, consults the providers and formats the verdict
	Moderate(ctx context.Context, input ModerateInput) (*ModerationOutput, error)

	// ListProviders describes the enabled providers in configured order
	ListProviders(ctx context.Context) *ProviderListOutput
}

type moderationUsecase struct {
	validator  *Validator
	aggregator *Aggregator
	cache      repository.VerdictCache
	providers  []entity.ProviderInfo
	logger     *zap.Logger
}

// NewModerationUsecase creates a new moderation usecase. cache may be nil.
func NewModerationUsecase(validator *Validator, aggregator *Aggregator, cache repository.VerdictCache, logger *zap.Logger) ModerationUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	providers := make([]entity.ProviderInfo, len(aggregator.providers))
	for i, b := range aggregator.providers {
		providers[i] = b.Provider.Info()
	}
	return &moderationUsecase{
		validator:  validator,
		aggregator: aggregator,
		cache:      cache,
		providers:  providers,
		logger:     logger,
	}
}

func (u *moderationUsecase) Moderate(ctx context.Context, input ModerateInput) (*ModerationOutput, error) {
	req, err := u.validator.Validate(input)
	if err != nil {
		return nil, err
	}

	key := u.cacheKey(req)
	if verdict := u.cachedVerdict(ctx, key); verdict != nil {
		output := FormatVerdict(verdict)
		output.Metadata.Cached = true
		return output, nil
	}

	verdict, err := u.aggregator.Aggregate(ctx, req)
	if err != nil {
		return nil, err
	}

	// a verdict missing a provider is only good until that provider recovers
	if u.cache != nil && verdict.SucceededCount() == len(verdict.PerProvider) {
		if err := u.cache.Set(ctx, key, verdict); err != nil {
			u.logger.Warn("Failed to cache verdict", zap.Error(err))
		}
	}

	return FormatVerdict(verdict), nil
}

func (u *moderationUsecase) ListProviders(_ context.Context) *ProviderListOutput {
	models := make([]entity.ProviderInfo, len(u.providers))
	copy(models, u.providers)
	return &ProviderListOutput{Models: models}
}

func (u *moderationUsecase) cachedVerdict(ctx context.Context, key string) *entity.AggregateVerdict {
	if u.cache == nil {
		return nil
	}
	verdict, err := u.cache.Get(ctx, key)
	if err != nil {
		verdictCacheCount.WithLabelValues("error").Inc()
		u.logger.Warn("Failed to read verdict cache", zap.Error(err))
		return nil
	}
	if verdict == nil {
		verdictCacheCount.WithLabelValues("miss").Inc()
		return nil
	}
	verdictCacheCount.WithLabelValues("hit").Inc()
	return verdict
}

// cacheKey identifies a text together with the provider set that judged it
func (u *moderationUsecase) cacheKey(req *entity.ModerationRequest) string {
	sum := sha256.Sum256([]byte(req.Text))
	return hex.EncodeToString(sum[:]) + ":" + strings.Join(u.aggregator.ProviderIDs(), ",")
}
