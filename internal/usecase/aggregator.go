package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/domain/service"
)

// Pipeline errors
var (
	ErrAllProvidersFailed = errors.New("all moderation providers failed")
	ErrNoProviders        = errors.New("no moderation providers configured")
)

// ProviderBinding pairs an enabled provider with the policy the aggregator applies to it
type ProviderBinding struct {
	Provider service.Provider
	Policy   service.ProviderPolicy
}

// Aggregator fans a request out to every enabled provider and merges the results
type Aggregator struct {
	providers []ProviderBinding
	logger    *zap.Logger
	now       func() time.Time
}

// NewAggregator creates a new Aggregator. Providers are consulted and reported in the given order.
func NewAggregator(providers []ProviderBinding, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		providers: providers,
		logger:    logger,
		now:       time.Now,
	}
}

// ProviderIDs returns the ids of the enabled providers in configured order
func (a *Aggregator) ProviderIDs() []string {
	ids := make([]string, len(a.providers))
	for i, b := range a.providers {
		ids[i] = b.Provider.Info().ID
	}
	return ids
}

// Aggregate consults every provider concurrently and waits for all of them.
// A fail-closed provider failure is returned as *entity.ProviderError and
// cancels the remaining calls. A verdict is never built from zero successful providers.
func (a *Aggregator) Aggregate(ctx context.Context, req *entity.ModerationRequest) (*entity.AggregateVerdict, error) {
	if len(a.providers) == 0 {
		return nil, ErrNoProviders
	}

	start := a.now()
	results := make([]*entity.ProviderResult, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, binding := range a.providers {
		g.Go(func() error {
			result, perr := a.consult(gctx, binding, req.Text)
			results[i] = result
			if perr == nil {
				return nil
			}

			a.logFailure(binding, perr)
			if !binding.Policy.FailOpen {
				return perr
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		verdictCount.WithLabelValues(verdictOutcomeAborted).Inc()
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	verdict := &entity.AggregateVerdict{
		PerProvider: make(map[string]*entity.ProviderResult, len(results)),
		Metadata: entity.VerdictMetadata{
			Timestamp:          a.now().UTC(),
			TextLength:         req.Length(),
			ProvidersConsulted: make([]string, 0, len(results)),
		},
	}
	for _, result := range results {
		verdict.PerProvider[result.ProviderID] = result
		verdict.Metadata.ProvidersConsulted = append(verdict.Metadata.ProvidersConsulted, result.ProviderID)
		providerResultCount.WithLabelValues(result.ProviderID, string(result.Status)).Inc()
		verdict.Flagged = verdict.Flagged || result.IsFlagged()
	}

	if verdict.SucceededCount() == 0 {
		verdictCount.WithLabelValues(verdictOutcomeFailed).Inc()
		a.logger.Error("All moderation providers failed",
			zap.Strings("providers", verdict.Metadata.ProvidersConsulted))
		return nil, ErrAllProvidersFailed
	}

	verdictCount.WithLabelValues(outcomeLabel(verdict.Flagged)).Inc()
	a.logger.Info("Moderation verdict",
		zap.Bool("flagged", verdict.Flagged),
		zap.Strings("providers", verdict.Metadata.ProvidersConsulted),
		zap.Int("succeeded", verdict.SucceededCount()),
		zap.Int("text_length", verdict.Metadata.TextLength),
		zap.Duration("latency", a.now().Sub(start)),
	)

	return verdict, nil
}

// consult runs one provider. It always returns a result; the error is non-nil
// exactly when the result is Failed.
func (a *Aggregator) consult(ctx context.Context, binding ProviderBinding, text string) (*entity.ProviderResult, *entity.ProviderError) {
	id := binding.Provider.Info().ID
	if binding.Policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, binding.Policy.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, perr := a.invoke(ctx, binding, id, text)
	latency := time.Since(start).Milliseconds()

	if perr != nil {
		result = entity.NewFailedResult(id, perr.Info())
	}
	result.LatencyMs = latency
	return result, perr
}

func (a *Aggregator) invoke(ctx context.Context, binding ProviderBinding, id, text string) (*entity.ProviderResult, *entity.ProviderError) {
	raw, err := binding.Provider.Invoke(ctx, text)
	if err != nil {
		return nil, toProviderError(ctx, id, err)
	}
	if raw == nil || raw.ProviderID() != id {
		return nil, unknownProviderError(id, errors.New("provider returned a foreign response"))
	}

	normalized, err := binding.Provider.Normalize(raw)
	if err != nil {
		return nil, toProviderError(ctx, id, err)
	}
	if len(normalized.Scores) == 0 {
		return nil, unknownProviderError(id, errors.New("provider reported no category scores"))
	}

	flags := service.ResolveFlags(normalized, binding.Policy.Thresholds)
	result := entity.NewProviderResult(id, flags, normalized.Scores, service.ResolveStatus(normalized))
	result.Model = normalized.Model
	return result, nil
}

func (a *Aggregator) logFailure(binding ProviderBinding, perr *entity.ProviderError) {
	policy := "fail_closed"
	if binding.Policy.FailOpen {
		policy = "fail_open"
	}
	a.logger.Warn("Moderation provider failed",
		zap.String("provider", perr.Provider),
		zap.String("kind", string(perr.Kind)),
		zap.Int("status_code", perr.StatusCode),
		zap.String("policy", policy),
		zap.Error(perr.Err),
	)
}

// toProviderError keeps adapter errors as they are and classifies anything else.
// Deadlines count as ServiceUnavailable.
func toProviderError(ctx context.Context, id string, err error) *entity.ProviderError {
	var perr *entity.ProviderError
	if errors.As(err, &perr) {
		return perr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &entity.ProviderError{
			Provider: id,
			Kind:     entity.ErrorKindServiceUnavailable,
			Message:  "Moderation service is temporarily unavailable. Please try again later.",
			Err:      err,
		}
	}
	return unknownProviderError(id, err)
}

func unknownProviderError(id string, err error) *entity.ProviderError {
	return &entity.ProviderError{
		Provider: id,
		Kind:     entity.ErrorKindUnknown,
		Message:  "Failed to process moderation request",
		Err:      err,
	}
}
