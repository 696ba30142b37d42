package service

import (
	"context"
	"time"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

// RawResponse is a provider's undecoded answer. Each adapter defines its own
// concrete type and is the only code allowed to look inside it.
type RawResponse interface {
	// ProviderID identifies the adapter that produced the response
	ProviderID() string
}

// Normalized is a provider response mapped onto the common category vocabulary
type Normalized struct {
	Scores entity.CategoryScore
	// NativeFlags holds per-category flags when the provider computes its own
	NativeFlags entity.CategoryFlags
	// Expected is the number of categories the adapter asked for, zero if the provider decides
	Expected int
	Model    string
}

// Provider defines the interface for a content classification service
type Provider interface {
	// Info describes the provider for capability discovery
	Info() entity.ProviderInfo

	// Invoke calls the classification service. Failures are *entity.ProviderError.
	Invoke(ctx context.Context, text string) (RawResponse, error)

	// Normalize maps the provider's native response onto category scores
	Normalize(raw RawResponse) (*Normalized, error)
}

// ProviderPolicy is the per-provider configuration the aggregator acts on
type ProviderPolicy struct {
	// FailOpen providers are recorded as failed without aborting the request
	FailOpen   bool
	Thresholds map[string]float64
	// Timeout bounds a single call including retries, zero means no extra deadline
	Timeout time.Duration
}
