package client

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/domain/service"
)

// OpenAIProvider adapts OpenAIClient to the Provider interface
type OpenAIProvider struct {
	client *OpenAIClient
}

// NewOpenAIProvider creates a new OpenAIProvider
func NewOpenAIProvider(client *OpenAIClient) service.Provider {
	return &OpenAIProvider{client: client}
}

// Info describes the provider
func (p *OpenAIProvider) Info() entity.ProviderInfo {
	return entity.ProviderInfo{
		ID:          OpenAIProviderID,
		Name:        fmt.Sprintf("OpenAI Moderation (%s)", p.client.Model()),
		Description: "General-purpose moderation classifier with per-category flags and scores",
	}
}

// Invoke moderates a single text
func (p *OpenAIProvider) Invoke(ctx context.Context, text string) (service.RawResponse, error) {
	resp, err := p.client.Moderate(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Normalize passes OpenAI category names and scores through unchanged
func (p *OpenAIProvider) Normalize(raw service.RawResponse) (*service.Normalized, error) {
	resp, ok := raw.(*OpenAIModerationResponse)
	if !ok {
		return nil, newDecodeError(OpenAIProviderID, openAIDisplayName,
			errors.Errorf("unexpected response type %T", raw))
	}
	if len(resp.Results) == 0 {
		return nil, newDecodeError(OpenAIProviderID, openAIDisplayName,
			errors.New("response contained no results"))
	}

	result := resp.Results[0]
	scores := make(entity.CategoryScore, len(result.CategoryScores))
	for category, score := range result.CategoryScores {
		scores[category] = score
	}
	flags := make(entity.CategoryFlags, len(result.Categories))
	for category, flagged := range result.Categories {
		flags[category] = flagged
	}

	model := resp.Model
	if model == "" {
		model = p.client.Model()
	}

	return &service.Normalized{
		Scores:      scores,
		NativeFlags: flags,
		Model:       model,
	}, nil
}
