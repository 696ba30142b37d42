package client

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/domain/service"
)

// PerspectiveProvider adapts PerspectiveClient to the Provider interface
type PerspectiveProvider struct {
	client *PerspectiveClient
}

// NewPerspectiveProvider creates a new PerspectiveProvider
func NewPerspectiveProvider(client *PerspectiveClient) service.Provider {
	return &PerspectiveProvider{client: client}
}

// Info describes the provider
func (p *PerspectiveProvider) Info() entity.ProviderInfo {
	return entity.ProviderInfo{
		ID:          PerspectiveProviderID,
		Name:        "Google Perspective API",
		Description: "Toxicity analysis classifier scoring " + strings.ToLower(strings.Join(p.client.Attributes(), ", ")),
	}
}

// Invoke analyzes a single text
func (p *PerspectiveProvider) Invoke(ctx context.Context, text string) (service.RawResponse, error) {
	resp, err := p.client.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Normalize extracts summaryScore.value for every requested attribute and
// lower-cases the attribute name. Attributes missing from the response are omitted.
func (p *PerspectiveProvider) Normalize(raw service.RawResponse) (*service.Normalized, error) {
	resp, ok := raw.(*PerspectiveAnalyzeResponse)
	if !ok {
		return nil, newDecodeError(PerspectiveProviderID, perspectiveDisplayName,
			errors.Errorf("unexpected response type %T", raw))
	}

	attributes := p.client.Attributes()
	scores := make(entity.CategoryScore, len(attributes))
	for _, attr := range attributes {
		data, ok := resp.AttributeScores[attr]
		if !ok || data.SummaryScore == nil {
			continue
		}
		scores[strings.ToLower(attr)] = data.SummaryScore.Value
	}

	return &service.Normalized{
		Scores:   scores,
		Expected: len(attributes),
		Model:    perspectiveModel,
	}, nil
}
