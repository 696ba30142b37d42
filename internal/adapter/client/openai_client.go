package client

import (
	"context"
	"net/http"
	"strings"
)

const (
	// OpenAIProviderID identifies the OpenAI moderation provider
	OpenAIProviderID = "openai"

	openAIDisplayName     = "OpenAI"
	openAIModerationsPath = "/v1/moderations"
	defaultOpenAIBaseURL  = "https://api.openai.com"
	defaultOpenAIModel    = "omni-moderation-latest"
)

// OpenAIModerationRequest represents a request to the moderations endpoint
type OpenAIModerationRequest struct {
	Model string `json:"model,omitempty"`
	Input string `json:"input"`
}

// OpenAIModerationResult represents a single moderation result
type OpenAIModerationResult struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// OpenAIModerationResponse represents the response from the moderations endpoint
type OpenAIModerationResponse struct {
	ID      string                   `json:"id"`
	Model   string                   `json:"model"`
	Results []OpenAIModerationResult `json:"results"`
}

// ProviderID implements service.RawResponse
func (r *OpenAIModerationResponse) ProviderID() string {
	return OpenAIProviderID
}

// OpenAIClient is an HTTP client for the OpenAI moderations API
type OpenAIClient struct {
	endpoint
	baseURL string
	apiKey  string
	model   string
}

// NewOpenAIClient creates a new OpenAI moderation client
func NewOpenAIClient(baseURL, apiKey, model string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &OpenAIClient{
		endpoint: endpoint{
			providerID:  OpenAIProviderID,
			displayName: openAIDisplayName,
			httpClient:  httpClient,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// Model returns the configured moderation model
func (c *OpenAIClient) Model() string {
	return c.model
}

// Moderate sends a single text for moderation
func (c *OpenAIClient) Moderate(ctx context.Context, text string) (*OpenAIModerationResponse, error) {
	reqBody := OpenAIModerationRequest{
		Model: c.model,
		Input: text,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var result OpenAIModerationResponse
	if err := c.postJSON(ctx, c.baseURL+openAIModerationsPath, headers, reqBody, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
