package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	// PerspectiveProviderID identifies the Perspective toxicity provider
	PerspectiveProviderID = "perspective"

	perspectiveDisplayName = "Google Perspective"
	perspectiveAnalyzePath = "/v1alpha1/comments:analyze"
	defaultPerspectiveURL  = "https://commentanalyzer.googleapis.com"
	perspectiveModel       = "perspective-v1alpha1"
)

// PerspectiveComment is the text being analyzed
type PerspectiveComment struct {
	Text string `json:"text"`
}

// PerspectiveAttributeRequest configures one requested attribute
type PerspectiveAttributeRequest struct {
	ScoreType string `json:"scoreType,omitempty"`
}

// PerspectiveAnalyzeRequest represents a request to comments:analyze
type PerspectiveAnalyzeRequest struct {
	Comment             PerspectiveComment                     `json:"comment"`
	RequestedAttributes map[string]PerspectiveAttributeRequest `json:"requestedAttributes"`
	Languages           []string                               `json:"languages,omitempty"`
	DoNotStore          bool                                   `json:"doNotStore"`
}

// PerspectiveScore is a single probability score
type PerspectiveScore struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
}

// PerspectiveAttributeScore holds the scores for one attribute
type PerspectiveAttributeScore struct {
	SummaryScore *PerspectiveScore `json:"summaryScore"`
}

// PerspectiveAnalyzeResponse represents the response from comments:analyze
type PerspectiveAnalyzeResponse struct {
	AttributeScores   map[string]PerspectiveAttributeScore `json:"attributeScores"`
	Languages         []string                             `json:"languages"`
	DetectedLanguages []string                             `json:"detectedLanguages"`
}

// ProviderID implements service.RawResponse
func (r *PerspectiveAnalyzeResponse) ProviderID() string {
	return PerspectiveProviderID
}

// PerspectiveClient is an HTTP client for the Perspective comment analyzer
type PerspectiveClient struct {
	endpoint
	baseURL    string
	apiKey     string
	attributes []string
	languages  []string
}

// NewPerspectiveClient creates a new Perspective client. Attribute names are
// sent upper-cased, as the API expects.
func NewPerspectiveClient(baseURL, apiKey string, attributes, languages []string, httpClient *http.Client) *PerspectiveClient {
	if baseURL == "" {
		baseURL = defaultPerspectiveURL
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	attrs := make([]string, len(attributes))
	for i, a := range attributes {
		attrs[i] = strings.ToUpper(strings.TrimSpace(a))
	}
	return &PerspectiveClient{
		endpoint: endpoint{
			providerID:  PerspectiveProviderID,
			displayName: perspectiveDisplayName,
			httpClient:  httpClient,
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		attributes: attrs,
		languages:  languages,
	}
}

// Attributes returns the requested attribute names
func (c *PerspectiveClient) Attributes() []string {
	return c.attributes
}

// Analyze requests summary scores for the configured attributes
func (c *PerspectiveClient) Analyze(ctx context.Context, text string) (*PerspectiveAnalyzeResponse, error) {
	requested := make(map[string]PerspectiveAttributeRequest, len(c.attributes))
	for _, attr := range c.attributes {
		requested[attr] = PerspectiveAttributeRequest{}
	}
	reqBody := PerspectiveAnalyzeRequest{
		Comment:             PerspectiveComment{Text: text},
		RequestedAttributes: requested,
		Languages:           c.languages,
		DoNotStore:          true,
	}

	endpointURL := c.baseURL + perspectiveAnalyzePath + "?key=" + url.QueryEscape(c.apiKey)

	var result PerspectiveAnalyzeResponse
	if err := c.postJSON(ctx, endpointURL, nil, reqBody, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
