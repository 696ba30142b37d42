package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

func TestPerspectiveProvider_InvokeAndNormalize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"attributeScores": {
				"TOXICITY": {"summaryScore": {"value": 0.92, "type": "PROBABILITY"}},
				"SEVERE_TOXICITY": {"summaryScore": {"value": 0.41, "type": "PROBABILITY"}},
				"INSULT": {"summaryScore": {"value": 0.88, "type": "PROBABILITY"}}
			}
		}`))
	}))
	defer server.Close()

	attributes := []string{"TOXICITY", "SEVERE_TOXICITY", "INSULT"}
	provider := NewPerspectiveProvider(NewPerspectiveClient(server.URL, "key", attributes, []string{"en"}, noRetryClient()))

	raw, err := provider.Invoke(context.Background(), "you idiot")
	require.NoError(t, err)

	normalized, err := provider.Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryScore{
		"toxicity":        0.92,
		"severe_toxicity": 0.41,
		"insult":          0.88,
	}, normalized.Scores)
	assert.Nil(t, normalized.NativeFlags)
	assert.Equal(t, 3, normalized.Expected)
	assert.Equal(t, "perspective-v1alpha1", normalized.Model)
}

func TestPerspectiveProvider_Normalize(t *testing.T) {
	attributes := []string{"TOXICITY", "THREAT", "PROFANITY"}
	provider := NewPerspectiveProvider(NewPerspectiveClient("", "key", attributes, nil, nil))

	tests := []struct {
		name     string
		response *PerspectiveAnalyzeResponse
		expected entity.CategoryScore
	}{
		{
			name: "missing attribute is omitted",
			response: &PerspectiveAnalyzeResponse{AttributeScores: map[string]PerspectiveAttributeScore{
				"TOXICITY": {SummaryScore: &PerspectiveScore{Value: 0.3}},
				"THREAT":   {SummaryScore: &PerspectiveScore{Value: 0.05}},
			}},
			expected: entity.CategoryScore{"toxicity": 0.3, "threat": 0.05},
		},
		{
			name: "attribute without summary score is omitted",
			response: &PerspectiveAnalyzeResponse{AttributeScores: map[string]PerspectiveAttributeScore{
				"TOXICITY":  {SummaryScore: &PerspectiveScore{Value: 0.3}},
				"PROFANITY": {},
			}},
			expected: entity.CategoryScore{"toxicity": 0.3},
		},
		{
			name: "unrequested attribute is ignored",
			response: &PerspectiveAnalyzeResponse{AttributeScores: map[string]PerspectiveAttributeScore{
				"TOXICITY":   {SummaryScore: &PerspectiveScore{Value: 0.3}},
				"FLIRTATION": {SummaryScore: &PerspectiveScore{Value: 0.9}},
			}},
			expected: entity.CategoryScore{"toxicity": 0.3},
		},
		{
			name:     "no scores",
			response: &PerspectiveAnalyzeResponse{},
			expected: entity.CategoryScore{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, err := provider.Normalize(tt.response)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized.Scores)
			assert.Equal(t, 3, normalized.Expected)
		})
	}

	t.Run("foreign response type", func(t *testing.T) {
		_, err := provider.Normalize(&OpenAIModerationResponse{})

		assert.Error(t, err)
	})
}

func TestPerspectiveProvider_Info(t *testing.T) {
	provider := NewPerspectiveProvider(NewPerspectiveClient("", "key", []string{"TOXICITY", "INSULT"}, nil, nil))

	info := provider.Info()

	assert.Equal(t, "perspective", info.ID)
	assert.Equal(t, "Google Perspective API", info.Name)
	assert.Contains(t, info.Description, "toxicity, insult")
}
