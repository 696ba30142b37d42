package usecase

import (
	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

// ModerationOutput is the externally visible moderation response
type ModerationOutput struct {
	Flagged  bool                      `json:"flagged"`
	Services map[string]*ServiceOutput `json:"services"`
	Metadata ModerationMetadataOutput  `json:"metadata"`
}

// ModerationMetadataOutput describes the pipeline run
type ModerationMetadataOutput struct {
	Timestamp    string   `json:"timestamp"`
	TextLength   int      `json:"textLength"`
	ServicesUsed []string `json:"servicesUsed"`
	Cached       bool     `json:"cached,omitempty"`
}

// ServiceOutput is the evidence reported by one provider
type ServiceOutput struct {
	// Results is null for a provider that failed
	Results  *ServiceResultsOutput `json:"results"`
	Metadata ServiceMetadataOutput `json:"metadata"`
}

// ServiceResultsOutput holds one provider's flags and scores
type ServiceResultsOutput struct {
	Flagged        bool               `json:"flagged"`
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// ServiceMetadataOutput describes one provider call
type ServiceMetadataOutput struct {
	Timestamp  string            `json:"timestamp"`
	TextLength int               `json:"textLength"`
	Service    string            `json:"service"`
	Model      string            `json:"model,omitempty"`
	Status     string            `json:"status"`
	LatencyMs  int64             `json:"latencyMs"`
	Error      *ServiceErrorInfo `json:"error,omitempty"`
}

// ServiceErrorInfo is the failure recorded for a fail-open provider
type ServiceErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ProviderListOutput is the capability discovery response
type ProviderListOutput struct {
	Models []entity.ProviderInfo `json:"models"`
}

// TimestampLayout renders UTC timestamps with fixed millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatVerdict maps an AggregateVerdict onto the response shape. Every score is kept.
func FormatVerdict(verdict *entity.AggregateVerdict) *ModerationOutput {
	timestamp := verdict.Metadata.Timestamp.UTC().Format(TimestampLayout)

	services := make(map[string]*ServiceOutput, len(verdict.PerProvider))
	for id, result := range verdict.PerProvider {
		service := &ServiceOutput{
			Metadata: ServiceMetadataOutput{
				Timestamp:  timestamp,
				TextLength: verdict.Metadata.TextLength,
				Service:    id,
				Model:      result.Model,
				Status:     string(result.Status),
				LatencyMs:  result.LatencyMs,
			},
		}
		if result.Succeeded() {
			service.Results = &ServiceResultsOutput{
				Flagged:        *result.Flagged,
				Categories:     copyFlags(result.Categories),
				CategoryScores: copyScores(result.Scores),
			}
		}
		if result.Error != nil {
			service.Metadata.Error = &ServiceErrorInfo{
				Kind:    string(result.Error.Kind),
				Message: result.Error.Message,
			}
		}
		services[id] = service
	}

	servicesUsed := make([]string, len(verdict.Metadata.ProvidersConsulted))
	copy(servicesUsed, verdict.Metadata.ProvidersConsulted)

	return &ModerationOutput{
		Flagged:  verdict.Flagged,
		Services: services,
		Metadata: ModerationMetadataOutput{
			Timestamp:    timestamp,
			TextLength:   verdict.Metadata.TextLength,
			ServicesUsed: servicesUsed,
		},
	}
}

func copyFlags(in entity.CategoryFlags) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyScores(in entity.CategoryScore) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
