package entity

import (
	"time"
	"unicode/utf16"
)

// ProviderStatus represents the outcome of a single provider call
type ProviderStatus string

const (
	ProviderStatusOK       ProviderStatus = "ok"
	ProviderStatusDegraded ProviderStatus = "degraded"
	ProviderStatusFailed   ProviderStatus = "failed"
)

// CategoryScore maps a category name to a score in [0, 1]
type CategoryScore map[string]float64

// CategoryFlags maps a category name to its flagged state
type CategoryFlags map[string]bool

// AnyFlagged returns true if at least one category is flagged
func (f CategoryFlags) AnyFlagged() bool {
	for _, flagged := range f {
		if flagged {
			return true
		}
	}
	return false
}

// ModerationRequest is a validated moderation input
type ModerationRequest struct {
	Text string `json:"text"`
}

// NewModerationRequest creates a new ModerationRequest
func NewModerationRequest(text string) *ModerationRequest {
	return &ModerationRequest{Text: text}
}

// Length returns the text length in UTF-16 code units
func (r *ModerationRequest) Length() int {
	return TextLength(r.Text)
}

// TextLength counts UTF-16 code units, which is how the public API reports lengths.
func TextLength(s string) int {
	n := 0
	// ranging over a string yields U+FFFD for invalid bytes, so RuneLen is never negative here
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// ProviderResult is the normalized outcome of one provider
type ProviderResult struct {
	ProviderID string         `json:"provider_id"`
	Flagged    *bool          `json:"flagged,omitempty"`
	Categories CategoryFlags  `json:"categories,omitempty"`
	Scores     CategoryScore  `json:"scores,omitempty"`
	Status     ProviderStatus `json:"status"`
	Model      string         `json:"model,omitempty"`
	LatencyMs  int64          `json:"latency_ms"`
	Error      *ErrorInfo     `json:"error,omitempty"`
}

// NewProviderResult creates a successful ProviderResult. Flagged is derived from the categories.
func NewProviderResult(providerID string, categories CategoryFlags, scores CategoryScore, status ProviderStatus) *ProviderResult {
	flagged := categories.AnyFlagged()
	return &ProviderResult{
		ProviderID: providerID,
		Flagged:    &flagged,
		Categories: categories,
		Scores:     scores,
		Status:     status,
	}
}

// NewFailedResult creates a ProviderResult for a provider that could not be consulted
func NewFailedResult(providerID string, info *ErrorInfo) *ProviderResult {
	return &ProviderResult{
		ProviderID: providerID,
		Status:     ProviderStatusFailed,
		Error:      info,
	}
}

// Succeeded returns true if the result can be used as evidence
func (r *ProviderResult) Succeeded() bool {
	return r.Status != ProviderStatusFailed && r.Flagged != nil
}

// IsFlagged returns the flagged bit, false for failed results
func (r *ProviderResult) IsFlagged() bool {
	return r.Succeeded() && *r.Flagged
}

// VerdictMetadata describes a single pipeline run
type VerdictMetadata struct {
	Timestamp          time.Time `json:"timestamp"`
	TextLength         int       `json:"text_length"`
	ProvidersConsulted []string  `json:"providers_consulted"`
}

// AggregateVerdict is the combined decision over all consulted providers
type AggregateVerdict struct {
	Flagged     bool                       `json:"flagged"`
	PerProvider map[string]*ProviderResult `json:"per_provider"`
	Metadata    VerdictMetadata            `json:"metadata"`
}

// SucceededCount returns the number of providers that produced evidence
func (v *AggregateVerdict) SucceededCount() int {
	n := 0
	for _, r := range v.PerProvider {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// ProviderInfo describes a provider for capability discovery
type ProviderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
