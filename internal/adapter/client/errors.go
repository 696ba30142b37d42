package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

const maxErrorBodyLength = 512

// providerMessage returns the caller-facing message for a failure kind
func providerMessage(kind entity.ErrorKind, displayName string) string {
	switch kind {
	case entity.ErrorKindUnauthorized:
		return fmt.Sprintf("Invalid API key. Please check your %s API key configuration.", displayName)
	case entity.ErrorKindRateLimited:
		return fmt.Sprintf("Rate limit exceeded for %s API. Please try again later.", displayName)
	case entity.ErrorKindServiceUnavailable:
		return fmt.Sprintf("%s service is temporarily unavailable. Please try again later.", displayName)
	case entity.ErrorKindBadRequest:
		return fmt.Sprintf("Invalid request format for %s API", displayName)
	default:
		return "Failed to process moderation request"
	}
}

// newStatusError translates a non-200 upstream response
func newStatusError(providerID, displayName string, statusCode int, body []byte) *entity.ProviderError {
	kind := entity.ErrorKindFromStatus(statusCode)
	return &entity.ProviderError{
		Provider:   providerID,
		Kind:       kind,
		StatusCode: statusCode,
		Message:    providerMessage(kind, displayName),
		Err:        errors.Errorf("%s API returned status %d: %s", displayName, statusCode, upstreamMessage(body)),
	}
}

// newTransportError translates a failure that produced no HTTP response
func newTransportError(providerID, displayName string, err error) *entity.ProviderError {
	kind := entity.ErrorKindServiceUnavailable
	if errors.Is(err, context.Canceled) {
		kind = entity.ErrorKindUnknown
	}
	return &entity.ProviderError{
		Provider: providerID,
		Kind:     kind,
		Message:  providerMessage(kind, displayName),
		Err:      errors.Wrapf(err, "error calling %s API", displayName),
	}
}

// newDecodeError reports a response that could not be understood
func newDecodeError(providerID, displayName string, err error) *entity.ProviderError {
	return &entity.ProviderError{
		Provider:   providerID,
		Kind:       entity.ErrorKindUnknown,
		StatusCode: http.StatusOK,
		Message:    providerMessage(entity.ErrorKindUnknown, displayName),
		Err:        errors.Wrapf(err, "error decoding %s API response", displayName),
	}
}

// upstreamMessage extracts {"error":{"message":...}} when present, else a trimmed body
func upstreamMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "Unknown error"
	}
	if len(msg) > maxErrorBodyLength {
		msg = msg[:maxErrorBodyLength]
	}
	return msg
}
