package entity

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a provider failure
type ErrorKind string

const (
	ErrorKindUnauthorized       ErrorKind = "unauthorized"
	ErrorKindRateLimited        ErrorKind = "rate_limited"
	ErrorKindServiceUnavailable ErrorKind = "service_unavailable"
	ErrorKindBadRequest         ErrorKind = "bad_request"
	ErrorKindUnknown            ErrorKind = "unknown"
)

// ErrorKindFromStatus maps an upstream HTTP status code to an ErrorKind
func ErrorKindFromStatus(statusCode int) ErrorKind {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorKindUnauthorized
	case http.StatusTooManyRequests:
		return ErrorKindRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrorKindServiceUnavailable
	case http.StatusBadRequest:
		return ErrorKindBadRequest
	default:
		return ErrorKindUnknown
	}
}

// ErrorInfo is the error attached to a failed ProviderResult
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ProviderError is returned by provider adapters when a call cannot produce scores
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	// Message is safe to show to API callers
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Info converts the error into the ErrorInfo recorded on a ProviderResult
func (e *ProviderError) Info() *ErrorInfo {
	return &ErrorInfo{
		Kind:    e.Kind,
		Message: e.Message,
	}
}

// IsTransient returns true for failures worth retrying
func (k ErrorKind) IsTransient() bool {
	return k == ErrorKindRateLimited || k == ErrorKindServiceUnavailable
}
