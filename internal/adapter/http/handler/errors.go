package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Body       ErrorBody
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	var verr *usecase.ValidationError
	var perr *entity.ProviderError

	switch {
	case errors.As(err, &verr):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Body: ErrorBody{
				Error:         verr.Message,
				Field:         verr.Field,
				MaxLength:     verr.MaxLength,
				CurrentLength: verr.CurrentLength,
			},
		}
	case errors.As(err, &perr):
		return mapProviderError(perr)
	case errors.Is(err, usecase.ErrAllProvidersFailed):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       ErrorBody{Error: "All moderation providers failed"},
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       ErrorBody{Error: "Internal server error"},
		}
	}
}

func mapProviderError(perr *entity.ProviderError) ErrorResponse {
	switch perr.Kind {
	case entity.ErrorKindUnauthorized:
		return ErrorResponse{StatusCode: http.StatusUnauthorized, Body: ErrorBody{Error: perr.Message}}
	case entity.ErrorKindRateLimited:
		return ErrorResponse{StatusCode: http.StatusTooManyRequests, Body: ErrorBody{Error: perr.Message}}
	case entity.ErrorKindServiceUnavailable:
		return ErrorResponse{StatusCode: http.StatusServiceUnavailable, Body: ErrorBody{Error: perr.Message}}
	case entity.ErrorKindBadRequest:
		return ErrorResponse{StatusCode: http.StatusBadRequest, Body: ErrorBody{Error: perr.Message}}
	default:
		message := "An unexpected error occurred"
		if perr.Err != nil {
			message = perr.Err.Error()
		}
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Body: ErrorBody{
				Error:   "Failed to process moderation request",
				Message: message,
			},
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// withStack attaches the error's stack trace and must only be set in development.
func HandleUsecaseError(c *gin.Context, err error, withStack bool) {
	errResp := MapUsecaseError(err)
	if errResp.StatusCode >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	if withStack {
		errResp.Body.Stack = errorStack(err)
	}
	respondError(c, errResp.StatusCode, errResp.Body)
}

// HandleInvalidRequest handles a request body that could not be read
func HandleInvalidRequest(c *gin.Context, status int, message string) {
	respondError(c, status, ErrorBody{Error: message})
}

// errorStack renders the innermost pkg/errors stack when there is one
func errorStack(err error) string {
	var perr *entity.ProviderError
	if errors.As(err, &perr) && perr.Err != nil {
		return fmt.Sprintf("%+v", perr.Err)
	}
	return fmt.Sprintf("%+v", err)
}
