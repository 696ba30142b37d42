package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

func providerError(kind entity.ErrorKind, message string) error {
	return &entity.ProviderError{
		Provider: "openai",
		Kind:     kind,
		Message:  message,
		Err:      pkgerrors.New("upstream said no"),
	}
}

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedBody       ErrorBody
	}{
		{
			name:               "missing text",
			err:                &usecase.ValidationError{Kind: usecase.ValidationMissingField, Field: "text", Message: "Text content is required for moderation."},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       ErrorBody{Error: "Text content is required for moderation.", Field: "text"},
		},
		{
			name: "text too long",
			err: &usecase.ValidationError{
				Kind:          usecase.ValidationTooLong,
				Field:         "text",
				Message:       "Text content exceeds maximum length of 32,768 characters.",
				MaxLength:     32768,
				CurrentLength: 40000,
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody: ErrorBody{
				Error:         "Text content exceeds maximum length of 32,768 characters.",
				Field:         "text",
				MaxLength:     32768,
				CurrentLength: 40000,
			},
		},
		{
			name:               "unauthorized provider",
			err:                providerError(entity.ErrorKindUnauthorized, "Invalid API key. Please check your OpenAI API key configuration."),
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       ErrorBody{Error: "Invalid API key. Please check your OpenAI API key configuration."},
		},
		{
			name:               "rate limited provider",
			err:                providerError(entity.ErrorKindRateLimited, "Rate limit exceeded for OpenAI API. Please try again later."),
			expectedStatusCode: http.StatusTooManyRequests,
			expectedBody:       ErrorBody{Error: "Rate limit exceeded for OpenAI API. Please try again later."},
		},
		{
			name:               "unavailable provider",
			err:                providerError(entity.ErrorKindServiceUnavailable, "OpenAI service is temporarily unavailable. Please try again later."),
			expectedStatusCode: http.StatusServiceUnavailable,
			expectedBody:       ErrorBody{Error: "OpenAI service is temporarily unavailable. Please try again later."},
		},
		{
			name:               "bad request to provider",
			err:                providerError(entity.ErrorKindBadRequest, "Invalid request format for OpenAI API"),
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       ErrorBody{Error: "Invalid request format for OpenAI API"},
		},
		{
			name:               "unknown provider failure",
			err:                providerError(entity.ErrorKindUnknown, "Failed to process moderation request"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody:       ErrorBody{Error: "Failed to process moderation request", Message: "upstream said no"},
		},
		{
			name:               "all providers failed",
			err:                usecase.ErrAllProvidersFailed,
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody:       ErrorBody{Error: "All moderation providers failed"},
		},
		{
			name:               "unknown error",
			err:                errors.New("some unknown error"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedBody:       ErrorBody{Error: "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapUsecaseError(tt.err)

			assert.Equal(t, tt.expectedStatusCode, result.StatusCode)
			assert.Equal(t, tt.expectedBody, result.Body)
		})
	}
}

func TestHandleUsecaseError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
	}{
		{
			name:               "validation error",
			err:                &usecase.ValidationError{Kind: usecase.ValidationWrongType, Field: "text", Message: "Text must be a string."},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "internal error",
			err:                errors.New("internal"),
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleUsecaseError(c, tt.err, false)

			assert.Equal(t, tt.expectedStatusCode, w.Code)
			assert.NotContains(t, w.Body.String(), "stack")
		})
	}

	t.Run("server errors are recorded on the context", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleUsecaseError(c, usecase.ErrAllProvidersFailed, false)

		assert.Len(t, c.Errors, 1)
	})

	t.Run("development mode attaches the stack", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleUsecaseError(c, providerError(entity.ErrorKindUnknown, "Failed to process moderation request"), true)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), `"stack":`)
		assert.Contains(t, w.Body.String(), "providerError")
	})
}

func TestHandleInvalidRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleInvalidRequest(c, http.StatusBadRequest, "Invalid JSON payload")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON payload"}`, w.Body.String())
}
