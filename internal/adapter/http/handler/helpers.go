package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

// MaxBodyBytes bounds a moderation request body. A maximum-length text of
// escaped astral characters stays well below it.
const MaxBodyBytes = 1 << 20

// Body decoding errors
var (
	ErrInvalidJSON     = errors.New("invalid JSON payload")
	ErrPayloadTooLarge = errors.New("request payload too large")
)

// DecodeModerateInput reads the request body. An empty body or a JSON value
// that is not an object yields an empty input, which the validator rejects
// as a missing field.
func DecodeModerateInput(c *gin.Context) (usecase.ModerateInput, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, ErrInvalidJSON
	}
	if len(body) > MaxBodyBytes {
		return nil, ErrPayloadTooLarge
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return usecase.ModerateInput{}, nil
	}
	if body[0] != '{' {
		if !json.Valid(body) {
			return nil, ErrInvalidJSON
		}
		return usecase.ModerateInput{}, nil
	}

	var input usecase.ModerateInput
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, ErrInvalidJSON
	}
	return input, nil
}

// HandleDecodeError responds to a body that could not be decoded
func HandleDecodeError(c *gin.Context, err error) {
	if errors.Is(err, ErrPayloadTooLarge) {
		HandleInvalidRequest(c, http.StatusRequestEntityTooLarge, "Request payload too large")
		return
	}
	HandleInvalidRequest(c, http.StatusBadRequest, "Invalid JSON payload")
}
