package usecase

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawInput(t *testing.T, body string) ModerateInput {
	t.Helper()
	var input ModerateInput
	require.NoError(t, json.Unmarshal([]byte(body), &input))
	return input
}

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator(0)

	tests := []struct {
		name     string
		body     string
		kind     ValidationKind
		expected string
	}{
		{"missing text field", `{}`, ValidationMissingField, "Text content is required for moderation."},
		{"null text", `{"text": null}`, ValidationMissingField, "Text content is required for moderation."},
		{"number text", `{"text": 123}`, ValidationWrongType, "Text must be a string."},
		{"array text", `{"text": ["hello"]}`, ValidationWrongType, "Text must be a string."},
		{"object text", `{"text": {"a": 1}}`, ValidationWrongType, "Text must be a string."},
		{"boolean text", `{"text": false}`, ValidationWrongType, "Text must be a string."},
		{"empty string", `{"text": ""}`, ValidationEmptyAfterTrim, "Text content cannot be empty."},
		{"only whitespace", `{"text": "   \n\t "}`, ValidationEmptyAfterTrim, "Text content cannot be empty."},
		{"byte order mark", `{"text": "\ufeff"}`, ValidationEmptyAfterTrim, "Text content cannot be empty."},
		{"unicode spaces", `{"text": "\u00a0\u3000\u2028"}`, ValidationEmptyAfterTrim, "Text content cannot be empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := validator.Validate(rawInput(t, tt.body))

			assert.Nil(t, req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.expected, verr.Message)
			assert.Equal(t, "text", verr.Field)
			assert.Zero(t, verr.MaxLength)
		})
	}

	t.Run("nil input", func(t *testing.T) {
		_, err := validator.Validate(nil)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, ValidationMissingField, verr.Kind)
	})

	t.Run("valid text keeps surrounding whitespace", func(t *testing.T) {
		req, err := validator.Validate(rawInput(t, `{"text": "  hello world  "}`))

		require.NoError(t, err)
		assert.Equal(t, "  hello world  ", req.Text)
	})

	t.Run("next line character is text", func(t *testing.T) {
		req, err := validator.Validate(rawInput(t, `{"text": "\u0085"}`))

		require.NoError(t, err)
		assert.Equal(t, "\u0085", req.Text)
	})

	t.Run("extra fields are ignored", func(t *testing.T) {
		req, err := validator.Validate(rawInput(t, `{"text": "hello", "model": "x"}`))

		require.NoError(t, err)
		assert.Equal(t, "hello", req.Text)
	})
}

func TestValidator_Length(t *testing.T) {
	validator := NewValidator(DefaultMaxTextLength)

	t.Run("exactly max length passes", func(t *testing.T) {
		req, err := validator.Validate(NewModerateInput(strings.Repeat("a", 32768)))

		require.NoError(t, err)
		assert.Equal(t, 32768, req.Length())
	})

	t.Run("one over max length fails", func(t *testing.T) {
		_, err := validator.Validate(NewModerateInput(strings.Repeat("a", 32769)))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, ValidationTooLong, verr.Kind)
		assert.Equal(t, "Text content exceeds maximum length of 32,768 characters.", verr.Message)
		assert.Equal(t, 32768, verr.MaxLength)
		assert.Equal(t, 32769, verr.CurrentLength)
	})

	t.Run("astral characters count twice", func(t *testing.T) {
		// 16384 emoji are 32768 UTF-16 code units
		_, err := validator.Validate(NewModerateInput(strings.Repeat("😀", 16384)))
		require.NoError(t, err)

		_, err = validator.Validate(NewModerateInput(strings.Repeat("😀", 16384) + "a"))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, 32769, verr.CurrentLength)
	})

	t.Run("configured limit", func(t *testing.T) {
		small := NewValidator(1000)

		_, err := small.Validate(NewModerateInput(strings.Repeat("b", 1001)))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Text content exceeds maximum length of 1,000 characters.", verr.Message)
		assert.Equal(t, 1000, small.MaxLength())
	})
}

func TestGroupThousands(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		32768:   "32,768",
		1234567: "1,234,567",
		-4500:   "-4,500",
	}
	for n, expected := range tests {
		assert.Equal(t, expected, groupThousands(n))
	}
}
