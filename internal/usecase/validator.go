package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/karlgroves/openai-content-moderator/internal/domain/entity"
)

// DefaultMaxTextLength is the default input limit in UTF-16 code units
const DefaultMaxTextLength = 32768

// ValidationKind identifies which acceptance rule rejected the input
type ValidationKind string

const (
	ValidationMissingField   ValidationKind = "missing_field"
	ValidationWrongType      ValidationKind = "wrong_type"
	ValidationEmptyAfterTrim ValidationKind = "empty_after_trim"
	ValidationTooLong        ValidationKind = "too_long"
)

// ValidationError reports malformed client input. MaxLength and CurrentLength
// are only set for ValidationTooLong.
type ValidationError struct {
	Kind          ValidationKind
	Field         string
	Message       string
	MaxLength     int
	CurrentLength int
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ModerateInput is the decoded request body. Fields stay raw so that the
// type of "text" can be checked.
type ModerateInput map[string]json.RawMessage

// NewModerateInput builds an input holding a single string text field
func NewModerateInput(text string) ModerateInput {
	raw, _ := json.Marshal(text)
	return ModerateInput{"text": raw}
}

// Validator checks raw input before any provider is invoked
type Validator struct {
	maxLength int
}

// NewValidator creates a Validator. A non-positive maxLength selects the default.
func NewValidator(maxLength int) *Validator {
	if maxLength <= 0 {
		maxLength = DefaultMaxTextLength
	}
	return &Validator{maxLength: maxLength}
}

// MaxLength returns the configured limit
func (v *Validator) MaxLength() int {
	return v.maxLength
}

// Validate applies the acceptance rules in order; the first failure wins.
func (v *Validator) Validate(input ModerateInput) (*entity.ModerationRequest, error) {
	raw, ok := input["text"]
	raw = bytes.TrimSpace(raw)
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, newValidationError(ValidationMissingField, "Text content is required for moderation.")
	}

	if raw[0] != '"' {
		return nil, newValidationError(ValidationWrongType, "Text must be a string.")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, newValidationError(ValidationWrongType, "Text must be a string.")
	}

	if strings.TrimFunc(text, isTrimSpace) == "" {
		return nil, newValidationError(ValidationEmptyAfterTrim, "Text content cannot be empty.")
	}

	if length := entity.TextLength(text); length > v.maxLength {
		verr := newValidationError(ValidationTooLong,
			fmt.Sprintf("Text content exceeds maximum length of %s characters.", groupThousands(v.maxLength)))
		verr.MaxLength = v.maxLength
		verr.CurrentLength = length
		return nil, verr
	}

	return entity.NewModerationRequest(text), nil
}

// isTrimSpace matches the whitespace and line terminators that browsers and
// Node strip from strings. U+FEFF counts, U+0085 does not.
func isTrimSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func newValidationError(kind ValidationKind, message string) *ValidationError {
	return &ValidationError{
		Kind:    kind,
		Field:   "text",
		Message: message,
	}
}

// groupThousands formats 32768 as "32,768"
func groupThousands(n int) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
