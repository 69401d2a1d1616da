package relay

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxPromptSize is 16KB. Problem statements are longer than chat input.
const DefaultMaxPromptSize = 16 * 1024

var (
	ErrPromptTooLarge = errors.New("prompt exceeds maximum allowed size")
	ErrInvalidUTF8    = errors.New("prompt contains invalid UTF-8 sequences")
)

// SanitizePrompt enforces the size limit, validates UTF-8
// and strips control characters other than newline, tab and carriage return.
// A limit <= 0 selects DefaultMaxPromptSize.
func SanitizePrompt(prompt string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxPromptSize
	}
	if len(prompt) > limit {
		// Rejected rather than truncated so the oracle never sees half a problem.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrPromptTooLarge, len(prompt), limit)
	}

	if !utf8.ValidString(prompt) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(prompt, isUnsafeControl) < 0 {
		return prompt, nil
	}

	var b strings.Builder
	b.Grow(len(prompt))
	for _, r := range prompt {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
