// Package validation holds the prompt constraints shared by the generation
// gateway and the builder controller. Both sides must apply identical
// thresholds so a prompt accepted client-side is never rejected server-side
// for a different reason.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MinPromptLength is the minimum trimmed prompt length in characters.
	MinPromptLength = 10
	// MaxPromptLength is the maximum prompt length in characters.
	MaxPromptLength = 2000
	// MinPromptWords is the minimum number of whitespace-separated tokens.
	MinPromptWords = 3
)

var (
	ErrPromptTooShort    = fmt.Errorf("prompt must be at least %d characters", MinPromptLength)
	ErrPromptTooLong     = fmt.Errorf("prompt must be %d characters or less", MaxPromptLength)
	ErrPromptTooFewWords = fmt.Errorf("prompt must contain at least %d words", MinPromptWords)
)

// IsPromptError reports whether err is one of the prompt constraint errors.
func IsPromptError(err error) bool {
	return errors.Is(err, ErrPromptTooShort) ||
		errors.Is(err, ErrPromptTooLong) ||
		errors.Is(err, ErrPromptTooFewWords)
}

// ValidatePrompt checks the free-text prompt against the shared constraints
// and returns the trimmed prompt on success. No normalization is applied
// beyond trimming.
func ValidatePrompt(prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) < MinPromptLength {
		return "", ErrPromptTooShort
	}
	if len(prompt) > MaxPromptLength {
		return "", ErrPromptTooLong
	}
	if len(strings.Fields(trimmed)) < MinPromptWords {
		return "", ErrPromptTooFewWords
	}
	return trimmed, nil
}
