package validation_test

import (
	"strings"
	"testing"

	"promptsite/internal/validation"

	"github.com/stretchr/testify/assert"
)

func TestValidatePrompt_TooShort(t *testing.T) {
	// Trimmed length below 10 characters must be rejected.
	_, err := validation.ValidatePrompt("shop")
	assert.ErrorIs(t, err, validation.ErrPromptTooShort)

	// Whitespace padding does not count towards the minimum.
	_, err = validation.ValidatePrompt("   tiny    ")
	assert.ErrorIs(t, err, validation.ErrPromptTooShort)
}

func TestValidatePrompt_TooLong(t *testing.T) {
	long := strings.Repeat("a ", 1001) // 2002 characters
	_, err := validation.ValidatePrompt(long)
	assert.ErrorIs(t, err, validation.ErrPromptTooLong)
}

func TestValidatePrompt_TooFewWords(t *testing.T) {
	_, err := validation.ValidatePrompt("skateboarding")
	assert.ErrorIs(t, err, validation.ErrPromptTooFewWords)

	_, err = validation.ValidatePrompt("vintage skateboards")
	assert.ErrorIs(t, err, validation.ErrPromptTooFewWords)
}

func TestValidatePrompt_Valid(t *testing.T) {
	trimmed, err := validation.ValidatePrompt("  A luxury watch store with 4 premium timepieces  ")
	assert.NoError(t, err)
	assert.Equal(t, "A luxury watch store with 4 premium timepieces", trimmed)
}

func TestValidatePrompt_Boundaries(t *testing.T) {
	// Exactly 10 trimmed characters and 3 words passes.
	trimmed, err := validation.ValidatePrompt("sell my ts")
	assert.NoError(t, err)
	assert.Equal(t, "sell my ts", trimmed)

	// Exactly 2000 characters passes.
	exact := "a store of " + strings.Repeat("x", 2000-len("a store of "))
	assert.Len(t, exact, 2000)
	_, err = validation.ValidatePrompt(exact)
	assert.NoError(t, err)
}

func TestIsPromptError(t *testing.T) {
	_, err := validation.ValidatePrompt("no")
	assert.True(t, validation.IsPromptError(err))
	assert.False(t, validation.IsPromptError(assert.AnError))
}
