package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with IndexError
	ie := New(ErrCodeFileNotFound, "file not found: book.pdf", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, ie)
	assert.Equal(t, originalErr, errors.Unwrap(ie))
	assert.True(t, errors.Is(ie, originalErr))
}

func TestIndexError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "input missing",
			code:     ErrCodeInputMissing,
			message:  "no input file",
			expected: "[ERR_101_INPUT_MISSING] no input file",
		},
		{
			name:     "file error",
			code:     ErrCodeFileNotFound,
			message:  "book.pdf not found",
			expected: "[ERR_201_FILE_NOT_FOUND] book.pdf not found",
		},
		{
			name:     "network error",
			code:     ErrCodeWordsFetch,
			message:  "request failed",
			expected: "[ERR_301_WORDS_FETCH] request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestIndexError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeFileNotFound, "file A not found", nil)
	err2 := New(ErrCodeFileNotFound, "file B not found", nil)
	err3 := New(ErrCodeWriteFailed, "cannot write", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIndexError_Is_ThroughFmtWrap(t *testing.T) {
	// Given: an IndexError wrapped with fmt.Errorf
	inner := New(ErrCodeWordsFetch, "fetch failed", nil)
	wrapped := fmt.Errorf("load words: %w", inner)

	// Then: errors.Is and As still find it
	assert.True(t, errors.Is(wrapped, New(ErrCodeWordsFetch, "", nil)))
	ie, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeWordsFetch, ie.Code)
	assert.Equal(t, ErrCodeWordsFetch, GetCode(wrapped))
	assert.Equal(t, CategoryNetwork, GetCategory(wrapped))
}

func TestIndexError_WithDetailAndSuggestion(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found", nil).
		WithDetail("path", "/books/sec504.pdf").
		WithSuggestion("Check the --input path")

	assert.Equal(t, "/books/sec504.pdf", err.Details["path"])
	assert.Equal(t, "Check the --input path", err.Suggestion)
}

func TestIndexError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeInputMissing, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeFileNotFound, CategoryIO},
		{ErrCodeExtractFailed, CategoryIO},
		{ErrCodeWordsFetch, CategoryNetwork},
		{ErrCodeInvalidInput, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.wantCategory, categoryFromCode(tt.code))
		})
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestGetCode_StandardError(t *testing.T) {
	assert.Equal(t, "", GetCode(errors.New("plain")))
	assert.Equal(t, Category(""), GetCategory(errors.New("plain")))
}
