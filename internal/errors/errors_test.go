package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		code     string
		category Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeCorpusNotFound, CategoryIO},
		{ErrCodeNetworkTimeout, CategoryNetwork},
		{ErrCodeQueryEmpty, CategoryValidation},
		{ErrCodeStoreUnavailable, CategoryDependency},
		{ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestError_FormatIncludesCode(t *testing.T) {
	err := New(ErrCodeCorpusNotFound, "corpus file not found: /tmp/missing.jsonl", nil)
	assert.Equal(t, "[ERR_201_CORPUS_NOT_FOUND] corpus file not found: /tmp/missing.jsonl", err.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeNetworkUnavailable, cause)

	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeQueryEmpty, "query_original is required", nil)
	b := New(ErrCodeQueryEmpty, "different message", nil)

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, New(ErrCodeInvalidLanguage, "bad language", nil))
}

func TestCategoryHelpers(t *testing.T) {
	validation := New(ErrCodeQueryEmpty, "empty", nil)
	dependency := New(ErrCodeDenseUnavailable, "dense pipeline never built", nil)

	assert.True(t, IsValidation(validation))
	assert.False(t, IsDependency(validation))
	assert.True(t, IsDependency(dependency))

	// Helpers work through wrapping.
	wrapped := fmt.Errorf("search: %w", validation)
	assert.True(t, IsValidation(wrapped))
	assert.Equal(t, ErrCodeQueryEmpty, GetCode(wrapped))
}

func TestCategoryHelpers_ForeignError(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsValidation(err))
	assert.False(t, IsRetryable(err))
	assert.Empty(t, GetCode(err))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCodeCorpusParse, "invalid JSON", nil).
		WithDetail("line", "42").
		WithDetail("path", "corpus.jsonl")

	assert.Equal(t, "42", err.Details["line"])
	assert.Equal(t, "corpus.jsonl", err.Details["path"])
}
