package fetcher

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{
			name:     "context deadline",
			err:      errors.New("context deadline exceeded"),
			expected: KindTimeout,
		},
		{
			name:     "client timeout",
			err:      errors.New("Client.Timeout exceeded while awaiting headers"),
			expected: KindTimeout,
		},
		{
			name:     "http 404",
			err:      errorwrapper.NewHTTPErrorWithURL(404, "Not Found", "https://example.com/x"),
			expected: KindNotFound,
		},
		{
			name:     "http 403",
			err:      errorwrapper.NewHTTPErrorWithURL(403, "Forbidden", "https://example.com/x"),
			expected: KindForbidden,
		},
		{
			name:     "bot challenge",
			err:      errors.New("page stuck behind bot challenge"),
			expected: KindForbidden,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			expected: KindUnavailable,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: KindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetchErr := ClassifyError("https://example.com/x", tt.err)
			assert.Equal(t, tt.expected, fetchErr.Kind)
			assert.Equal(t, "https://example.com/x", fetchErr.URL)
			assert.NotEmpty(t, fetchErr.Message, "every kind carries an actionable message")
		})
	}
}

func TestIsFetchError(t *testing.T) {
	inner := ClassifyError("https://example.com", errors.New("404"))
	wrapped := fmt.Errorf("outer context: %w", inner)

	extracted, ok := IsFetchError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, extracted.Kind)

	_, ok = IsFetchError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying transport failure")
	fetchErr := ClassifyError("https://example.com", cause)

	assert.ErrorIs(t, fetchErr, cause)
}
