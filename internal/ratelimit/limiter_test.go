package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/internal/config"
)

func newTestLimiter(t *testing.T) (*Limiter, *MemoryStore, *time.Time) {
	t.Helper()
	store := NewMemoryStore()
	limiter := NewLimiter(config.NewDefaultRateLimitConfig(), store, zerolog.Nop())

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }
	return limiter, store, &current
}

func TestRecordRateLimitedBackoffMonotonicity(t *testing.T) {
	limiter, store, _ := newTestLimiter(t)
	url := "https://example.com/page"

	var previous time.Time
	for i := 0; i < 8; i++ {
		limiter.RecordRateLimited(url, 0)
		state, ok := store.Get("example.com")
		require.True(t, ok)
		assert.False(t, state.BackoffUntil.Before(previous), "backoff window shrank on call %d", i+1)
		previous = state.BackoffUntil
	}

	// Capped at the configured maximum.
	state, _ := store.Get("example.com")
	maxBackoff := time.Duration(config.DefaultRateLimitMaxBackoffSec) * time.Second
	assert.LessOrEqual(t, state.BackoffUntil.Sub(limiter.now()), maxBackoff)
}

func TestRecordRateLimitedHonorsRetryAfter(t *testing.T) {
	limiter, store, _ := newTestLimiter(t)

	limiter.RecordRateLimited("https://example.com", 42*time.Second)

	state, ok := store.Get("example.com")
	require.True(t, ok)
	assert.True(t, state.IsRateLimited)
	assert.Equal(t, limiter.now().Add(42*time.Second), state.BackoffUntil)
}

func TestIsRateLimitedClearsExpiredWindow(t *testing.T) {
	limiter, _, current := newTestLimiter(t)
	url := "https://example.com"

	limiter.RecordRateLimited(url, 30*time.Second)
	assert.True(t, limiter.IsRateLimited(url))

	*current = current.Add(31 * time.Second)
	assert.False(t, limiter.IsRateLimited(url))

	// State stays cleared on subsequent checks.
	assert.False(t, limiter.IsRateLimited(url))
}

func TestRecordSuccessResetsCountingWindow(t *testing.T) {
	limiter, store, current := newTestLimiter(t)
	url := "https://example.com"

	limiter.RecordSuccess(url)
	limiter.RecordSuccess(url)
	state, _ := store.Get("example.com")
	assert.Equal(t, 2, state.RequestCount)

	*current = current.Add(time.Duration(config.DefaultRateLimitWindowSecs+1) * time.Second)
	limiter.RecordSuccess(url)
	state, _ = store.Get("example.com")
	assert.Equal(t, 1, state.RequestCount)
}

func TestGetDelayDuringBackoffReturnsRemaining(t *testing.T) {
	limiter, _, current := newTestLimiter(t)
	url := "https://example.com"

	limiter.RecordRateLimited(url, 60*time.Second)
	*current = current.Add(20 * time.Second)

	assert.Equal(t, 40*time.Second, limiter.GetDelay(url))
}

func TestGetDelayAdaptsToRequestRate(t *testing.T) {
	tests := []struct {
		name     string
		requests int
		elapsed  time.Duration
		minDelay time.Duration
		maxDelay time.Duration
	}{
		{
			name:     "low rate",
			requests: 2,
			elapsed:  time.Minute,
			minDelay: 500 * time.Millisecond,
			maxDelay: 1500 * time.Millisecond,
		},
		{
			name:     "medium rate",
			requests: 8,
			elapsed:  time.Minute,
			minDelay: 1000 * time.Millisecond,
			maxDelay: 2000 * time.Millisecond,
		},
		{
			name:     "high rate",
			requests: 20,
			elapsed:  time.Minute,
			minDelay: 2000 * time.Millisecond,
			maxDelay: 3000 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, store, current := newTestLimiter(t)
			store.Set("example.com", DomainState{
				WindowStart:  *current,
				RequestCount: tt.requests,
			})
			*current = current.Add(tt.elapsed)

			delay := limiter.GetDelay("https://example.com")
			assert.GreaterOrEqual(t, delay, tt.minDelay)
			assert.LessOrEqual(t, delay, tt.maxDelay)
		})
	}
}

func TestIsRateLimitResponse(t *testing.T) {
	tests := []struct {
		name     string
		resp     *http.Response
		expected bool
	}{
		{
			name:     "nil response",
			resp:     nil,
			expected: false,
		},
		{
			name:     "429 status",
			resp:     &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{}},
			expected: true,
		},
		{
			name:     "503 status",
			resp:     &http.Response{StatusCode: http.StatusServiceUnavailable, Header: http.Header{}},
			expected: true,
		},
		{
			name:     "retry-after header on 200",
			resp:     &http.Response{StatusCode: http.StatusOK, Header: http.Header{"Retry-After": []string{"10"}}},
			expected: true,
		},
		{
			name:     "exhausted quota header",
			resp:     &http.Response{StatusCode: http.StatusOK, Header: http.Header{"X-Ratelimit-Remaining": []string{"0"}}},
			expected: true,
		},
		{
			name:     "plain 200",
			resp:     &http.Response{StatusCode: http.StatusOK, Header: http.Header{}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRateLimitResponse(tt.resp))
		})
	}
}

func TestRetryAfterHint(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "delta seconds", value: "30", expected: 30 * time.Second},
		{name: "http date ignored", value: "Wed, 21 Oct 2025 07:28:00 GMT", expected: 0},
		{name: "empty", value: "", expected: 0},
		{name: "negative", value: "-5", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.value != "" {
				resp.Header.Set("Retry-After", tt.value)
			}
			assert.Equal(t, tt.expected, RetryAfterHint(resp))
		})
	}
}
