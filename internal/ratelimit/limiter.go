package ratelimit

import (
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/common/urlhandler"
	"github.com/schemaforge/schemaforge/internal/config"
)

// Limiter paces requests per domain. All methods are best-effort and
// never panic: malformed URLs degrade to "not rate limited" and the
// default delay.
type Limiter struct {
	cfg    config.RateLimitConfig
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewLimiter creates a limiter backed by the given store.
func NewLimiter(cfg config.RateLimitConfig, store Store, logger zerolog.Logger) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Limiter{
		cfg:    cfg,
		store:  store,
		logger: logger.With().Str("component", "RateLimiter").Logger(),
		now:    time.Now,
	}
}

// IsRateLimited reports whether the URL's domain is inside a backoff
// window. Checking after the window has passed clears the expired state.
func (l *Limiter) IsRateLimited(rawURL string) bool {
	domain := urlhandler.ExtractDomain(rawURL)
	if domain == "" {
		return false
	}

	state, ok := l.store.Get(domain)
	if !ok || !state.IsRateLimited {
		return false
	}

	if l.now().Before(state.BackoffUntil) {
		return true
	}

	state.IsRateLimited = false
	state.BackoffUntil = time.Time{}
	l.store.Set(domain, state)
	return false
}

// RecordSuccess updates pacing bookkeeping after a successful request.
// The counting window resets every WindowSecs seconds.
func (l *Limiter) RecordSuccess(rawURL string) {
	domain := urlhandler.ExtractDomain(rawURL)
	if domain == "" {
		return
	}

	now := l.now()
	window := time.Duration(l.cfg.WindowSecs) * time.Second

	state, ok := l.store.Get(domain)
	if !ok || now.Sub(state.WindowStart) >= window {
		state.WindowStart = now
		state.RequestCount = 0
	}

	state.LastRequestTime = now
	state.RequestCount++
	l.store.Set(domain, state)
}

// RecordRateLimited marks the domain as rate limited. When the origin
// supplied a Retry-After hint it is honored; otherwise the backoff grows
// exponentially with the domain's request count, capped at the configured
// maximum. Repeated calls without an intervening success therefore
// produce non-decreasing backoff windows.
func (l *Limiter) RecordRateLimited(rawURL string, retryAfter time.Duration) {
	domain := urlhandler.ExtractDomain(rawURL)
	if domain == "" {
		return
	}

	now := l.now()
	state, _ := l.store.Get(domain)
	state.LastRequestTime = now
	state.RequestCount++
	state.IsRateLimited = true

	var backoff time.Duration
	if retryAfter > 0 {
		backoff = retryAfter
	} else {
		base := float64(l.cfg.BaseBackoffSecs)
		secs := base * math.Pow(2, float64(state.RequestCount))
		if max := float64(l.cfg.MaxBackoffSecs); secs > max {
			secs = max
		}
		backoff = time.Duration(secs) * time.Second
	}

	until := now.Add(backoff)
	if until.After(state.BackoffUntil) {
		state.BackoffUntil = until
	}
	l.store.Set(domain, state)

	l.logger.Warn().
		Str("domain", domain).
		Dur("backoff", backoff).
		Int("request_count", state.RequestCount).
		Msg("Domain rate limited, backing off")
}

// GetDelay returns how long the caller should wait before the next
// request to this URL's domain: the full remaining backoff when rate
// limited, otherwise an adaptive jittered pause sized by the recent
// request rate.
func (l *Limiter) GetDelay(rawURL string) time.Duration {
	domain := urlhandler.ExtractDomain(rawURL)
	if domain == "" {
		return jitterBetween(500, 1500)
	}

	state, ok := l.store.Get(domain)
	if !ok {
		return jitterBetween(500, 1500)
	}

	now := l.now()
	if state.IsRateLimited && now.Before(state.BackoffUntil) {
		return state.BackoffUntil.Sub(now)
	}

	rate := l.requestsPerMinute(state, now)
	switch {
	case rate > 10:
		return jitterBetween(2000, 3000)
	case rate > 5:
		return jitterBetween(1000, 2000)
	default:
		return jitterBetween(500, 1500)
	}
}

// requestsPerMinute projects the current window's count onto a
// one-minute rate.
func (l *Limiter) requestsPerMinute(state DomainState, now time.Time) float64 {
	elapsed := now.Sub(state.WindowStart)
	if elapsed <= 0 {
		return float64(state.RequestCount)
	}
	window := time.Duration(l.cfg.WindowSecs) * time.Second
	if elapsed > window {
		return 0
	}
	return float64(state.RequestCount) / elapsed.Minutes()
}

func jitterBetween(minMs, maxMs int) time.Duration {
	return time.Duration(minMs+rand.Intn(maxMs-minMs+1)) * time.Millisecond
}

// IsRateLimitResponse reports whether an HTTP response signals rate
// limiting: a 429/503 status, a Retry-After header, or an exhausted
// remaining-quota header.
func IsRateLimitResponse(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return true
	}
	if resp.Header.Get("Retry-After") != "" {
		return true
	}
	for _, header := range []string{"X-RateLimit-Remaining", "X-Rate-Limit-Remaining", "RateLimit-Remaining"} {
		if value := strings.TrimSpace(resp.Header.Get(header)); value == "0" {
			return true
		}
	}
	return false
}

// RetryAfterHint extracts the Retry-After duration from a response, or 0
// when absent or unparseable. Only the delta-seconds form is honored.
func RetryAfterHint(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	value := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
