package config

// RateLimitConfig defines configuration for per-domain request pacing.
type RateLimitConfig struct {
	// WindowSecs is the length of the request-counting window.
	WindowSecs int `json:"window_secs,omitempty" yaml:"window_secs,omitempty" validate:"omitempty,min=1,max=3600"`
	// BaseBackoffSecs seeds the exponential backoff applied when a domain
	// signals rate limiting without a Retry-After value.
	BaseBackoffSecs int `json:"base_backoff_secs,omitempty" yaml:"base_backoff_secs,omitempty" validate:"omitempty,min=1,max=600"`
	// MaxBackoffSecs caps the computed backoff window.
	MaxBackoffSecs int `json:"max_backoff_secs,omitempty" yaml:"max_backoff_secs,omitempty" validate:"omitempty,min=1,max=3600"`
}

// NewDefaultRateLimitConfig creates default rate limit configuration.
func NewDefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		WindowSecs:      DefaultRateLimitWindowSecs,
		BaseBackoffSecs: DefaultRateLimitBaseBackoffSec,
		MaxBackoffSecs:  DefaultRateLimitMaxBackoffSec,
	}
}
