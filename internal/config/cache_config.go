package config

// CacheConfig defines configuration for the generation result cache.
type CacheConfig struct {
	TTLSecs    int `json:"ttl_secs,omitempty" yaml:"ttl_secs,omitempty" validate:"omitempty,min=1,max=3600"`
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty" validate:"omitempty,min=1,max=10000"`
	// TextPrefixLen is how many leading characters of the page text take
	// part in the cache fingerprint.
	TextPrefixLen int `json:"text_prefix_len,omitempty" yaml:"text_prefix_len,omitempty" validate:"omitempty,min=50,max=5000"`
}

// NewDefaultCacheConfig creates default cache configuration.
func NewDefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTLSecs:       DefaultCacheTTLSecs,
		MaxEntries:    DefaultCacheMaxEntries,
		TextPrefixLen: DefaultCacheTextPrefixLen,
	}
}
