package config

// GlobalConfig aggregates every per-concern configuration section.
type GlobalConfig struct {
	FetcherConfig   FetcherConfig   `json:"fetcher_config,omitempty" yaml:"fetcher_config,omitempty"`
	RateLimitConfig RateLimitConfig `json:"rate_limit_config,omitempty" yaml:"rate_limit_config,omitempty"`
	BrowserConfig   BrowserConfig   `json:"browser_config,omitempty" yaml:"browser_config,omitempty"`
	ProvidersConfig ProvidersConfig `json:"providers_config,omitempty" yaml:"providers_config,omitempty"`
	CacheConfig     CacheConfig     `json:"cache_config,omitempty" yaml:"cache_config,omitempty"`
	ResourceConfig  ResourceConfig  `json:"resource_config,omitempty" yaml:"resource_config,omitempty"`
	LogConfig       LogConfig       `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

// NewDefaultGlobalConfig creates a GlobalConfig populated with defaults
// for every section.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		FetcherConfig:   NewDefaultFetcherConfig(),
		RateLimitConfig: NewDefaultRateLimitConfig(),
		BrowserConfig:   NewDefaultBrowserConfig(),
		ProvidersConfig: NewDefaultProvidersConfig(),
		CacheConfig:     NewDefaultCacheConfig(),
		ResourceConfig:  NewDefaultResourceConfig(),
		LogConfig:       NewDefaultLogConfig(),
	}
}
