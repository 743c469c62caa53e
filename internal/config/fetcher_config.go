package config

// ProxyStrategyConfig describes one transport strategy of the fetch chain.
// Template is a prefix the target URL is appended to after escaping; an
// empty Template means a direct request to the target URL.
type ProxyStrategyConfig struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	Template  string `json:"template,omitempty" yaml:"template,omitempty"`
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	// EscapeTarget controls whether the target URL is query-escaped before
	// being appended to Template.
	EscapeTarget bool `json:"escape_target" yaml:"escape_target"`
}

// FetcherConfig defines configuration for the content fetcher.
type FetcherConfig struct {
	// Strategies are tried in order; the browser fallback runs only after
	// every strategy fails.
	Strategies         []ProxyStrategyConfig `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	RequestTimeoutSecs int                   `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1,max=30"`
	MaxRetries         int                   `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=5"`
	BaseDelayMs        int                   `json:"base_delay_ms,omitempty" yaml:"base_delay_ms,omitempty" validate:"omitempty,min=50,max=10000"`
	MaxDelayMs         int                   `json:"max_delay_ms,omitempty" yaml:"max_delay_ms,omitempty" validate:"omitempty,min=100,max=60000"`
	MainTextMaxChars   int                   `json:"main_text_max_chars,omitempty" yaml:"main_text_max_chars,omitempty" validate:"omitempty,min=200"`
	Referrer           string                `json:"referrer,omitempty" yaml:"referrer,omitempty" validate:"omitempty,url"`
}

// NewDefaultFetcherConfig creates default fetcher configuration.
// The relay services mirror the public CORS proxies the original pipeline
// degrades through, each pinned to a distinct browser user agent.
func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Strategies: []ProxyStrategyConfig{
			{
				Name:      "direct",
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			{
				Name:         "allorigins",
				Template:     "https://api.allorigins.win/raw?url=",
				EscapeTarget: true,
				UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
			},
			{
				Name:         "corsproxy",
				Template:     "https://corsproxy.io/?",
				EscapeTarget: true,
				UserAgent:    "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			},
			{
				Name:         "codetabs",
				Template:     "https://api.codetabs.com/v1/proxy?quest=",
				EscapeTarget: true,
				UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
			},
		},
		RequestTimeoutSecs: DefaultFetcherRequestTimeoutSecs,
		MaxRetries:         DefaultFetcherMaxRetries,
		BaseDelayMs:        DefaultFetcherBaseDelayMs,
		MaxDelayMs:         DefaultFetcherMaxDelayMs,
		MainTextMaxChars:   DefaultFetcherMainTextMaxChars,
		Referrer:           "https://www.google.com/",
	}
}
