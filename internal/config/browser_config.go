package config

// BrowserConfig defines configuration for the headless browser fallback.
type BrowserConfig struct {
	Enabled             bool   `json:"enabled" yaml:"enabled"`
	ChromePath          string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty"`
	UserDataDir         string `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	PoolSize            int    `json:"pool_size,omitempty" yaml:"pool_size,omitempty" validate:"omitempty,min=1,max=8"`
	PageLoadTimeoutSecs int    `json:"page_load_timeout_secs,omitempty" yaml:"page_load_timeout_secs,omitempty" validate:"omitempty,min=5,max=120"`
	// ChallengeWaitSecs bounds the polling loop that waits out a detected
	// bot-challenge interstitial before giving up.
	ChallengeWaitSecs int  `json:"challenge_wait_secs,omitempty" yaml:"challenge_wait_secs,omitempty" validate:"omitempty,min=1,max=60"`
	WaitAfterLoadMs   int  `json:"wait_after_load_ms,omitempty" yaml:"wait_after_load_ms,omitempty" validate:"omitempty,min=0,max=10000"`
	WindowWidth       int  `json:"window_width,omitempty" yaml:"window_width,omitempty"`
	WindowHeight      int  `json:"window_height,omitempty" yaml:"window_height,omitempty"`
	DisableImages     bool `json:"disable_images" yaml:"disable_images"`
}

// NewDefaultBrowserConfig creates default browser configuration.
func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Enabled:             true,
		PoolSize:            DefaultBrowserPoolSize,
		PageLoadTimeoutSecs: DefaultBrowserPageLoadTimeoutSecs,
		ChallengeWaitSecs:   DefaultBrowserChallengeWaitSecs,
		WaitAfterLoadMs:     500,
		WindowWidth:         DefaultBrowserWindowWidth,
		WindowHeight:        DefaultBrowserWindowHeight,
		DisableImages:       true,
	}
}
