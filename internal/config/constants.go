package config

const (
	// Fetcher Defaults
	DefaultFetcherRequestTimeoutSecs = 8
	DefaultFetcherMaxRetries         = 2
	DefaultFetcherBaseDelayMs        = 500
	DefaultFetcherMaxDelayMs         = 8000
	DefaultFetcherMainTextMaxChars   = 15000

	// Rate Limit Defaults
	DefaultRateLimitWindowSecs     = 60
	DefaultRateLimitBaseBackoffSec = 30
	DefaultRateLimitMaxBackoffSec  = 300

	// Browser Defaults
	DefaultBrowserPoolSize            = 1
	DefaultBrowserPageLoadTimeoutSecs = 20
	DefaultBrowserChallengeWaitSecs   = 15
	DefaultBrowserWindowWidth         = 1366
	DefaultBrowserWindowHeight        = 768

	// Provider Defaults
	DefaultProviderTimeoutSecs      = 12
	DefaultProviderOverallBudgetSec = 30
	DefaultProviderMaxSchemas       = 3

	// Cache Defaults
	DefaultCacheTTLSecs       = 300
	DefaultCacheMaxEntries    = 256
	DefaultCacheTextPrefixLen = 500

	// Resource Defaults
	DefaultResourceMaxMemoryMB       = 1024
	DefaultResourceSystemMemFraction = 0.9

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3
)
