package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGlobalConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultRateLimitWindowSecs, cfg.RateLimitConfig.WindowSecs)
	assert.Equal(t, DefaultProviderMaxSchemas, cfg.ProvidersConfig.MaxSchemas)
	assert.NotEmpty(t, cfg.FetcherConfig.Strategies)
}

func TestLoadGlobalConfigYAMLOverrides(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
rate_limit_config:
  window_secs: 120
providers_config:
  max_schemas: 2
  overall_budget_secs: 45
`)

	cfg, err := LoadGlobalConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 120, cfg.RateLimitConfig.WindowSecs)
	assert.Equal(t, 2, cfg.ProvidersConfig.MaxSchemas)
	assert.Equal(t, 45, cfg.ProvidersConfig.OverallBudgetSecs)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultBrowserPoolSize, cfg.BrowserConfig.PoolSize)
}

func TestLoadGlobalConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"cache_config": {"ttl_secs": 60}}`)

	cfg, err := LoadGlobalConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 60, cfg.CacheConfig.TTLSecs)
}

func TestLoadGlobalConfigRejectsInvalidValues(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
log_config:
  log_level: shouting
`)

	_, err := LoadGlobalConfig(path)

	assert.Error(t, err)
}

func TestLoadGlobalConfigRejectsMalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "rate_limit_config: [not a map")

	_, err := LoadGlobalConfig(path)

	assert.Error(t, err)
}

func TestValidateConfigCrossFieldRules(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.RateLimitConfig.BaseBackoffSecs = 400
	cfg.RateLimitConfig.MaxBackoffSecs = 300

	assert.Error(t, ValidateConfig(cfg))
}

func TestDefaultProxyStrategiesUseDistinctUserAgents(t *testing.T) {
	cfg := NewDefaultFetcherConfig()

	seen := make(map[string]bool)
	for _, strategy := range cfg.Strategies {
		assert.NotEmpty(t, strategy.UserAgent, "strategy %s must pin a user agent", strategy.Name)
		assert.False(t, seen[strategy.UserAgent], "strategy %s reuses another strategy's user agent", strategy.Name)
		seen[strategy.UserAgent] = true
	}
}
