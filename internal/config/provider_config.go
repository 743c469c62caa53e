package config

// ProviderConfig configures a single schema-generation provider.
type ProviderConfig struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Priority int    `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,min=0,max=100"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	// TimeoutSecs bounds a single call to this provider; on expiry the
	// orchestrator advances to the next provider without waiting.
	TimeoutSecs int `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1,max=120"`
}

// ProvidersConfig defines the provider registry configuration.
type ProvidersConfig struct {
	Providers []ProviderConfig `json:"providers,omitempty" yaml:"providers,omitempty" validate:"omitempty,dive"`
	// OverallBudgetSecs is the deadline for a whole generation request,
	// covering the provider loop and fallback synthesis.
	OverallBudgetSecs int `json:"overall_budget_secs,omitempty" yaml:"overall_budget_secs,omitempty" validate:"omitempty,min=5,max=300"`
	// MaxSchemas caps the schema list returned to the caller.
	MaxSchemas int `json:"max_schemas,omitempty" yaml:"max_schemas,omitempty" validate:"omitempty,min=1,max=10"`
	// TemplateAPIURL optionally points at an external schema-template
	// service used by the rich template path. Empty disables the call.
	TemplateAPIURL         string `json:"template_api_url,omitempty" yaml:"template_api_url,omitempty" validate:"omitempty,url"`
	TemplateAPITimeoutSecs int    `json:"template_api_timeout_secs,omitempty" yaml:"template_api_timeout_secs,omitempty" validate:"omitempty,min=1,max=30"`
}

// NewDefaultProvidersConfig creates default provider configuration.
// API keys default from environment so a bare config still enables the
// providers the runtime has credentials for.
func NewDefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		Providers: []ProviderConfig{
			{
				Name:        "openai",
				Enabled:     true,
				Priority:    1,
				Model:       "gpt-4o-mini",
				TimeoutSecs: DefaultProviderTimeoutSecs,
			},
			{
				Name:        "anthropic",
				Enabled:     true,
				Priority:    2,
				Model:       "claude-3-5-haiku-latest",
				TimeoutSecs: DefaultProviderTimeoutSecs,
			},
			{
				Name:        "template",
				Enabled:     true,
				Priority:    10,
				TimeoutSecs: 5,
			},
		},
		OverallBudgetSecs:      DefaultProviderOverallBudgetSec,
		MaxSchemas:             DefaultProviderMaxSchemas,
		TemplateAPITimeoutSecs: 5,
	}
}
