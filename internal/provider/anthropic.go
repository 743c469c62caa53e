package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicAPIVersion     = "2023-06-01"
)

// AnthropicProvider generates schemas through the Anthropic messages
// API over plain HTTP.
type AnthropicProvider struct {
	cfg    config.ProviderConfig
	client *http.Client
	logger zerolog.Logger
}

func NewAnthropicProvider(cfg config.ProviderConfig, logger zerolog.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger.With().Str("component", "AnthropicProvider").Logger(),
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) IsConfigured() bool { return p.cfg.APIKey != "" }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) ([]models.GeneratedSchema, error) {
	if p.cfg.APIKey == "" {
		return nil, errorwrapper.ErrProviderUnavailable
	}

	types := req.RequestedTypes()
	if len(types) == 0 {
		return nil, errorwrapper.NewError("no candidate types to generate")
	}

	body, err := json.Marshal(map[string]any{
		"model":      p.cfg.Model,
		"max_tokens": 4096,
		"messages": []map[string]string{
			{"role": "user", "content": buildPrompt(req)},
		},
	})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to marshal anthropic request")
	}

	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to build anthropic request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(baseURL, "anthropic request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read anthropic response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, string(respBody), baseURL)
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to decode anthropic response")
	}
	if len(parsed.Content) == 0 {
		return nil, errorwrapper.NewError("anthropic returned empty content")
	}

	schemas, err := parseSchemasResponse(parsed.Content[0].Text, types)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Int("schema_count", len(schemas)).
		Str("model", p.cfg.Model).
		Msg("Anthropic generation complete")
	return schemas, nil
}
