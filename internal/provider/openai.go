package provider

import (
	"context"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
)

// OpenAIProvider generates schemas through the OpenAI chat completions
// API.
type OpenAIProvider struct {
	cfg    config.ProviderConfig
	client *openai.Client
	logger zerolog.Logger
}

// NewOpenAIProvider creates the provider. The client is only built when
// an API key is available.
func NewOpenAIProvider(cfg config.ProviderConfig, logger zerolog.Logger) *OpenAIProvider {
	p := &OpenAIProvider{
		cfg:    cfg,
		logger: logger.With().Str("component", "OpenAIProvider").Logger(),
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		p.client = openai.NewClientWithConfig(clientCfg)
	}
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) IsConfigured() bool { return p.client != nil }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) ([]models.GeneratedSchema, error) {
	if p.client == nil {
		return nil, errorwrapper.ErrProviderUnavailable
	}

	types := req.RequestedTypes()
	if len(types) == 0 {
		return nil, errorwrapper.NewError("no candidate types to generate")
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		Temperature: 0.2,
		MaxTokens:   4096,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "openai completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errorwrapper.NewError("openai returned no choices")
	}

	schemas, err := parseSchemasResponse(resp.Choices[0].Message.Content, types)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Int("schema_count", len(schemas)).
		Str("model", p.cfg.Model).
		Msg("OpenAI generation complete")
	return schemas, nil
}
