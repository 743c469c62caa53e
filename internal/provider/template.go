package provider

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/synthesizer"
)

// TemplateProvider generates schemas deterministically through the
// template synthesizer. It needs no credentials and normally runs at
// the lowest priority, making it the loop's built-in safety net.
type TemplateProvider struct {
	synth  *synthesizer.Synthesizer
	logger zerolog.Logger
}

func NewTemplateProvider(synth *synthesizer.Synthesizer, logger zerolog.Logger) *TemplateProvider {
	return &TemplateProvider{
		synth:  synth,
		logger: logger.With().Str("component", "TemplateProvider").Logger(),
	}
}

func (p *TemplateProvider) Name() string { return "template" }

func (p *TemplateProvider) IsConfigured() bool { return p.synth != nil }

func (p *TemplateProvider) Generate(ctx context.Context, req Request) ([]models.GeneratedSchema, error) {
	types := req.RequestedTypes()
	if len(types) == 0 {
		return nil, errorwrapper.NewError("no candidate types to generate")
	}

	schemas := make([]models.GeneratedSchema, 0, len(types))
	for _, schemaType := range types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		schema, err := p.synth.SynthesizeRich(ctx, schemaType, req.MainText, req.URL, req.Profile)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "template synthesis failed")
		}
		schemas = append(schemas, schema)
	}

	p.logger.Debug().Int("schema_count", len(schemas)).Msg("Template generation complete")
	return schemas, nil
}
