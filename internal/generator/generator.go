package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/classifier"
	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/provider"
	"github.com/schemaforge/schemaforge/internal/synthesizer"
)

// PageFetcher supplies page content when the caller does not. The
// production implementation is the fetcher package.
type PageFetcher interface {
	FetchPageContent(ctx context.Context, rawURL string) (*models.PageContent, error)
}

// Generator orchestrates the whole pipeline: classification, the
// provider loop, validation, fallback synthesis, and result caching.
// Whenever at least one candidate type is detected it returns a
// non-empty schema list or a terminal error, never a silent empty
// success.
type Generator struct {
	cfg      config.ProvidersConfig
	cacheCfg config.CacheConfig
	registry *provider.Registry
	synth    *synthesizer.Synthesizer
	fetcher  PageFetcher
	cache    ResultCache
	logger   zerolog.Logger
}

// NewGenerator wires the orchestrator. fetcher may be nil when callers
// always supply page text themselves.
func NewGenerator(
	cfg config.ProvidersConfig,
	cacheCfg config.CacheConfig,
	registry *provider.Registry,
	synth *synthesizer.Synthesizer,
	pageFetcher PageFetcher,
	cache ResultCache,
	logger zerolog.Logger,
) *Generator {
	if cache == nil {
		cache = NewResultCache(cacheCfg)
	}
	return &Generator{
		cfg:      cfg,
		cacheCfg: cacheCfg,
		registry: registry,
		synth:    synth,
		fetcher:  pageFetcher,
		cache:    cache,
		logger:   logger.With().Str("component", "Generator").Logger(),
	}
}

// GenerateSchemas produces the final ordered schema list for one page.
// When pageText is empty the page is fetched internally; a page that
// yields no candidate types returns an empty result without error.
func (g *Generator) GenerateSchemas(
	ctx context.Context,
	url string,
	profile models.WebsiteProfile,
	pageText string,
	existingStructuredData []string,
) (*models.GenerationResult, error) {
	start := time.Now()

	if pageText == "" {
		if g.fetcher == nil {
			return nil, errorwrapper.NewError("no page text supplied and no fetcher configured")
		}
		content, err := g.fetcher.FetchPageContent(ctx, url)
		if err != nil {
			return nil, err
		}
		pageText = content.MainText
		if len(existingStructuredData) == 0 {
			existingStructuredData = content.ExistingStructuredData
		}
	}

	candidates := classifier.Classify(pageText, url)
	if len(candidates) == 0 {
		g.logger.Debug().Str("url", url).Msg("No candidate types detected, returning empty result")
		return &models.GenerationResult{
			Schemas:        []models.GeneratedSchema{},
			Provider:       "none",
			ProcessingTime: time.Since(start),
		}, nil
	}

	key := fingerprint(url, pageText, profile, g.cacheCfg.TextPrefixLen)
	if cached, ok := g.cache.Get(key); ok {
		g.logger.Debug().Str("url", url).Str("provider", cached.Provider).Msg("Cache hit")
		return g.truncated(cached), nil
	}

	budget := time.Duration(g.cfg.OverallBudgetSecs) * time.Second
	if budget <= 0 {
		budget = time.Duration(config.DefaultProviderOverallBudgetSec) * time.Second
	}
	loopCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	req := provider.Request{
		URL:                    url,
		Profile:                profile,
		MainText:               pageText,
		ExistingStructuredData: existingStructuredData,
		CandidateTypes:         candidates,
	}

	schemas, providerName, lastErr := g.runProviderLoop(loopCtx, req)

	if len(schemas) == 0 {
		// Every provider raised or timed out. Synthesize a minimal
		// BlogPosting directly from the raw text as the last resort.
		fallback, err := g.synth.Synthesize(models.TypeBlogPosting, pageText, url, profile)
		if err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return nil, errorwrapper.WrapError(lastErr, "schema generation failed and fallback synthesis could not recover; please supply page content manually")
		}
		schemas = []models.GeneratedSchema{fallback}
		providerName = "fallback"
	}

	schemas, validationResults := g.validateSchemas(schemas)

	if countValid(schemas) == 0 {
		// Low-quality provider output: append a synthesized schema for
		// the top-priority candidate type. It may still fail validation
		// when the source text lacks required fields, but it is never
		// padded with invented values.
		if synthesized, err := g.synth.Synthesize(candidates[0], pageText, url, profile); err == nil {
			validated, results := g.validateSchemas([]models.GeneratedSchema{synthesized})
			schemas = append(schemas, validated...)
			for k, v := range results {
				validationResults[k] = v
			}
		} else {
			g.logger.Error().Err(err).Str("schema_type", candidates[0]).Msg("Fallback synthesis for top candidate failed")
		}
	}

	result := &models.GenerationResult{
		Schemas:           schemas,
		Provider:          providerName,
		ProcessingTime:    time.Since(start),
		ValidationResults: validationResults,
	}
	g.cache.Add(key, result)

	g.logger.Info().
		Str("url", url).
		Str("provider", providerName).
		Int("schema_count", len(schemas)).
		Dur("elapsed", result.ProcessingTime).
		Msg("Schema generation complete")

	return g.truncated(result), nil
}

// runProviderLoop iterates providers in ascending priority order. Each
// call races its configured timeout; on expiry the loop advances
// without waiting for the straggler. The first provider returning a
// non-empty list wins.
func (g *Generator) runProviderLoop(ctx context.Context, req provider.Request) ([]models.GeneratedSchema, string, error) {
	var lastErr error

	for _, entry := range g.registry.Entries() {
		name := entry.Provider.Name()

		if err := ctx.Err(); err != nil {
			lastErr = errorwrapper.WrapError(err, "generation budget exhausted")
			break
		}
		if !entry.Provider.IsConfigured() {
			g.logger.Debug().Str("provider", name).Msg("Provider not configured, skipping")
			continue
		}

		schemas, err := callWithTimeout(ctx, entry, req)
		if err != nil {
			lastErr = err
			g.logger.Warn().Err(err).Str("provider", name).Msg("Provider failed, trying next")
			continue
		}
		if len(schemas) == 0 {
			lastErr = errorwrapper.WrapError(errorwrapper.ErrProviderUnavailable, fmt.Sprintf("provider %s returned no schemas", name))
			g.logger.Warn().Str("provider", name).Msg("Provider returned no schemas, trying next")
			continue
		}

		return schemas, name, nil
	}

	return nil, "", lastErr
}

// callWithTimeout runs one provider call in a goroutine and returns as
// soon as the result arrives or the timeout fires, whichever is first.
func callWithTimeout(ctx context.Context, entry provider.Entry, req provider.Request) ([]models.GeneratedSchema, error) {
	callCtx, cancel := context.WithTimeout(ctx, entry.Timeout)
	defer cancel()

	type outcome struct {
		schemas []models.GeneratedSchema
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		schemas, err := entry.Provider.Generate(callCtx, req)
		done <- outcome{schemas: schemas, err: err}
	}()

	select {
	case o := <-done:
		return o.schemas, o.err
	case <-callCtx.Done():
		return nil, errorwrapper.WrapError(callCtx.Err(), fmt.Sprintf("provider %s did not respond within %s", entry.Provider.Name(), entry.Timeout))
	}
}

// truncated returns a shallow copy with the schema list capped at the
// configured maximum. The cache always holds the full list; truncation
// happens only at the point of returning to the caller.
func (g *Generator) truncated(result *models.GenerationResult) *models.GenerationResult {
	max := g.cfg.MaxSchemas
	if max <= 0 {
		max = config.DefaultProviderMaxSchemas
	}
	if len(result.Schemas) <= max {
		return result
	}
	out := *result
	out.Schemas = result.Schemas[:max]
	return &out
}

func countValid(schemas []models.GeneratedSchema) int {
	count := 0
	for _, s := range schemas {
		if s.ValidationStatus == models.ValidationValid {
			count++
		}
	}
	return count
}
