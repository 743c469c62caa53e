package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/provider"
	"github.com/schemaforge/schemaforge/internal/synthesizer"
)

const blogText = "Posted on June 1 by our author. This blog post walks through a full season " +
	"of product updates, customer interviews, and the roadmap for the rest of the year in detail."

// stubProvider is a scriptable Provider for orchestration tests.
type stubProvider struct {
	name       string
	configured bool
	sleep      time.Duration
	schemas    []models.GeneratedSchema
	err        error
	calls      atomic.Int32
}

func (s *stubProvider) Name() string       { return s.name }
func (s *stubProvider) IsConfigured() bool { return s.configured }

func (s *stubProvider) Generate(ctx context.Context, req provider.Request) ([]models.GeneratedSchema, error) {
	s.calls.Add(1)
	if s.sleep > 0 {
		select {
		case <-time.After(s.sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.schemas, nil
}

func validSchemaFor(schemaType string) models.GeneratedSchema {
	doc := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         schemaType,
		"name":          "Stub Entry",
		"headline":      "Stub Entry",
		"author":        map[string]interface{}{"@type": "Person", "name": "Stub Author"},
		"datePublished": "2025-06-01",
	}
	raw, _ := json.MarshalIndent(doc, "", "  ")
	return models.GeneratedSchema{SchemaType: schemaType, JSONLD: string(raw)}
}

func newTestGenerator(t *testing.T, entries ...provider.Entry) *Generator {
	t.Helper()
	cfg := config.NewDefaultProvidersConfig()
	cacheCfg := config.NewDefaultCacheConfig()
	synth := synthesizer.NewSynthesizer(cfg, zerolog.Nop())
	return NewGenerator(cfg, cacheCfg, provider.NewRegistry(entries...), synth, nil, nil, zerolog.Nop())
}

func entry(p provider.Provider, priority int, timeout time.Duration) provider.Entry {
	return provider.Entry{Provider: p, Priority: priority, Timeout: timeout}
}

func TestGenerateSchemasEmptyTextReturnsEmptyResult(t *testing.T) {
	stub := &stubProvider{name: "stub", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(stub, 1, time.Second))
	gen.fetcher = fetcherFunc(func(ctx context.Context, rawURL string) (*models.PageContent, error) {
		return &models.PageContent{URL: rawURL, MainText: ""}, nil
	})

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/empty", models.WebsiteProfile{}, "", nil)

	require.NoError(t, err)
	assert.Empty(t, result.Schemas)
	assert.Equal(t, int32(0), stub.calls.Load())
}

type fetcherFunc func(ctx context.Context, rawURL string) (*models.PageContent, error)

func (f fetcherFunc) FetchPageContent(ctx context.Context, rawURL string) (*models.PageContent, error) {
	return f(ctx, rawURL)
}

func TestGenerateSchemasFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "first", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	second := &stubProvider{name: "second", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(first, 1, time.Second), entry(second, 2, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/a", models.WebsiteProfile{}, blogText, nil)

	require.NoError(t, err)
	assert.Equal(t, "first", result.Provider)
	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(0), second.calls.Load())
}

func TestGenerateSchemasSkipsUnconfiguredProviders(t *testing.T) {
	unconfigured := &stubProvider{name: "nokey", configured: false}
	fallback := &stubProvider{name: "ready", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(unconfigured, 1, time.Second), entry(fallback, 2, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/b", models.WebsiteProfile{}, blogText, nil)

	require.NoError(t, err)
	assert.Equal(t, "ready", result.Provider)
	assert.Equal(t, int32(0), unconfigured.calls.Load())
}

func TestGenerateSchemasProviderTimeoutAdvancesLoop(t *testing.T) {
	slow := &stubProvider{name: "slow", configured: true, sleep: 2 * time.Second}
	fast := &stubProvider{name: "fast", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(slow, 1, time.Millisecond), entry(fast, 2, time.Second))

	start := time.Now()
	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/c", models.WebsiteProfile{}, blogText, nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "fast", result.Provider)
	assert.Less(t, elapsed, time.Second, "loop must not wait out the slow provider")
}

func TestGenerateSchemasAllProvidersFailFallsBack(t *testing.T) {
	broken := &stubProvider{name: "broken", configured: true, err: errors.New("boom")}
	gen := newTestGenerator(t, entry(broken, 1, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/d", models.WebsiteProfile{}, blogText, nil)

	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Provider)
	require.NotEmpty(t, result.Schemas)
	assert.Equal(t, models.TypeBlogPosting, result.Schemas[0].SchemaType)
	// The page text carries no author or publication date, so the
	// synthesized schema is flagged invalid rather than padded with
	// invented values.
	assert.Equal(t, models.ValidationInvalid, result.Schemas[0].ValidationStatus)
	assert.NotContains(t, result.Schemas[0].JSONLD, "datePublished")
}

func TestGenerateSchemasEmptyProviderListCountsAsFailure(t *testing.T) {
	empty := &stubProvider{name: "empty", configured: true, schemas: []models.GeneratedSchema{}}
	working := &stubProvider{name: "working", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(empty, 1, time.Second), entry(working, 2, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/e", models.WebsiteProfile{}, blogText, nil)

	require.NoError(t, err)
	assert.Equal(t, "working", result.Provider)
}

func TestGenerateSchemasParseFailurePreservedAsDiagnostic(t *testing.T) {
	malformed := &stubProvider{name: "malformed", configured: true, schemas: []models.GeneratedSchema{
		{SchemaType: models.TypeBlogPosting, JSONLD: "{not json at all"},
	}}
	gen := newTestGenerator(t, entry(malformed, 1, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/f", models.WebsiteProfile{}, blogText, nil)

	require.NoError(t, err)
	require.NotEmpty(t, result.Schemas)

	var diagnostic models.GeneratedSchema
	found := false
	for _, s := range result.Schemas {
		if s.ValidationStatus == models.ValidationInvalid {
			diagnostic = s
			found = true
			break
		}
	}
	require.True(t, found, "malformed schema must be surfaced, not dropped")
	assert.Contains(t, diagnostic.JSONLD, "{not json at all")
	assert.Contains(t, diagnostic.JSONLD, "error")
}

func TestGenerateSchemasLowQualityOutputGetsSynthesizedBackup(t *testing.T) {
	invalid := &stubProvider{name: "invalid", configured: true, schemas: []models.GeneratedSchema{
		{SchemaType: models.TypeBlogPosting, JSONLD: `{"@type": "BlogPosting"}`},
	}}
	gen := newTestGenerator(t, entry(invalid, 1, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/g", models.WebsiteProfile{}, blogText, nil)

	require.NoError(t, err)
	require.Len(t, result.Schemas, 2, "a synthesized backup must be appended")
	for _, s := range result.Schemas {
		require.Contains(t, []models.ValidationStatus{models.ValidationValid, models.ValidationInvalid}, s.ValidationStatus)
		assert.NotContains(t, s.JSONLD, "Anonymous")
	}
	backup := result.Schemas[1]
	assert.Equal(t, models.TypeBlogPosting, backup.SchemaType)
	assert.Contains(t, backup.Description, "Template-generated")
}

func TestGenerateSchemasTypeAgreement(t *testing.T) {
	stub := &stubProvider{name: "stub", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(stub, 1, time.Second))

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/h", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)

	for _, schema := range result.Schemas {
		if schema.ValidationStatus != models.ValidationValid {
			continue
		}
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(schema.JSONLD), &doc))
		assert.Contains(t, doc["@context"], "schema.org")

		switch typed := doc["@type"].(type) {
		case string:
			assert.Equal(t, schema.SchemaType, typed)
		case []interface{}:
			assert.Contains(t, typed, schema.SchemaType)
		default:
			t.Fatalf("unexpected @type shape %T", doc["@type"])
		}
	}
}

func TestGenerateSchemasCacheHitSkipsProviders(t *testing.T) {
	stub := &stubProvider{name: "stub", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(stub, 1, time.Second))

	first, err := gen.GenerateSchemas(context.Background(), "https://example.com/i", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)
	second, err := gen.GenerateSchemas(context.Background(), "https://example.com/i", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), stub.calls.Load(), "second call must be served from cache")
	assert.Equal(t, first.Provider, second.Provider)
	assert.Equal(t, first.Schemas, second.Schemas)
}

func TestGenerateSchemasCacheKeyedByProfile(t *testing.T) {
	stub := &stubProvider{name: "stub", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}
	gen := newTestGenerator(t, entry(stub, 1, time.Second))

	_, err := gen.GenerateSchemas(context.Background(), "https://example.com/j", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)
	_, err = gen.GenerateSchemas(context.Background(), "https://example.com/j", models.WebsiteProfile{CompanyName: "Acme"}, blogText, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), stub.calls.Load(), "different profiles must not share a cache entry")
}

func TestGenerateSchemasCacheExpiryTriggersNewCall(t *testing.T) {
	stub := &stubProvider{name: "stub", configured: true, schemas: []models.GeneratedSchema{validSchemaFor(models.TypeBlogPosting)}}

	cfg := config.NewDefaultProvidersConfig()
	cacheCfg := config.NewDefaultCacheConfig()
	cacheCfg.TTLSecs = 1
	synth := synthesizer.NewSynthesizer(cfg, zerolog.Nop())
	gen := NewGenerator(cfg, cacheCfg, provider.NewRegistry(entry(stub, 1, time.Second)), synth, nil, nil, zerolog.Nop())

	_, err := gen.GenerateSchemas(context.Background(), "https://example.com/k", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = gen.GenerateSchemas(context.Background(), "https://example.com/k", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load(), "expired entry must trigger a fresh provider call")
}

func TestGenerateSchemasTruncatesOnlyAtReturn(t *testing.T) {
	var schemas []models.GeneratedSchema
	for i := 0; i < 5; i++ {
		s := validSchemaFor(models.TypeBlogPosting)
		s.Description = fmt.Sprintf("entry %d", i)
		schemas = append(schemas, s)
	}
	stub := &stubProvider{name: "stub", configured: true, schemas: schemas}

	cfg := config.NewDefaultProvidersConfig()
	cfg.MaxSchemas = 2
	cacheCfg := config.NewDefaultCacheConfig()
	synth := synthesizer.NewSynthesizer(cfg, zerolog.Nop())
	cache := NewResultCache(cacheCfg)
	gen := NewGenerator(cfg, cacheCfg, provider.NewRegistry(entry(stub, 1, time.Second)), synth, nil, cache, zerolog.Nop())

	result, err := gen.GenerateSchemas(context.Background(), "https://example.com/l", models.WebsiteProfile{}, blogText, nil)
	require.NoError(t, err)
	assert.Len(t, result.Schemas, 2)

	key := fingerprint("https://example.com/l", blogText, models.WebsiteProfile{}, cacheCfg.TextPrefixLen)
	cached, ok := cache.Get(key)
	require.True(t, ok)
	assert.Len(t, cached.Schemas, 5, "cache must hold the full list, truncation happens at return")
}

func TestFingerprintSensitivity(t *testing.T) {
	base := fingerprint("https://example.com", "some text", models.WebsiteProfile{}, 500)

	assert.NotEqual(t, base, fingerprint("https://example.com/other", "some text", models.WebsiteProfile{}, 500))
	assert.NotEqual(t, base, fingerprint("https://example.com", "other text", models.WebsiteProfile{}, 500))
	assert.NotEqual(t, base, fingerprint("https://example.com", "some text", models.WebsiteProfile{CompanyName: "Acme"}, 500))
	assert.Equal(t, base, fingerprint("https://example.com", "some text", models.WebsiteProfile{}, 500))
}

func TestFingerprintIgnoresTextBeyondPrefix(t *testing.T) {
	prefix := strings.Repeat("a", 500)
	a := fingerprint("https://example.com", prefix+"tail one", models.WebsiteProfile{}, 500)
	b := fingerprint("https://example.com", prefix+"tail two", models.WebsiteProfile{}, 500)

	assert.Equal(t, a, b)
}
