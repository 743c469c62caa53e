package provider

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/synthesizer"
)

// maxTypesPerRequest caps how many candidate types a single provider
// call is asked to produce schemas for.
const maxTypesPerRequest = 3

// Request carries everything a provider needs to generate schemas for
// one page.
type Request struct {
	URL                    string
	Profile                models.WebsiteProfile
	MainText               string
	ExistingStructuredData []string
	// CandidateTypes is ordered by classifier confidence; providers must
	// return one schema per requested type, in this order.
	CandidateTypes []string
}

// RequestedTypes returns the candidate types the provider is expected
// to produce, capped at the per-request maximum.
func (r Request) RequestedTypes() []string {
	if len(r.CandidateTypes) <= maxTypesPerRequest {
		return r.CandidateTypes
	}
	return r.CandidateTypes[:maxTypesPerRequest]
}

// Provider is a pluggable schema-generation backend. Generate must
// respect the context deadline and return an error rather than an empty
// list when it cannot serve the request.
type Provider interface {
	// Name identifies the provider in logs and results.
	Name() string
	// IsConfigured reports whether the provider has what it needs to
	// run (credentials, endpoints). Unconfigured providers are skipped.
	IsConfigured() bool
	// Generate returns one schema per requested type, in request order.
	Generate(ctx context.Context, req Request) ([]models.GeneratedSchema, error)
}

// Entry pairs a provider with its loop metadata.
type Entry struct {
	Provider Provider
	Priority int
	Timeout  time.Duration
}

// Registry is the ordered set of providers the generator iterates. It
// is built once at startup and never mutated afterwards.
type Registry struct {
	entries []Entry
}

// BuildRegistry constructs the provider registry from configuration,
// ordered by ascending priority. Missing API keys fall back to the
// conventional environment variables.
func BuildRegistry(cfg config.ProvidersConfig, synth *synthesizer.Synthesizer, logger zerolog.Logger) *Registry {
	reg := &Registry{}
	for _, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}

		var p Provider
		switch pc.Name {
		case "openai":
			p = NewOpenAIProvider(withEnvKey(pc, "OPENAI_API_KEY"), logger)
		case "anthropic":
			p = NewAnthropicProvider(withEnvKey(pc, "ANTHROPIC_API_KEY"), logger)
		case "template":
			p = NewTemplateProvider(synth, logger)
		default:
			logger.Warn().Str("provider", pc.Name).Msg("Unknown provider in configuration, skipping")
			continue
		}

		timeout := time.Duration(pc.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = time.Duration(config.DefaultProviderTimeoutSecs) * time.Second
		}
		reg.entries = append(reg.entries, Entry{Provider: p, Priority: pc.Priority, Timeout: timeout})
	}

	sort.SliceStable(reg.entries, func(i, j int) bool {
		return reg.entries[i].Priority < reg.entries[j].Priority
	})
	return reg
}

// NewRegistry builds a registry directly from entries, used by tests
// and callers that assemble providers themselves.
func NewRegistry(entries ...Entry) *Registry {
	reg := &Registry{entries: entries}
	sort.SliceStable(reg.entries, func(i, j int) bool {
		return reg.entries[i].Priority < reg.entries[j].Priority
	})
	return reg
}

// Entries returns providers in ascending priority order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

func withEnvKey(pc config.ProviderConfig, envVar string) config.ProviderConfig {
	if pc.APIKey == "" {
		pc.APIKey = os.Getenv(envVar)
	}
	return pc
}
