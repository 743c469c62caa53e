package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/schemaforge/schemaforge/internal/browser"
	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/fetcher"
	"github.com/schemaforge/schemaforge/internal/generator"
	"github.com/schemaforge/schemaforge/internal/logger"
	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/provider"
	"github.com/schemaforge/schemaforge/internal/ratelimit"
	"github.com/schemaforge/schemaforge/internal/resources"
	"github.com/schemaforge/schemaforge/internal/synthesizer"
)

func main() {
	// Flags
	targetURL := flag.String("url", "", "URL of the page to generate structured data for.")
	targetURLAlias := flag.String("u", "", "Alias for -url")

	globalConfigFile := flag.String("globalconfig", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("gc", "", "Alias for --globalconfig")

	profileFile := flag.String("profile", "", "Path to a YAML file with website profile details (company name, founder, logo URL).")
	textFile := flag.String("text-file", "", "Path to a text file with page content, skipping the fetch step.")
	flag.Parse()

	// Consolidate alias flags
	if *targetURL == "" && *targetURLAlias != "" {
		*targetURL = *targetURLAlias
	}
	if *globalConfigFile == "" && *globalConfigFileAlias != "" {
		*globalConfigFile = *globalConfigFileAlias
	}

	if *targetURL == "" {
		log.Fatalln("[FATAL] --url argument is required")
	}

	gCfg, err := config.LoadGlobalConfig(*globalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", *globalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	zLogger.Info().Msg("Logger initialized successfully.")

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	profile, err := loadProfile(*profileFile)
	if err != nil {
		zLogger.Fatal().Err(err).Str("file", *profileFile).Msg("Could not load website profile")
	}

	pageText, err := loadTextFile(*textFile)
	if err != nil {
		zLogger.Fatal().Err(err).Str("file", *textFile).Msg("Could not read text file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wiring
	guard := resources.NewGuard(gCfg.ResourceConfig, zLogger)
	renderer := browser.NewRenderer(gCfg.BrowserConfig, guard, zLogger)
	if err := renderer.Start(); err != nil {
		zLogger.Warn().Err(err).Msg("Browser renderer unavailable, continuing without the browser fallback")
	}
	defer renderer.Stop()

	limiter := ratelimit.NewLimiter(gCfg.RateLimitConfig, ratelimit.NewMemoryStore(), zLogger)
	pageFetcher := fetcher.NewFetcher(gCfg.FetcherConfig, limiter, renderer, zLogger)
	synth := synthesizer.NewSynthesizer(gCfg.ProvidersConfig, zLogger)
	registry := provider.BuildRegistry(gCfg.ProvidersConfig, synth, zLogger)
	gen := generator.NewGenerator(gCfg.ProvidersConfig, gCfg.CacheConfig, registry, synth, pageFetcher, nil, zLogger)

	result, err := gen.GenerateSchemas(ctx, *targetURL, profile, pageText, nil)
	if err != nil {
		if fetchErr, ok := fetcher.IsFetchError(err); ok {
			zLogger.Fatal().
				Str("kind", string(fetchErr.Kind)).
				Str("url", fetchErr.URL).
				Msg(fetchErr.Message)
		}
		zLogger.Fatal().Err(err).Msg("Schema generation failed")
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Could not encode result")
	}
	fmt.Println(string(output))
}

func loadProfile(path string) (models.WebsiteProfile, error) {
	var profile models.WebsiteProfile
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, err
	}
	return profile, nil
}

func loadTextFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
