package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
)

// ResultCache stores finished generation results keyed by content
// fingerprint. Implementations must be safe for concurrent use; entries
// are immutable value objects, so last-writer-wins on a racing key is
// acceptable.
type ResultCache interface {
	Get(key string) (*models.GenerationResult, bool)
	Add(key string, result *models.GenerationResult)
	Evict(key string)
}

// lruResultCache backs ResultCache with an expirable LRU so entries age
// out after the configured TTL without a sweeper goroutine of our own.
type lruResultCache struct {
	lru *expirable.LRU[string, *models.GenerationResult]
}

// NewResultCache builds the default TTL cache from configuration.
func NewResultCache(cfg config.CacheConfig) ResultCache {
	ttl := time.Duration(cfg.TTLSecs) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(config.DefaultCacheTTLSecs) * time.Second
	}
	size := cfg.MaxEntries
	if size <= 0 {
		size = config.DefaultCacheMaxEntries
	}
	return &lruResultCache{
		lru: expirable.NewLRU[string, *models.GenerationResult](size, nil, ttl),
	}
}

func (c *lruResultCache) Get(key string) (*models.GenerationResult, bool) {
	return c.lru.Get(key)
}

func (c *lruResultCache) Add(key string, result *models.GenerationResult) {
	c.lru.Add(key, result)
}

func (c *lruResultCache) Evict(key string) {
	c.lru.Remove(key)
}

// fingerprint derives the cache key from the request's content-relevant
// inputs: the URL, a bounded prefix of the page text, and the website
// profile.
func fingerprint(url, mainText string, profile models.WebsiteProfile, prefixLen int) string {
	if prefixLen <= 0 {
		prefixLen = config.DefaultCacheTextPrefixLen
	}
	if len(mainText) > prefixLen {
		mainText = mainText[:prefixLen]
	}

	h := sha256.New()
	for _, part := range []string{url, mainText, profile.CompanyName, profile.FounderName, profile.CompanyLogoURL} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
