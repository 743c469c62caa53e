package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/common/retry"
	"github.com/schemaforge/schemaforge/internal/common/urlhandler"
	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/models"
	"github.com/schemaforge/schemaforge/internal/ratelimit"
)

// Renderer is the headless-browser fallback used after every transport
// strategy has failed.
type Renderer interface {
	// RenderPage returns the fully rendered HTML of the page, waiting out
	// bot-challenge interstitials up to its configured budget.
	RenderPage(ctx context.Context, url string) (string, error)
	// IsEnabled reports whether the fallback is available.
	IsEnabled() bool
}

// Fetcher retrieves a page's content through a prioritized chain of
// transport strategies, degrading to the headless-browser fallback, and
// never returns partially corrupt data.
type Fetcher struct {
	cfg       config.FetcherConfig
	limiter   *ratelimit.Limiter
	extractor *Extractor
	renderer  Renderer
	client    *http.Client
	logger    zerolog.Logger
}

// NewFetcher creates a content fetcher. renderer may be nil when the
// browser fallback is disabled.
func NewFetcher(cfg config.FetcherConfig, limiter *ratelimit.Limiter, renderer Renderer, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		cfg:       cfg,
		limiter:   limiter,
		extractor: NewExtractor(cfg, logger),
		renderer:  renderer,
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSecs) * time.Second,
		},
		logger: logger.With().Str("component", "Fetcher").Logger(),
	}
}

// FetchPageContent retrieves and extracts the page at rawURL. On total
// failure it returns a *FetchError classified as timeout, not-found,
// forbidden, or unavailable; the caller's recovery path is manual text
// entry.
func (f *Fetcher) FetchPageContent(ctx context.Context, rawURL string) (*models.PageContent, error) {
	target := urlhandler.NormalizeURL(rawURL)
	if err := urlhandler.ValidateURLFormat(target); err != nil {
		return nil, ClassifyError(rawURL, err)
	}

	if f.limiter.IsRateLimited(target) {
		delay := f.limiter.GetDelay(target)
		f.logger.Info().Str("url", target).Dur("delay", delay).Msg("Domain in backoff, waiting before fetch")
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, ClassifyError(target, err)
		}
	}

	var lastErr error
	for i, strategy := range f.cfg.Strategies {
		if i > 0 {
			if err := sleepCtx(ctx, f.limiter.GetDelay(target)); err != nil {
				return nil, ClassifyError(target, err)
			}
		}

		html, err := f.fetchViaStrategy(ctx, strategy, target)
		if err != nil {
			lastErr = err
			f.logger.Debug().
				Str("strategy", strategy.Name).
				Str("url", target).
				Err(err).
				Msg("Transport strategy failed")
			continue
		}

		content, err := f.extractor.Extract(target, html)
		if err != nil {
			lastErr = err
			continue
		}

		f.limiter.RecordSuccess(target)
		f.logger.Info().
			Str("strategy", strategy.Name).
			Str("url", target).
			Int("text_len", len(content.MainText)).
			Msg("Page fetched")
		return content, nil
	}

	if f.renderer != nil && f.renderer.IsEnabled() {
		content, err := f.fetchViaBrowser(ctx, target)
		if err == nil {
			return content, nil
		}
		// The browser ran last, so its failure is what gets classified;
		// a challenge timeout here carries the bot-protection wording.
		lastErr = err
	}

	return nil, ClassifyError(target, lastErr)
}

// fetchViaBrowser runs the headless fallback, retried once with backoff.
// The caller has already checked that the renderer is available.
func (f *Fetcher) fetchViaBrowser(ctx context.Context, target string) (*models.PageContent, error) {
	policy := retry.Policy{
		MaxAttempts: 2,
		BaseDelay:   time.Duration(f.cfg.BaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(f.cfg.MaxDelayMs) * time.Millisecond,
		Jitter:      true,
	}

	var content *models.PageContent
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		html, renderErr := f.renderer.RenderPage(ctx, target)
		if renderErr != nil {
			return renderErr
		}
		extracted, extractErr := f.extractor.Extract(target, html)
		if extractErr != nil {
			return extractErr
		}
		content = extracted
		return nil
	})
	if err != nil {
		f.logger.Warn().Str("url", target).Err(err).Msg("Browser fallback failed")
		return nil, err
	}

	f.limiter.RecordSuccess(target)
	f.logger.Info().Str("url", target).Msg("Page fetched via headless browser")
	return content, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
