package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/schemaforge/schemaforge/internal/common/errorwrapper"
	"github.com/schemaforge/schemaforge/internal/common/retry"
	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/ratelimit"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 5 << 20

// requestURL composes the strategy's request target: direct strategies
// hit the page URL, relay strategies append it to their template.
func requestURL(strategy config.ProxyStrategyConfig, target string) string {
	if strategy.Template == "" {
		return target
	}
	if strategy.EscapeTarget {
		return strategy.Template + url.QueryEscape(target)
	}
	return strategy.Template + target
}

// applyBrowserHeaders mirrors what a real navigation sends so relays and
// origins treat the request as a browser page load.
func (f *Fetcher) applyBrowserHeaders(header http.Header, userAgent string) {
	header.Set("User-Agent", userAgent)
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	header.Set("Accept-Language", "en-US,en;q=0.9")
	header.Set("Sec-Fetch-Dest", "document")
	header.Set("Sec-Fetch-Mode", "navigate")
	header.Set("Sec-Fetch-Site", "none")
	header.Set("Sec-Fetch-User", "?1")
	header.Set("Upgrade-Insecure-Requests", "1")
	if f.cfg.Referrer != "" {
		header.Set("Referer", f.cfg.Referrer)
	}
}

// fetchViaStrategy runs one transport strategy with its retry budget.
// Transport-level failures are retried with backoff; definitive HTTP
// failures abort the strategy immediately.
func (f *Fetcher) fetchViaStrategy(ctx context.Context, strategy config.ProxyStrategyConfig, target string) (string, error) {
	policy := retry.Policy{
		MaxAttempts: f.cfg.MaxRetries + 1,
		BaseDelay:   time.Duration(f.cfg.BaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(f.cfg.MaxDelayMs) * time.Millisecond,
		Jitter:      true,
	}

	var body string
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		var attemptErr error
		if strategy.Template == "" {
			body, attemptErr = f.fetchDirect(strategy, target)
		} else {
			body, attemptErr = f.fetchViaRelay(ctx, strategy, target)
		}
		return attemptErr
	})
	if err != nil {
		return "", err
	}
	return body, nil
}

// fetchDirect issues the non-proxied request through a colly collector.
func (f *Fetcher) fetchDirect(strategy config.ProxyStrategyConfig, target string) (string, error) {
	collector := colly.NewCollector(
		colly.UserAgent(strategy.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(time.Duration(f.cfg.RequestTimeoutSecs) * time.Second)

	collector.OnRequest(func(r *colly.Request) {
		f.applyBrowserHeaders(*r.Headers, strategy.UserAgent)
	})

	var body []byte
	var statusCode int
	var headers http.Header

	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
		statusCode = r.StatusCode
		if r.Headers != nil {
			headers = *r.Headers
		}
	})
	collector.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			statusCode = r.StatusCode
			if r.Headers != nil {
				headers = *r.Headers
			}
		}
	})

	visitErr := collector.Visit(target)

	if limited, hint := classifyRateLimit(statusCode, headers); limited {
		f.limiter.RecordRateLimited(target, hint)
		return "", retry.Permanent(errorwrapper.NewHTTPErrorWithURL(statusCode, "rate limited", target))
	}

	if visitErr != nil {
		if statusCode != 0 {
			return "", retry.Permanent(errorwrapper.NewHTTPErrorWithURL(statusCode, http.StatusText(statusCode), target))
		}
		return "", visitErr
	}

	if len(body) == 0 {
		return "", retry.Permanent(errorwrapper.NewError("empty response body from %s", target))
	}
	return string(body), nil
}

// fetchViaRelay issues the request through a CORS relay with the shared
// HTTP client.
func (f *Fetcher) fetchViaRelay(ctx context.Context, strategy config.ProxyStrategyConfig, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL(strategy, target), nil)
	if err != nil {
		return "", retry.Permanent(errorwrapper.WrapError(err, "building relay request"))
	}
	f.applyBrowserHeaders(req.Header, strategy.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if ratelimit.IsRateLimitResponse(resp) {
		f.limiter.RecordRateLimited(target, ratelimit.RetryAfterHint(resp))
		return "", retry.Permanent(errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, "rate limited", target))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", retry.Permanent(errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, http.StatusText(resp.StatusCode), target))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errorwrapper.WrapError(err, "reading relay response")
	}
	if len(body) == 0 {
		return "", retry.Permanent(errorwrapper.NewError("empty response body from %s", strategy.Name))
	}
	return string(body), nil
}

// classifyRateLimit applies the rate-limit signals to a status/headers
// pair captured outside a live *http.Response.
func classifyRateLimit(statusCode int, headers http.Header) (bool, time.Duration) {
	if statusCode == 0 {
		return false, 0
	}
	resp := &http.Response{StatusCode: statusCode, Header: headers}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	if !ratelimit.IsRateLimitResponse(resp) {
		return false, 0
	}
	return true, ratelimit.RetryAfterHint(resp)
}
