package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/resources"
)

// challengeSignatures identify bot-challenge interstitials by title or
// body wording. The renderer polls until they disappear or the budget
// runs out.
var challengeSignatures = []string{
	"just a moment",
	"attention required",
	"checking your browser",
	"verifying you are human",
	"verify you are human",
	"enable javascript and cookies",
	"ddos protection by",
}

// Renderer manages a pool of headless browser instances used as the
// fetcher's last transport resort.
type Renderer struct {
	cfg         config.BrowserConfig
	guard       *resources.Guard
	logger      zerolog.Logger
	browserPool chan *rod.Browser
	launcher    *launcher.Launcher
	mutex       sync.Mutex
	isRunning   bool
}

// NewRenderer creates a headless browser renderer.
func NewRenderer(cfg config.BrowserConfig, guard *resources.Guard, logger zerolog.Logger) *Renderer {
	return &Renderer{
		cfg:         cfg,
		guard:       guard,
		logger:      logger.With().Str("component", "BrowserRenderer").Logger(),
		browserPool: make(chan *rod.Browser, cfg.PoolSize),
	}
}

// IsEnabled reports whether the renderer is configured and started.
func (r *Renderer) IsEnabled() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.cfg.Enabled && r.isRunning
}

// Start launches the browser and fills the pool.
func (r *Renderer) Start() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.isRunning {
		return nil
	}
	if !r.cfg.Enabled {
		r.logger.Info().Msg("Headless browser is disabled in config")
		return nil
	}

	l := launcher.New()
	if r.cfg.ChromePath != "" {
		l = l.Bin(r.cfg.ChromePath)
	}
	if r.cfg.UserDataDir != "" {
		l = l.UserDataDir(r.cfg.UserDataDir)
	}

	l = l.
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	if r.cfg.DisableImages {
		l = l.Set("blink-settings", "imagesEnabled=false")
	}

	launcherURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	r.launcher = l

	for i := 0; i < r.cfg.PoolSize; i++ {
		browser := rod.New().ControlURL(launcherURL)
		if err := browser.Connect(); err != nil {
			r.logger.Error().Err(err).Int("browser_index", i).Msg("Failed to connect browser")
			continue
		}
		r.browserPool <- browser
	}

	r.isRunning = true
	r.logger.Info().Int("pool_size", r.cfg.PoolSize).Msg("Headless browser renderer started")
	return nil
}

// Stop closes all browser instances and the launcher.
func (r *Renderer) Stop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isRunning {
		return
	}

	// Drain instead of closing: an in-flight render may still try to
	// return its browser, and a send on a closed channel panics.
	for drained := false; !drained; {
		select {
		case browser := <-r.browserPool:
			if browser != nil {
				_ = browser.Close()
			}
		default:
			drained = true
		}
	}

	if r.launcher != nil {
		r.launcher.Cleanup()
	}

	r.isRunning = false
	r.logger.Info().Msg("Headless browser renderer stopped")
}

func (r *Renderer) getBrowser() (*rod.Browser, error) {
	select {
	case browser := <-r.browserPool:
		return browser, nil
	case <-time.After(10 * time.Second):
		return nil, fmt.Errorf("timeout waiting for browser from pool")
	}
}

func (r *Renderer) returnBrowser(browser *rod.Browser) {
	if browser == nil {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// After Stop the launcher cleanup tears the process down; dropping
	// the handle is enough.
	if !r.isRunning {
		return
	}
	select {
	case r.browserPool <- browser:
	default:
		_ = browser.Close()
	}
}

// RenderPage loads the page with full JS rendering, waits out a detected
// bot-challenge interstitial, and returns the final HTML.
func (r *Renderer) RenderPage(ctx context.Context, url string) (string, error) {
	if !r.IsEnabled() {
		return "", fmt.Errorf("headless browser renderer not running or disabled")
	}
	if r.guard != nil {
		if err := r.guard.CheckSystemPressure(); err != nil {
			return "", fmt.Errorf("refusing browser render: %w", err)
		}
	}

	browser, err := r.getBrowser()
	if err != nil {
		return "", fmt.Errorf("failed to get browser: %w", err)
	}
	defer r.returnBrowser(browser)

	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.PageLoadTimeoutSecs)*time.Second)
	defer cancel()

	page, err := browser.Context(timeoutCtx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  r.cfg.WindowWidth,
		Height: r.cfg.WindowHeight,
	}); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to set viewport")
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("page load timeout for %s: %w", url, err)
	}

	if r.cfg.WaitAfterLoadMs > 0 {
		time.Sleep(time.Duration(r.cfg.WaitAfterLoadMs) * time.Millisecond)
	}

	if err := r.waitOutChallenge(ctx, page); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML for %s: %w", url, err)
	}
	return html, nil
}

// waitOutChallenge polls the page's title and body text for challenge
// signatures, returning once they clear or failing after the budget.
func (r *Renderer) waitOutChallenge(ctx context.Context, page *rod.Page) error {
	deadline := time.Now().Add(time.Duration(r.cfg.ChallengeWaitSecs) * time.Second)

	for {
		if !r.looksLikeChallenge(page) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("bot challenge page did not clear within %ds", r.cfg.ChallengeWaitSecs)
		}

		r.logger.Debug().Msg("Bot challenge detected, polling for clearance")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func (r *Renderer) looksLikeChallenge(page *rod.Page) bool {
	sample := ""
	if info, err := page.Info(); err == nil {
		sample = info.Title
	}
	if body, err := page.Element("body"); err == nil {
		if text, err := body.Text(); err == nil {
			if len(text) > 400 {
				text = text[:400]
			}
			sample += " " + text
		}
	}

	sample = strings.ToLower(sample)
	for _, signature := range challengeSignatures {
		if strings.Contains(sample, signature) {
			return true
		}
	}
	return false
}
