package browser

import (
	"context"
	"testing"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/internal/config"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	cfg := config.NewDefaultBrowserConfig()
	cfg.PoolSize = 2
	return NewRenderer(cfg, nil, zerolog.Nop())
}

func TestStopBeforeStartIsNoOp(t *testing.T) {
	r := newTestRenderer(t)

	assert.NotPanics(t, func() {
		r.Stop()
		r.Stop()
	})
	assert.False(t, r.IsEnabled())
}

func TestReturnBrowserAfterStopDoesNotPanic(t *testing.T) {
	r := newTestRenderer(t)
	r.isRunning = true

	// Simulate a render in flight across shutdown: the browser is
	// checked out, Stop drains the pool, then the render returns it.
	checkedOut := rod.New()
	r.Stop()

	assert.NotPanics(t, func() {
		r.returnBrowser(checkedOut)
	})
	assert.Empty(t, r.browserPool)
}

func TestReturnBrowserWhileRunningRefillsPool(t *testing.T) {
	r := newTestRenderer(t)
	r.isRunning = true

	browser := rod.New()
	r.returnBrowser(browser)
	assert.Len(t, r.browserPool, 1)

	got, err := r.getBrowser()
	require.NoError(t, err)
	assert.Same(t, browser, got)
}

func TestReturnNilBrowserIsIgnored(t *testing.T) {
	r := newTestRenderer(t)
	r.isRunning = true

	assert.NotPanics(t, func() {
		r.returnBrowser(nil)
	})
	assert.Empty(t, r.browserPool)
}

func TestRenderPageRejectedWhenDisabled(t *testing.T) {
	cfg := config.NewDefaultBrowserConfig()
	cfg.Enabled = false
	r := NewRenderer(cfg, nil, zerolog.Nop())

	_, err := r.RenderPage(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running or disabled")
}

func TestStartWhenDisabledDoesNotRun(t *testing.T) {
	cfg := config.NewDefaultBrowserConfig()
	cfg.Enabled = false
	r := NewRenderer(cfg, nil, zerolog.Nop())

	require.NoError(t, r.Start())
	assert.False(t, r.IsEnabled())
}
