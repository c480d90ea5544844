// Package cargr drives a headless browser session against a fixed car.gr
// listing-search page and returns the rendered listing cards as raw text
// blocks. All parsing of those blocks happens downstream in services.
package cargr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"bike-deal-monitor/config"
	"bike-deal-monitor/utils"
)

// Session owns one long-lived browser allocator pointed at the listing feed.
type Session struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig

	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancelBrow  context.CancelFunc

	closeOnce sync.Once
}

// New starts the browser allocator. The session stays open across polling
// cycles; call Close exactly once at shutdown.
func New(cfg *config.Config, logger *utils.Logger) *Session {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[cargr] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	if cfg.BrowserUserData != "" {
		if _, err := os.Stat(cfg.BrowserUserData); err == nil {
			opts = append(opts, chromedp.UserDataDir(cfg.BrowserUserData))
			logger.Info("[cargr] Using persisted browser profile: %s", cfg.BrowserUserData)
		} else {
			logger.Warn("[cargr] Browser profile %s not found — using a fresh profile", cfg.BrowserUserData)
		}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	browserCtx, cancelBrow := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Session{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancelBrow:  cancelBrow,
	}
}

// FetchListings loads the search page and returns the text of every listing
// element on it, in page order.
func (s *Session) FetchListings(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blocks []string
	err := s.retry.Do("fetch-listings", func() error {
		tabCtx, cancel := chromedp.NewContext(s.browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		var texts []string
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(s.cfg.FetchURL),
			chromedp.Sleep(3*time.Second),

			// Listing cards render as li elements; grab the visible text of
			// each so downstream parsing never depends on the DOM structure.
			chromedp.Evaluate(`
				(function() {
					var out = [];
					var items = document.querySelectorAll('li');
					for (var i = 0; i < items.length; i++) {
						var text = items[i].innerText || '';
						if (text.trim() !== '') {
							out.push(text);
						}
					}
					return out;
				})()
			`, &texts),
		)
		if err != nil {
			return fmt.Errorf("chromedp fetch: %w", err)
		}

		blocks = texts
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("[cargr] Fetched %d listing blocks", len(blocks))
	return blocks, nil
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelBrow()
		s.cancelAlloc()
		s.logger.Info("[cargr] Browser session closed")
	})
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
