// Package browser provides shared chromedp configuration and the scoped browser session.
package browser

import (
	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/fridgeverify/internal/config"
)

// Options returns chromedp allocator options for the given browser config.
// All sessions should use this to ensure a consistent browser setup.
func Options(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),

		// Keep navigator.webdriver out of the page
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight))
	}

	if cfg.Headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	}

	// Containers and CI runners usually need these
	if cfg.NoSandbox {
		opts = append(opts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	return opts
}
