package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/ibeckermayer/fridgeverify/internal/config"
)

// Session is one launched browser process with a single tab. It is owned by
// exactly one caller and released once; a closed session must not be reused.
type Session struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	once        sync.Once
}

// NewSession launches the browser and opens its first tab. logf receives
// chromedp's own diagnostics and may be nil.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logf func(string, ...any)) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, Options(cfg)...)

	var ctxOpts []chromedp.ContextOption
	if logf != nil {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(logf), chromedp.WithErrorf(logf))
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	// First Run on a fresh context starts the browser and attaches the tab.
	// When the process never starts, chromedp.Cancel would wait on an
	// allocation that is never released, so only the plain cancels run here.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Session{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}, nil
}

// Context returns the tab context all page actions run against.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		// Graceful close first so the browser process exits cleanly
		_ = chromedp.Cancel(s.ctx)
		s.tabCancel()
		s.allocCancel()
	})
}
