package verify

import (
	"context"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// lifecycleNetworkIdle is the CDP lifecycle event fired once a document has
// had no network connections for 500ms.
const lifecycleNetworkIdle = "networkIdle"

// idleWatcher remembers which loaders (documents) reached network idle.
// Events are recorded even if they arrive before anyone waits for them.
type idleWatcher struct {
	mu      sync.Mutex
	idle    map[cdp.LoaderID]bool
	changed chan struct{}
}

func newIdleWatcher() *idleWatcher {
	return &idleWatcher{
		idle:    make(map[cdp.LoaderID]bool),
		changed: make(chan struct{}),
	}
}

func (w *idleWatcher) observe(e *page.EventLifecycleEvent) {
	if e.Name != lifecycleNetworkIdle {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.idle[e.LoaderID] {
		return
	}
	w.idle[e.LoaderID] = true
	close(w.changed)
	w.changed = make(chan struct{})
}

// wait blocks until loaderID reached network idle or ctx ends.
func (w *idleWatcher) wait(ctx context.Context, loaderID cdp.LoaderID) error {
	for {
		w.mu.Lock()
		done := w.idle[loaderID]
		changed := w.changed
		w.mu.Unlock()

		if done {
			return nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *idleWatcher) listen(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok {
			w.observe(e)
		}
	})
}
