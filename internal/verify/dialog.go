package verify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// dialogRecorder collects the messages of native dialogs seen on a page.
type dialogRecorder struct {
	mu       sync.Mutex
	messages []string
	handled  chan struct{}
	once     sync.Once
}

func newDialogRecorder() *dialogRecorder {
	return &dialogRecorder{handled: make(chan struct{})}
}

func (r *dialogRecorder) opened(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *dialogRecorder) markHandled() {
	r.once.Do(func() { close(r.handled) })
}

// Count returns how many dialogs have opened so far.
func (r *dialogRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// Messages returns a copy of the recorded messages in arrival order.
func (r *dialogRecorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// waitHandled blocks until the first dialog was dismissed or ctx ends, and
// reports whether that happened.
func (r *dialogRecorder) waitHandled(ctx context.Context) bool {
	select {
	case <-r.handled:
		return true
	case <-ctx.Done():
		return false
	}
}

// listenDialogs accepts every JavaScript dialog opened in the tab for as long
// as ctx lives. Listeners run on chromedp's event goroutine, so the accept is
// sent from a separate goroutine.
func listenDialogs(ctx context.Context, rec *dialogRecorder, logger *slog.Logger) {
	chromedp.ListenTarget(ctx, func(ev any) {
		e, ok := ev.(*page.EventJavascriptDialogOpening)
		if !ok {
			return
		}

		logger.Info("[verify] Alert message", "type", string(e.Type), "message", e.Message)
		rec.opened(e.Message)

		go func() {
			if err := chromedp.Run(ctx, page.HandleJavaScriptDialog(true)); err != nil {
				logger.Warn("[verify] Failed to accept dialog", "error", err)
				return
			}
			rec.markHandled()
		}()
	})
}
