// Package verify reproduces the duplicate fridge name scenario in a headless
// browser and leaves a screenshot behind as evidence.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/ibeckermayer/fridgeverify/internal/browser"
	"github.com/ibeckermayer/fridgeverify/internal/config"
)

// Runner executes the verification scenario
type Runner struct {
	cfg    config.Config
	logger *slog.Logger
}

// New creates a runner for cfg. The config is copied.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: *cfg, logger: logger}
}

// Run launches a browser, replays the scenario and writes the screenshot.
// The browser is always shut down before Run returns. On failure the
// returned error is a *StepError and the partial report is still returned.
func (r *Runner) Run(ctx context.Context) (rep *Report, err error) {
	rep = &Report{
		ID:             uuid.NewString(),
		URL:            r.cfg.TargetURL(),
		StartedAt:      time.Now(),
		ScreenshotPath: r.cfg.Artifact.ScreenshotPath,
	}
	defer func() {
		rep.FinishedAt = time.Now()
		rep.Err = err
		rep.Kind = KindOf(err)
	}()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeouts.Run.Duration)
	defer cancel()

	r.logger.Info("[verify] Starting verification", "run", rep.ID, "url", rep.URL)

	sess, err := browser.NewSession(ctx, r.cfg.Browser, r.chromeLogf)
	if err != nil {
		return rep, stepErr(KindSession, "launch browser", err)
	}
	defer func() {
		sess.Close()
		r.logger.Debug("[verify] Browser session released", "run", rep.ID)
	}()

	tab := sess.Context()
	dialogs := newDialogRecorder()
	defer func() { rep.Dialogs = dialogs.Messages() }()

	if err := r.navigate(tab, rep.URL); err != nil {
		return rep, err
	}

	if err := r.clickText(tab, "open add dialog", r.cfg.Scenario.AddLabel); err != nil {
		return rep, err
	}

	if err := r.fillPlaceholder(tab, r.cfg.Scenario.NamePlaceholder, r.cfg.Scenario.DuplicateName); err != nil {
		return rep, err
	}

	// Must be in place before submit: the duplicate warning is a blocking alert
	listenDialogs(tab, dialogs, r.logger)

	if err := r.clickText(tab, "submit", r.cfg.Scenario.SubmitLabel); err != nil {
		return rep, err
	}

	r.settle(tab, dialogs)

	n, err := r.screenshot(tab)
	if err != nil {
		return rep, err
	}
	rep.ScreenshotBytes = n
	r.logger.Info("[verify] Screenshot saved", "path", rep.ScreenshotPath, "bytes", n)

	if err := r.checkDialogs(dialogs.Messages()); err != nil {
		return rep, stepErr(KindDialog, "wait for duplicate warning", err)
	}

	r.logger.Info("[verify] Verification finished", "run", rep.ID, "dialogs", dialogs.Count())
	return rep, nil
}

// navigate loads url and waits for the document to reach network idle.
func (r *Runner) navigate(tab context.Context, url string) error {
	ctx, cancel := context.WithTimeout(tab, r.cfg.Timeouts.Navigation.Duration)
	defer cancel()

	idle := newIdleWatcher()
	idle.listen(ctx)

	var loaderID cdp.LoaderID
	err := chromedp.Run(ctx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			loaderID = tree.Frame.LoaderID
			return nil
		}),
	)
	if err != nil {
		return stepErr(KindNavigation, "navigate", fmt.Errorf("failed to load %s: %w", url, err))
	}

	if err := idle.wait(ctx, loaderID); err != nil {
		return stepErr(KindNavigation, "wait for network idle",
			fmt.Errorf("%s did not become idle within %s: %w", url, r.cfg.Timeouts.Navigation, err))
	}

	r.logger.Debug("[verify] Page loaded", "url", url, "loader", string(loaderID))
	return nil
}

// clickText clicks the first visible element whose own text contains label.
func (r *Runner) clickText(tab context.Context, step, label string) error {
	ctx, cancel := context.WithTimeout(tab, r.cfg.Timeouts.Action.Duration)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Click(TextXPath(label), chromedp.BySearch)); err != nil {
		return stepErr(KindElement, step, fmt.Errorf("failed to click %q: %w", label, err))
	}

	r.logger.Debug("[verify] Clicked", "step", step, "label", label)
	return nil
}

// fillPlaceholder replaces the value of the input with the given placeholder.
// The text is inserted as user input so framework change handlers fire.
func (r *Runner) fillPlaceholder(tab context.Context, placeholder, value string) error {
	ctx, cancel := context.WithTimeout(tab, r.cfg.Timeouts.Action.Duration)
	defer cancel()

	sel := PlaceholderSelector(placeholder)
	err := chromedp.Run(ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.Focus(sel, chromedp.ByQuery),
		input.InsertText(value),
	)
	if err != nil {
		return stepErr(KindElement, "fill name", fmt.Errorf("failed to fill input %q: %w", placeholder, err))
	}

	r.logger.Debug("[verify] Filled input", "placeholder", placeholder, "value", value)
	return nil
}

// settle gives the page time to react to the submit: it returns as soon as
// a dialog has been dismissed, or after the settle timeout if none appears.
func (r *Runner) settle(tab context.Context, dialogs *dialogRecorder) {
	ctx, cancel := context.WithTimeout(tab, r.cfg.Timeouts.Settle.Duration)
	defer cancel()

	if dialogs.waitHandled(ctx) {
		r.logger.Debug("[verify] Dialog handled")
		return
	}
	r.logger.Debug("[verify] No dialog within settle timeout", "timeout", r.cfg.Timeouts.Settle)
}

func (r *Runner) screenshot(tab context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(tab, r.cfg.Timeouts.Action.Duration)
	defer cancel()

	data, err := captureScreenshot(ctx, r.cfg.Artifact.FullPage)
	if err != nil {
		return 0, stepErr(KindScreenshot, "capture screenshot", err)
	}
	if err := writeScreenshot(r.cfg.Artifact.ScreenshotPath, data); err != nil {
		return 0, stepErr(KindScreenshot, "write screenshot", err)
	}
	return len(data), nil
}

// checkDialogs requires exactly one dialog carrying the expected warning
// when a dialog is expected.
func (r *Runner) checkDialogs(messages []string) error {
	sc := r.cfg.Scenario
	if !sc.ExpectDialog {
		return nil
	}
	switch {
	case len(messages) == 0:
		return fmt.Errorf("%w: no alert after submitting %q", ErrDialog, sc.DuplicateName)
	case len(messages) > 1:
		return fmt.Errorf("%w: %d alerts after submitting %q: %q", ErrDialog, len(messages), sc.DuplicateName, messages)
	case sc.ExpectMessage != "" && !strings.Contains(messages[0], sc.ExpectMessage):
		return fmt.Errorf("%w: alert %q does not contain %q", ErrDialog, messages[0], sc.ExpectMessage)
	}
	return nil
}

func (r *Runner) chromeLogf(format string, args ...any) {
	r.logger.Debug(fmt.Sprintf("[chromedp] "+format, args...))
}
