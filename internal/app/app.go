package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ibeckermayer/fridgeverify/internal/config"
	"github.com/ibeckermayer/fridgeverify/internal/store"
	"github.com/ibeckermayer/fridgeverify/internal/verify"
)

// App holds the application state.
type App struct {
	mu      sync.RWMutex
	logger  *slog.Logger // immutable after creation
	history *store.Store // nil when history is disabled

	// Mutable fields - use getSnapshot() for concurrent access.
	config *config.Config
	runner *verify.Runner
}

// snapshot holds fields that may be replaced by ReloadConfig.
// Use getSnapshot() to obtain a consistent, point-in-time copy.
type snapshot struct {
	config *config.Config
	runner *verify.Runner
}

// getSnapshot returns a snapshot of mutable fields under read lock.
func (a *App) getSnapshot() snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return snapshot{
		config: a.config,
		runner: a.runner,
	}
}

// New creates a new App instance. history may be nil.
func New(cfg *config.Config, history *store.Store, logger *slog.Logger) *App {
	return &App{
		config:  cfg,
		runner:  verify.New(cfg, logger),
		history: history,
		logger:  logger,
	}
}

// OpenHistory opens the run history configured in cfg, or returns nil when
// history is disabled.
func OpenHistory(cfg *config.Config) (*store.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}
	return s, nil
}

// Config returns the current configuration.
func (a *App) Config() *config.Config {
	return a.getSnapshot().config
}

// RunOnce performs one verification run and records it in the history.
// The report is returned even when the run fails.
func (a *App) RunOnce(ctx context.Context) (*verify.Report, error) {
	s := a.getSnapshot()

	rep, err := s.runner.Run(ctx)
	if err != nil {
		a.logger.Error("[app] Verification failed",
			"run", rep.ID, "kind", string(rep.Kind), "error", err, "elapsed", rep.Duration())
	} else {
		a.logger.Info("[app] Verification passed",
			"run", rep.ID, "screenshot", rep.ScreenshotPath, "dialogs", len(rep.Dialogs), "elapsed", rep.Duration())
	}

	if a.history != nil {
		// A history write failure never changes the run's outcome
		if herr := a.history.SaveRun(RunRecord(rep), rep.Dialogs); herr != nil {
			a.logger.Warn("[app] Failed to record run", "run", rep.ID, "error", herr)
		}
	}

	return rep, err
}

// RunRecord converts a report into its persisted form.
func RunRecord(rep *verify.Report) *store.Run {
	r := &store.Run{
		ID:              rep.ID,
		StartedAt:       rep.StartedAt,
		FinishedAt:      rep.FinishedAt,
		URL:             rep.URL,
		Outcome:         store.OutcomePassed,
		ScreenshotPath:  rep.ScreenshotPath,
		ScreenshotBytes: rep.ScreenshotBytes,
		DialogCount:     len(rep.Dialogs),
	}
	if rep.Err != nil {
		r.Outcome = store.OutcomeFailed
		r.FailureKind = string(rep.Kind)
		r.Error = rep.Err.Error()
	}
	return r
}

// History returns the run history, or nil when disabled.
func (a *App) History() *store.Store {
	return a.history
}

// ReloadConfig reloads the configuration from path.
func (a *App) ReloadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	a.config = cfg
	a.runner = verify.New(cfg, a.logger)
	a.mu.Unlock()

	a.logger.Info("[app] Configuration reloaded", "path", path)
	return nil
}

// Close releases the history database.
func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}
