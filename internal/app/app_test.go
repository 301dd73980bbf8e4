package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeckermayer/fridgeverify/internal/config"
	"github.com/ibeckermayer/fridgeverify/internal/logging"
	"github.com/ibeckermayer/fridgeverify/internal/store"
	"github.com/ibeckermayer/fridgeverify/internal/verify"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Browser.ExecPath = filepath.Join(dir, "no-such-chrome")
	cfg.Artifact.ScreenshotPath = filepath.Join(dir, "shot.png")
	cfg.History.DBPath = filepath.Join(dir, "history.db")
	cfg.Timeouts.Run = config.D(3 * time.Second)
	return cfg
}

// runOnceWithin fails the test if RunOnce has not returned after limit.
func runOnceWithin(t *testing.T, a *App, limit time.Duration) (*verify.Report, error) {
	t.Helper()
	type result struct {
		rep *verify.Report
		err error
	}
	done := make(chan result, 1)
	go func() {
		rep, err := a.RunOnce(context.Background())
		done <- result{rep, err}
	}()

	select {
	case res := <-done:
		return res.rep, res.err
	case <-time.After(limit):
		t.Fatalf("RunOnce still blocked after %s", limit)
		return nil, nil
	}
}

func TestRunRecordPassed(t *testing.T) {
	start := time.Now()
	rep := &verify.Report{
		ID:              "r1",
		URL:             "http://localhost:5173/test-fridge-list",
		StartedAt:       start,
		FinishedAt:      start.Add(2 * time.Second),
		Dialogs:         []string{"dup"},
		ScreenshotPath:  "verification/duplicate_warning_correct.png",
		ScreenshotBytes: 100,
	}

	r := RunRecord(rep)
	assert.Equal(t, store.OutcomePassed, r.Outcome)
	assert.Equal(t, 1, r.DialogCount)
	assert.Empty(t, r.Error)
	assert.Equal(t, 100, r.ScreenshotBytes)
}

func TestRunRecordFailed(t *testing.T) {
	rep := &verify.Report{
		ID:   "r2",
		Kind: verify.KindNavigation,
		Err:  errors.New("navigate: failed to load"),
	}

	r := RunRecord(rep)
	assert.Equal(t, store.OutcomeFailed, r.Outcome)
	assert.Equal(t, "navigation", r.FailureKind)
	assert.Equal(t, "navigate: failed to load", r.Error)
}

func TestOpenHistoryDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Enabled = false

	h, err := OpenHistory(cfg)
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestRunOnceRecordsFailure(t *testing.T) {
	cfg := testConfig(t)
	h, err := OpenHistory(cfg)
	require.NoError(t, err)

	a := New(cfg, h, logging.Discard())
	defer a.Close()

	rep, err := runOnceWithin(t, a, 15*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, verify.ErrSession)

	got, err := a.History().GetRun(rep.ID)
	require.NoError(t, err)
	assert.False(t, got.Passed())
	assert.Equal(t, "session", got.FailureKind)
	assert.NotEmpty(t, got.Error)
}

func TestRunOnceWithoutHistory(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, nil, logging.Discard())

	_, err := runOnceWithin(t, a, 15*time.Second)
	assert.Error(t, err)
	assert.NoError(t, a.Close())
}

func TestRunOnceLogsWithComponentPrefixes(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	a := New(cfg, nil, logging.New(&buf, slog.LevelInfo))

	_, err := runOnceWithin(t, a, 15*time.Second)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "[verify] Starting verification")
	assert.Contains(t, out, "[app] Verification failed")
}

func TestReloadConfig(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, nil, logging.Discard())

	path := filepath.Join(t.TempDir(), "config.toml")
	next := config.Default()
	next.Scenario.DuplicateName = "Freezer"
	require.NoError(t, next.Save(path))

	require.NoError(t, a.ReloadConfig(path))
	assert.Equal(t, "Freezer", a.Config().Scenario.DuplicateName)

	bad := config.Default()
	bad.Scenario.SubmitLabel = ""
	require.NoError(t, bad.Save(path))
	assert.Error(t, a.ReloadConfig(path))
	assert.Equal(t, "Freezer", a.Config().Scenario.DuplicateName)

	require.NoError(t, os.Remove(path))
	assert.Error(t, a.ReloadConfig(path))
}
