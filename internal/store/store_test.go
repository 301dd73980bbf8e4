package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, started time.Time, outcome string) *Run {
	return &Run{
		ID:              id,
		StartedAt:       started,
		FinishedAt:      started.Add(3 * time.Second),
		URL:             "http://localhost:5173/test-fridge-list",
		Outcome:         outcome,
		ScreenshotPath:  "verification/duplicate_warning_correct.png",
		ScreenshotBytes: 2048,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	run := sampleRun("run-1", started, OutcomePassed)
	require.NoError(t, s.SaveRun(run, []string{"이미 존재하는 이름입니다. 다른 이름을 입력해주세요."}))
	assert.Equal(t, 1, run.DialogCount)

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	assert.True(t, got.Passed())
	assert.True(t, got.StartedAt.Equal(started))
	assert.True(t, got.FinishedAt.Equal(started.Add(3*time.Second)))
	assert.Equal(t, run.URL, got.URL)
	assert.Equal(t, 2048, got.ScreenshotBytes)
	assert.Equal(t, 1, got.DialogCount)
	assert.Empty(t, got.FailureKind)

	msgs, err := s.Dialogs("run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"이미 존재하는 이름입니다. 다른 이름을 입력해주세요."}, msgs)
}

func TestSaveRunUpsertReplacesDialogs(t *testing.T) {
	s := newTestStore(t)
	run := sampleRun("run-1", time.Now(), OutcomePassed)
	require.NoError(t, s.SaveRun(run, []string{"a", "b"}))

	run.Outcome = OutcomeFailed
	run.FailureKind = "dialog"
	run.Error = "wait for duplicate warning: expected dialog did not appear"
	require.NoError(t, s.SaveRun(run, nil))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	assert.False(t, got.Passed())
	assert.Equal(t, "dialog", got.FailureKind)
	assert.Equal(t, 0, got.DialogCount)

	msgs, err := s.Dialogs("run-1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRun(sampleRun(id, base.Add(time.Duration(i)*time.Minute), OutcomePassed), nil))
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	last, err := s.LastRun()
	require.NoError(t, err)
	assert.Equal(t, "c", last.ID)
}

func TestMissingRun(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LastRun()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(sampleRun("persisted", time.Now(), OutcomePassed), nil))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetRun("persisted")
	assert.NoError(t, err)
}
