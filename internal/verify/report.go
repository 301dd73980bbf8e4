package verify

import "time"

// Report describes one verification run. It is returned even when the run
// fails part-way, so callers can see how far it got.
type Report struct {
	ID              string
	URL             string
	StartedAt       time.Time
	FinishedAt      time.Time
	Dialogs         []string // messages of native dialogs, in arrival order
	ScreenshotPath  string
	ScreenshotBytes int // 0 when no screenshot was written
	Kind            Kind
	Err             error
}

// Passed reports whether the run completed without error.
func (r *Report) Passed() bool {
	return r.Err == nil
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
