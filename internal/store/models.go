package store

import "time"

// Outcome values stored for a run
const (
	OutcomePassed = "passed"
	OutcomeFailed = "failed"
)

// Run is one recorded verification run
type Run struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	URL             string    `json:"url"`
	Outcome         string    `json:"outcome"`
	FailureKind     string    `json:"failure_kind,omitempty"`
	Error           string    `json:"error,omitempty"`
	ScreenshotPath  string    `json:"screenshot_path"`
	ScreenshotBytes int       `json:"screenshot_bytes"`
	DialogCount     int       `json:"dialog_count"`
}

// Passed reports whether the run succeeded
func (r *Run) Passed() bool {
	return r.Outcome == OutcomePassed
}
