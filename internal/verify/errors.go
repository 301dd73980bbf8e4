package verify

import (
	"errors"
	"fmt"
)

// Kind classifies why a verification run failed.
type Kind string

const (
	KindSession    Kind = "session"
	KindNavigation Kind = "navigation"
	KindElement    Kind = "element"
	KindDialog     Kind = "dialog"
	KindScreenshot Kind = "screenshot"
)

var (
	ErrSession    = errors.New("browser session failed")
	ErrNavigation = errors.New("navigation failed")
	ErrElement    = errors.New("element lookup failed")
	ErrDialog     = errors.New("expected dialog did not appear")
	ErrScreenshot = errors.New("screenshot failed")
)

var kindSentinels = map[Kind]error{
	KindSession:    ErrSession,
	KindNavigation: ErrNavigation,
	KindElement:    ErrElement,
	KindDialog:     ErrDialog,
	KindScreenshot: ErrScreenshot,
}

// StepError is returned by Run when one step of the scenario fails.
type StepError struct {
	Kind Kind
	Step string
	Err  error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Step, kindSentinels[e.Kind])
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind, so errors.Is(err, ErrElement) works.
func (e *StepError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func stepErr(kind Kind, step string, err error) *StepError {
	return &StepError{Kind: kind, Step: step, Err: err}
}

// KindOf returns the failure kind of err, or "" when err is nil or untyped.
func KindOf(err error) Kind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
