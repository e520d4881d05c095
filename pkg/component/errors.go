package component

import (
	"errors"
	"fmt"
)

var (
	ErrNotShowing  = errors.New("component is not showing")
	ErrNotEnabled  = errors.New("component is not enabled")
	ErrUnsupported = errors.New("action not supported by component")
)

// ActionError reports that a requested UI action could not be performed.
type ActionError struct {
	// Action names the attempted action, e.g. "click" or "iconify".
	Action string

	// Target describes the component the action was aimed at.
	Target string

	// Precondition is the violated precondition.
	Precondition error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Action, e.Target, e.Precondition)
}

func (e *ActionError) Unwrap() error { return e.Precondition }

// NewActionError builds an ActionError describing c through in.
func NewActionError(in Inspector, action string, c Component, precondition error) *ActionError {
	return &ActionError{Action: action, Target: Describe(in, c), Precondition: precondition}
}

// RequireShowingAndEnabled returns an ActionError when c cannot receive input.
func RequireShowingAndEnabled(in Inspector, action string, c Component) error {
	if !in.IsShowing(c) {
		return NewActionError(in, action, c, ErrNotShowing)
	}
	if !in.IsEnabled(c) {
		return NewActionError(in, action, c, ErrNotEnabled)
	}
	return nil
}
