package uithread

import (
	"errors"
	"fmt"
)

// ErrStopped is returned when work is posted to a dispatcher that no longer runs.
var ErrStopped = errors.New("ui dispatcher stopped")

// MarshalError reports that work executed on the UI goroutine failed.
type MarshalError struct {
	// Cause is the error returned by the work, or the recovered panic value
	// converted to an error.
	Cause error

	// Panicked is true when the work panicked instead of returning an error.
	Panicked bool

	// Stack holds the UI goroutine stack captured at the panic site.
	Stack []byte
}

func (e *MarshalError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("ui thread: panic: %v", e.Cause)
	}
	return fmt.Sprintf("ui thread: %v", e.Cause)
}

func (e *MarshalError) Unwrap() error { return e.Cause }

// IsMarshalError reports whether err carries a MarshalError.
func IsMarshalError(err error) bool {
	var me *MarshalError
	return errors.As(err, &me)
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
