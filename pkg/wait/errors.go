package wait

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is matched by every *TimeoutError.
var ErrTimeout = errors.New("timed out")

// ErrOnUIThread is returned by waits started on the UI goroutine.
var ErrOnUIThread = errors.New("wait called on the UI goroutine")

// TimeoutError reports a wait whose deadline passed before it was satisfied.
type TimeoutError struct {
	Description string
	Timeout     time.Duration
	Elapsed     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %s (elapsed %v)", e.Timeout, e.Description, e.Elapsed.Round(time.Millisecond))
}

// Unwrap returns ErrTimeout.
func (e *TimeoutError) Unwrap() error { return ErrTimeout }
