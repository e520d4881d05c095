package uithread

import (
	"runtime/debug"
	"sync/atomic"

	"github.com/ajramos/tuirobot/internal/goid"
)

// goroutineReporter is implemented by dispatchers that know their UI
// goroutine up front, such as Loop.
type goroutineReporter interface {
	Goroutine() int64
}

// Executor runs work on the UI goroutine behind a Dispatcher and waits for it.
type Executor struct {
	d  Dispatcher
	ui atomic.Int64
}

// NewExecutor wraps d.
func NewExecutor(d Dispatcher) *Executor {
	e := &Executor{d: d}
	if r, ok := d.(goroutineReporter); ok {
		e.ui.Store(r.Goroutine())
	}
	return e
}

// IsUIThread reports whether the caller runs on the UI goroutine. Until the
// executor has run at least one task (see Prime) it only knows the goroutine
// of dispatchers that report it.
func (e *Executor) IsUIThread() bool {
	id := e.ui.Load()
	return id != 0 && id == goid.Current()
}

// Prime posts a no-op so the executor learns the UI goroutine as soon as the
// toolkit's loop starts.
func (e *Executor) Prime() error {
	return e.Post(func() {})
}

// Post schedules fn on the UI goroutine without waiting. Panics in fn are not
// recovered.
func (e *Executor) Post(fn func()) error {
	return e.d.Post(func() {
		e.ui.Store(goid.Current())
		fn()
	})
}

// Run executes fn on the UI goroutine and blocks until it returns. Errors and
// panics from fn come back as *MarshalError.
func (e *Executor) Run(fn func() error) error {
	if e.IsUIThread() {
		return capture(fn)
	}
	done := make(chan error, 1)
	err := e.Post(func() {
		done <- capture(fn)
	})
	if err != nil {
		return &MarshalError{Cause: err}
	}
	return <-done
}

// Query executes fn on the UI goroutine of e and returns its result.
func Query[T any](e *Executor, fn func() (T, error)) (T, error) {
	var out T
	err := e.Run(func() error {
		v, err := fn()
		out = v
		return err
	})
	return out, err
}

// Must is Query for work that cannot fail; a failure panics on the caller.
func Must[T any](e *Executor, fn func() T) T {
	v, err := Query(e, func() (T, error) { return fn(), nil })
	if err != nil {
		panic(err)
	}
	return v
}

func capture(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &MarshalError{Cause: panicError(r), Panicked: true, Stack: debug.Stack()}
		}
	}()
	ferr := fn()
	if ferr == nil {
		return nil
	}
	if me, ok := ferr.(*MarshalError); ok {
		return me
	}
	return &MarshalError{Cause: ferr}
}
