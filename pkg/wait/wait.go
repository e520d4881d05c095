package wait

import (
	"errors"
	"fmt"
	"time"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/finder"
	"github.com/ajramos/tuirobot/pkg/hierarchy"
)

// Defaults applied when neither the waiter nor the call sets a value.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
	MinPollInterval     = 10 * time.Millisecond
)

// Search describes one finished wait, for observers such as the journal.
type Search struct {
	Description string
	Timeout     time.Duration
	Elapsed     time.Duration
	Found       int
	Err         error
}

// Waiter polls a finder until a lookup succeeds.
type Waiter struct {
	finder    *finder.Finder
	timeout   time.Duration
	poll      time.Duration
	observers []func(Search)
	sleep     func(time.Duration)
}

// Option configures a Waiter or a single wait call.
type Option func(*settings)

type settings struct {
	timeout   time.Duration
	poll      time.Duration
	observers []func(Search)
}

// WithTimeout overrides the timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithPollInterval overrides the poll interval. Zero keeps the default.
func WithPollInterval(d time.Duration) Option {
	return func(s *settings) { s.poll = d }
}

// WithObserver reports every finished wait to fn.
func WithObserver(fn func(Search)) Option {
	return func(s *settings) { s.observers = append(s.observers, fn) }
}

// New returns a waiter searching with f. Invalid durations in opts fall
// back to the defaults.
func New(f *finder.Finder, opts ...Option) *Waiter {
	s := settings{}
	for _, o := range opts {
		o(&s)
	}
	w := &Waiter{
		finder:    f,
		timeout:   DefaultTimeout,
		poll:      DefaultPollInterval,
		observers: s.observers,
		sleep:     time.Sleep,
	}
	if s.timeout > 0 {
		w.timeout = s.timeout
	}
	if s.poll > 0 {
		w.poll = max(s.poll, MinPollInterval)
	}
	return w
}

// Timeout returns the default timeout of w.
func (w *Waiter) Timeout() time.Duration { return w.timeout }

// PollInterval returns the default poll interval of w.
func (w *Waiter) PollInterval() time.Duration { return w.poll }

func (w *Waiter) resolve(opts []Option) (settings, error) {
	s := settings{}
	for _, o := range opts {
		o(&s)
	}
	switch {
	case s.timeout < 0:
		return s, fmt.Errorf("wait: negative timeout: %v", s.timeout)
	case s.timeout == 0:
		s.timeout = w.timeout
	}
	switch {
	case s.poll < 0:
		return s, fmt.Errorf("wait: negative poll interval: %v", s.poll)
	case s.poll == 0:
		s.poll = w.poll
	default:
		s.poll = max(s.poll, MinPollInterval)
	}
	s.observers = append(append([]func(Search){}, w.observers...), s.observers...)
	return s, nil
}

// FindWithTimeout waits up to timeout for m to match exactly one component
// of h. A zero timeout uses the waiter default. Several matches fail at once
// with *finder.LookupError; no match before the deadline fails with
// *TimeoutError.
func (w *Waiter) FindWithTimeout(h hierarchy.Hierarchy, m finder.Matcher, timeout time.Duration, opts ...Option) (component.Component, error) {
	found, err := w.findAll(h, m, append([]Option{WithTimeout(timeout)}, opts...))
	if err != nil {
		return nil, err
	}
	if len(found) > 1 {
		return nil, w.finder.LookupError(h, m, found)
	}
	return found[0], nil
}

// FindAllWithTimeout waits until m matches at least one component of h and
// returns every match.
func (w *Waiter) FindAllWithTimeout(h hierarchy.Hierarchy, m finder.Matcher, timeout time.Duration, opts ...Option) ([]component.Component, error) {
	return w.findAll(h, m, append([]Option{WithTimeout(timeout)}, opts...))
}

func (w *Waiter) findAll(h hierarchy.Hierarchy, m finder.Matcher, opts []Option) ([]component.Component, error) {
	var found []component.Component
	err := w.until(m.String(), func() (bool, error) {
		var err error
		found, err = w.finder.Find(h, m)
		return len(found) > 0, err
	}, opts, func() int { return len(found) })
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Until polls cond on the calling goroutine until it reports true, returns
// an error, or the timeout passes. desc names the condition in failures.
// Every wait fails with ErrOnUIThread when started on the UI goroutine.
func (w *Waiter) Until(desc string, cond func() (bool, error), opts ...Option) error {
	return w.until(desc, cond, opts, nil)
}

func (w *Waiter) until(desc string, cond func() (bool, error), opts []Option, count func() int) error {
	s, err := w.resolve(opts)
	if err != nil {
		return err
	}
	if w.onUIThread() {
		return fmt.Errorf("waiting for %s: %w", desc, ErrOnUIThread)
	}

	start := time.Now()
	deadline := start.Add(s.timeout)
	report := func(err error) error {
		search := Search{Description: desc, Timeout: s.timeout, Elapsed: time.Since(start), Err: err}
		if count != nil && err == nil {
			search.Found = count()
		}
		for _, fn := range s.observers {
			fn(search)
		}
		return err
	}

	for {
		ok, err := cond()
		if err != nil {
			return report(fmt.Errorf("waiting for %s: %w", desc, err))
		}
		if ok {
			return report(nil)
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return report(&TimeoutError{Description: desc, Timeout: s.timeout, Elapsed: time.Since(start)})
		}
		w.sleep(min(s.poll, remaining))
	}
}

func (w *Waiter) onUIThread() bool {
	return w.finder != nil && w.finder.Executor() != nil && w.finder.Executor().IsUIThread()
}

// IsTimeout reports whether err is a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
