// Package session wires the lookup core to one toolkit for the duration of a
// test run: lifecycle monitor, hierarchy, finder, waiter, printer and the
// optional journal.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ajramos/tuirobot/internal/journal"
	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/finder"
	"github.com/ajramos/tuirobot/pkg/hierarchy"
	"github.com/ajramos/tuirobot/pkg/monitor"
	"github.com/ajramos/tuirobot/pkg/printer"
	"github.com/ajramos/tuirobot/pkg/uithread"
	"github.com/ajramos/tuirobot/pkg/wait"
)

// Session owns the lookup state built on top of one toolkit.
type Session struct {
	id   string
	name string
	tk   component.Toolkit
	exec *uithread.Executor

	context   *monitor.Context
	windows   *monitor.Windows
	monitor   *monitor.Monitor
	hierarchy *hierarchy.Existing
	filter    *hierarchy.Filter
	finder    *finder.Finder
	waiter    *wait.Waiter
	printer   *printer.Printer

	logger   *log.Logger
	logFile  io.Closer
	store    *journal.Store
	ownStore bool
	recorder *journal.Recorder

	newHierarchy bool
	detach       func()
	closeOnce    sync.Once
	closeErr     error
}

// New starts a session on tk. The monitor is attached before New returns and
// windows already showing are registered as roots; with the new-hierarchy
// option they are filtered out of lookups, and windows that exist but are
// not showing yet are hidden until they open.
func New(tk component.Toolkit, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		id:           uuid.NewString(),
		name:         o.name,
		tk:           tk,
		exec:         tk.Executor(),
		newHierarchy: o.newHierarchy,
	}

	logger, logFile, err := openLogger(o)
	if err != nil {
		return nil, err
	}
	s.logger, s.logFile = logger, logFile

	if err := s.openJournal(o); err != nil {
		s.closeLog()
		return nil, err
	}

	s.context = monitor.NewContext(tk)
	s.windows = monitor.NewWindows()
	s.filter = hierarchy.NewFilter()
	monOpts := []monitor.Option{monitor.WithLogger(s.logger), monitor.WithRecognizer(s.filter)}
	waitOpts := []wait.Option{wait.WithTimeout(o.timeout), wait.WithPollInterval(o.poll), wait.WithObserver(s.logSearch)}
	if s.recorder != nil {
		monOpts = append(monOpts, monitor.WithObserver(s.recorder.ObserveEvent))
		waitOpts = append(waitOpts, wait.WithObserver(s.recorder.ObserveSearch))
	}
	s.monitor = monitor.New(tk, s.context, s.windows, monOpts...)

	s.printer = printer.New(tk, s.exec, o.printerOpts...)
	s.finder = finder.New(tk, s.exec, finder.WithPrinter(s.printer), finder.WithScope(o.scope), finder.WithOrder(o.order))
	s.waiter = wait.New(s.finder, waitOpts...)

	s.hierarchy = hierarchy.New(tk, s.context, hierarchy.WithFilter(s.filter))

	var ignored int
	err = s.exec.Run(func() error {
		s.detach = s.monitor.Attach()
		s.monitor.Populate()
		ignored = s.ignoreExisting()
		return nil
	})
	if err != nil {
		s.closeJournal()
		s.closeLog()
		return nil, fmt.Errorf("attach monitor: %w", err)
	}

	s.logger.Printf("session %s started (ignored windows: %d)", s.id, ignored)
	return s, nil
}

// Open starts a session for a test and closes it when the test ends.
func Open(t testing.TB, tk component.Toolkit, opts ...Option) *Session {
	t.Helper()
	s, err := New(tk, opts...)
	if err != nil {
		t.Fatalf("tuirobot: open session: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("tuirobot: close session: %v", err)
		}
	})
	return s
}

func (s *Session) openJournal(o options) error {
	switch {
	case o.store != nil:
		s.store = o.store
	case o.journalPath != "":
		store, err := journal.Open(context.Background(), o.journalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		s.store, s.ownStore = store, true
	default:
		return nil
	}
	if err := s.store.BeginSession(context.Background(), s.id, s.name, time.Now()); err != nil {
		s.closeJournal()
		return fmt.Errorf("begin journal session: %w", err)
	}
	s.recorder = journal.NewRecorder(s.store, s.id, s.tk, s.logger)
	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Toolkit returns the toolkit the session drives.
func (s *Session) Toolkit() component.Toolkit { return s.tk }

// Executor returns the toolkit's UI executor.
func (s *Session) Executor() *uithread.Executor { return s.exec }

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger { return s.logger }

// Hierarchy returns the session hierarchy.
func (s *Session) Hierarchy() *hierarchy.Existing { return s.hierarchy }

// Finder returns the session finder.
func (s *Session) Finder() *finder.Finder { return s.finder }

// Waiter returns the session waiter.
func (s *Session) Waiter() *wait.Waiter { return s.waiter }

// Monitor returns the window lifecycle monitor.
func (s *Session) Monitor() *monitor.Monitor { return s.monitor }

// Windows returns the window state tracked by the monitor.
func (s *Session) Windows() *monitor.Windows { return s.windows }

// Context returns the root window registry.
func (s *Session) Context() *monitor.Context { return s.context }

// Recorder returns the journal recorder, or nil without a journal.
func (s *Session) Recorder() *journal.Recorder { return s.recorder }

// RunOnUI runs fn on the UI goroutine and waits for it.
func (s *Session) RunOnUI(fn func() error) error { return s.exec.Run(fn) }

// Find returns every component matched by m.
func (s *Session) Find(m finder.Matcher) ([]component.Component, error) {
	return s.finder.Find(s.hierarchy, m)
}

// FindOne returns the only component matched by m.
func (s *Session) FindOne(m finder.Matcher) (component.Component, error) {
	start := time.Now()
	c, err := s.finder.FindOne(s.hierarchy, m)
	s.observeLookup(m, start, c, err)
	return c, err
}

// FindIn returns the components under root matched by m.
func (s *Session) FindIn(root component.Component, m finder.Matcher) ([]component.Component, error) {
	return s.finder.FindIn(s.hierarchy, root, m)
}

// FindByName returns the only component named name within the lookup scope.
func (s *Session) FindByName(name string) (component.Component, error) {
	return s.FindOne(finder.ByName(name, s.finder.RequireShowing()))
}

// FindWithTimeout waits for m to match exactly one component. A zero
// timeout uses the session default.
func (s *Session) FindWithTimeout(m finder.Matcher, timeout time.Duration, opts ...wait.Option) (component.Component, error) {
	return s.waiter.FindWithTimeout(s.hierarchy, m, timeout, opts...)
}

// FindAllWithTimeout waits for m to match at least one component.
func (s *Session) FindAllWithTimeout(m finder.Matcher, timeout time.Duration, opts ...wait.Option) ([]component.Component, error) {
	return s.waiter.FindAllWithTimeout(s.hierarchy, m, timeout, opts...)
}

// Until waits for cond; see wait.Waiter.Until.
func (s *Session) Until(desc string, cond func() (bool, error), opts ...wait.Option) error {
	return s.waiter.Until(desc, cond, opts...)
}

// Roots returns the unfiltered root windows.
func (s *Session) Roots() []component.Component {
	return uithread.Must(s.exec, s.hierarchy.Roots)
}

// ChildrenOf returns the unfiltered children of c.
func (s *Session) ChildrenOf(c component.Component) []component.Component {
	return uithread.Must(s.exec, func() []component.Component { return s.hierarchy.ChildrenOf(c) })
}

// ParentOf returns the parent of c.
func (s *Session) ParentOf(c component.Component) component.Component {
	return uithread.Must(s.exec, func() component.Component { return s.hierarchy.ParentOf(c) })
}

// Contains reports whether c is reachable in the session hierarchy.
func (s *Session) Contains(c component.Component) bool {
	return uithread.Must(s.exec, func() bool { return s.hierarchy.Contains(c) })
}

// Filter hides c and its subtree from lookups.
func (s *Session) Filter(c component.Component) { s.hierarchy.Filter(c) }

// Unfilter reveals c again.
func (s *Session) Unfilter(c component.Component) { s.hierarchy.Unfilter(c) }

// IsFiltered reports whether c is hidden from lookups.
func (s *Session) IsFiltered(c component.Component) bool {
	return uithread.Must(s.exec, func() bool { return s.hierarchy.IsFiltered(c) })
}

// Dispose removes window w from lookups for good.
func (s *Session) Dispose(w component.Component) {
	s.hierarchy.Dispose(w)
	s.logger.Printf("session %s disposed %s", s.id, uithread.Must(s.exec, func() string { return component.Describe(s.tk, w) }))
}

// PrintHierarchy writes the session hierarchy to w.
func (s *Session) PrintHierarchy(w io.Writer) error {
	return s.printer.Fprint(w, s.hierarchy)
}

// Reset prepares the session for the next test: it forgets window state and
// filters, registers the showing windows again and, with the new-hierarchy
// option, hides the existing windows again.
func (s *Session) Reset() error {
	err := s.exec.Run(func() error {
		s.hierarchy.Reset()
		s.monitor.Reset()
		s.monitor.Populate()
		s.ignoreExisting()
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.logger.Printf("session %s reset", s.id)
	return nil
}

// ignoreExisting hides the windows present before the session. Showing
// windows stay filtered; the others are ignored only until they open. It
// must run on the UI goroutine.
func (s *Session) ignoreExisting() int {
	if !s.newHierarchy {
		return 0
	}
	windows := s.tk.Windows()
	for _, w := range windows {
		if s.tk.IsShowing(w) {
			s.filter.Filter(w)
		} else {
			s.filter.Ignore(w)
		}
	}
	return len(windows)
}

// Close detaches the monitor and closes the journal and log file the
// session opened. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		var errs []error
		if s.store != nil {
			if err := s.store.EndSession(context.Background(), s.id, time.Now()); err != nil {
				errs = append(errs, fmt.Errorf("end journal session: %w", err))
			}
		}
		if err := s.closeJournal(); err != nil {
			errs = append(errs, err)
		}
		s.logger.Printf("session %s closed", s.id)
		if err := s.closeLog(); err != nil {
			errs = append(errs, err)
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Session) closeJournal() error {
	if s.store == nil || !s.ownStore {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	if err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

func (s *Session) closeLog() error {
	if s.logFile == nil {
		return nil
	}
	err := s.logFile.Close()
	s.logFile = nil
	return err
}

func (s *Session) logSearch(r wait.Search) {
	if r.Err != nil {
		s.logger.Printf("wait for %s failed after %v: %v", r.Description, r.Elapsed, r.Err)
		return
	}
	s.logger.Printf("wait for %s found %d in %v", r.Description, r.Found, r.Elapsed)
}

func (s *Session) observeLookup(m finder.Matcher, start time.Time, c component.Component, err error) {
	r := wait.Search{Description: m.String(), Elapsed: time.Since(start), Err: err}
	if c != nil {
		r.Found = 1
	}
	var lookupErr *finder.LookupError
	if errors.As(err, &lookupErr) {
		r.Found = len(lookupErr.Found)
	}
	s.logSearch(r)
	if s.recorder != nil {
		s.recorder.ObserveSearch(r)
	}
}
