package monitor

import (
	"log"
	"sync"

	"github.com/ajramos/tuirobot/pkg/component"
)

// WindowTracker is the per-window state the monitor drives. *Windows
// implements it.
type WindowTracker interface {
	State(w component.Component) State
	MarkAsShowing(w component.Component) error
	MarkAsReady(w component.Component) error
	MarkAsHidden(w component.Component) error
	MarkAsClosed(w component.Component) error
}

// ContextTracker is the root and queue registry the monitor drives.
// *Context implements it.
type ContextTracker interface {
	AddContextFor(w component.Component, q component.Queue)
	RemoveContextFor(w component.Component)
	StoredQueueFor(w component.Component) component.Queue
}

// Recognizer reveals windows that were ignored until they open.
// *hierarchy.Filter implements it.
type Recognizer interface {
	Recognize(w component.Component)
}

// Observer is notified after the monitor processed an event.
type Observer func(e component.WindowEvent, from, to State)

// Monitor turns toolkit window events into context and window state.
type Monitor struct {
	tk      component.Toolkit
	ctx     ContextTracker
	windows WindowTracker
	logger  *log.Logger
	filter  Recognizer

	mu        sync.RWMutex
	observers []Observer
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger logs ignored events and rejected transitions to l.
func WithLogger(l *log.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithRecognizer hands windows that open or are shown to r.
func WithRecognizer(r Recognizer) Option {
	return func(m *Monitor) { m.filter = r }
}

// WithObserver registers o at construction.
func WithObserver(o Observer) Option {
	return func(m *Monitor) { m.observers = append(m.observers, o) }
}

// New creates a monitor. It does not listen to tk until Attach is called.
func New(tk component.Toolkit, ctx ContextTracker, windows WindowTracker, opts ...Option) *Monitor {
	m := &Monitor{tk: tk, ctx: ctx, windows: windows}
	for _, o := range opts {
		o(m)
	}
	return m
}

// AddObserver registers o for subsequent events.
func (m *Monitor) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Attach subscribes the monitor to the toolkit's window events and returns
// the func that detaches it.
func (m *Monitor) Attach() (detach func()) {
	return m.tk.Subscribe(m.Dispatch)
}

// Populate registers the windows that were already showing before the
// monitor attached, as if they had opened and become ready. It must run on
// the UI goroutine.
func (m *Monitor) Populate() {
	for _, w := range m.tk.Windows() {
		if m.windows.State(w) != Unseen || !m.tk.IsShowing(w) {
			continue
		}
		m.ctx.AddContextFor(w, m.tk.SystemQueue())
		m.mark(component.WindowEvent{Kind: component.EventOpened, Window: w}, m.windows.MarkAsShowing)
		m.mark(component.WindowEvent{Kind: component.EventReady, Window: w}, m.windows.MarkAsReady)
	}
}

// Dispatch processes one event. It must run on the UI goroutine.
func (m *Monitor) Dispatch(e component.WindowEvent) {
	w := e.Window
	if w == nil || !m.tk.IsWindow(w) {
		return
	}
	from := m.windows.State(w)
	if from == Closed {
		m.logf("ignoring %s event for closed window %T", e.Kind, w)
		return
	}

	q := e.Queue
	if q == "" {
		q = m.tk.SystemQueue()
	}
	if m.ctx.StoredQueueFor(w) != m.tk.SystemQueue() {
		m.ctx.AddContextFor(w, q)
	}

	switch e.Kind {
	case component.EventOpened:
		m.recognize(w)
		m.ctx.AddContextFor(w, q)
		m.mark(e, m.windows.MarkAsShowing)
		if m.tk.ReadyOnOpen(w) {
			m.mark(e, m.windows.MarkAsReady)
		}
	case component.EventClosing:
	case component.EventClosed:
		if m.tk.Parent(w) == nil {
			m.ctx.RemoveContextFor(w)
		}
		m.mark(e, m.windows.MarkAsClosed)
	case component.EventReady, component.EventActivated:
		m.ensureShowing(e)
		m.mark(e, m.windows.MarkAsReady)
	case component.EventShown:
		m.recognize(w)
		if s := m.windows.State(w); s != Showing && s != Ready {
			m.mark(e, m.windows.MarkAsShowing)
		}
	case component.EventHidden:
		m.ensureShowing(e)
		m.mark(e, m.windows.MarkAsHidden)
	default:
		m.ensureShowing(e)
	}

	m.notify(e, from, m.windows.State(w))
}

// ensureShowing registers a window first seen through an event other than
// Opened.
func (m *Monitor) ensureShowing(e component.WindowEvent) {
	if m.windows.State(e.Window) == Unseen {
		m.mark(e, m.windows.MarkAsShowing)
	}
}

func (m *Monitor) recognize(w component.Component) {
	if m.filter != nil {
		m.filter.Recognize(w)
	}
}

func (m *Monitor) mark(e component.WindowEvent, fn func(component.Component) error) {
	if err := fn(e.Window); err != nil {
		m.logf("%s event for %T: %v", e.Kind, e.Window, err)
	}
}

func (m *Monitor) notify(e component.WindowEvent, from, to State) {
	m.mu.RLock()
	obs := m.observers
	m.mu.RUnlock()
	for _, o := range obs {
		o(e, from, to)
	}
}

func (m *Monitor) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

// Reset forgets every window state and context the monitor built.
func (m *Monitor) Reset() {
	type resetter interface{ Reset() }
	if r, ok := m.ctx.(resetter); ok {
		r.Reset()
	}
	if r, ok := m.windows.(resetter); ok {
		r.Reset()
	}
}
