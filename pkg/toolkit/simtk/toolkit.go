package simtk

import (
	"fmt"
	"sync"
	"time"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/uithread"
)

// SystemQueue is the queue that delivers events for windows created with the
// default queue.
const SystemQueue component.Queue = "system"

// Toolkit owns the UI goroutine and every widget created through it.
type Toolkit struct {
	loop *uithread.Loop
	exec *uithread.Executor

	mu      sync.RWMutex // guards widget fields and windows
	windows []Widget

	subMu   sync.Mutex
	subs    map[int]func(component.WindowEvent)
	nextSub int
	queues  int
}

var _ component.Toolkit = (*Toolkit)(nil)

// New starts a toolkit and its UI goroutine.
func New() *Toolkit {
	loop := uithread.NewLoop()
	return &Toolkit{
		loop: loop,
		exec: uithread.NewExecutor(loop),
		subs: make(map[int]func(component.WindowEvent)),
	}
}

// Shutdown stops the UI goroutine after draining queued work.
func (tk *Toolkit) Shutdown() { tk.loop.Close() }

// Executor returns the executor bound to the UI goroutine.
func (tk *Toolkit) Executor() *uithread.Executor { return tk.exec }

// SystemQueue returns the default event queue.
func (tk *Toolkit) SystemQueue() component.Queue { return SystemQueue }

// NewQueue returns a fresh queue identity, for windows whose events must not
// arrive through the system queue.
func (tk *Toolkit) NewQueue() component.Queue {
	tk.subMu.Lock()
	defer tk.subMu.Unlock()
	tk.queues++
	return component.Queue(fmt.Sprintf("queue-%d", tk.queues))
}

// Subscribe registers fn for window events.
func (tk *Toolkit) Subscribe(fn func(component.WindowEvent)) func() {
	tk.subMu.Lock()
	defer tk.subMu.Unlock()
	id := tk.nextSub
	tk.nextSub++
	tk.subs[id] = fn
	return func() {
		tk.subMu.Lock()
		defer tk.subMu.Unlock()
		delete(tk.subs, id)
	}
}

// emit must run on the UI goroutine without tk.mu held.
func (tk *Toolkit) emit(kind component.EventKind, w Widget) {
	tk.mu.RLock()
	q := w.base().queue
	tk.mu.RUnlock()
	tk.deliver(component.WindowEvent{Kind: kind, Window: w, Queue: q, When: time.Now()})
}

func (tk *Toolkit) deliver(ev component.WindowEvent) {
	tk.subMu.Lock()
	fns := make([]func(component.WindowEvent), 0, len(tk.subs))
	for i := 0; i < tk.nextSub; i++ {
		if fn, ok := tk.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	tk.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Post delivers a raw event for w on queue q, as if the toolkit produced it.
func (tk *Toolkit) Post(kind component.EventKind, w Widget, q component.Queue) error {
	return tk.exec.Run(func() error {
		tk.deliver(component.WindowEvent{Kind: kind, Window: w, Queue: q, When: time.Now()})
		return nil
	})
}

// update applies fn to widget state on the UI goroutine. It fails once the
// toolkit is shut down.
func (tk *Toolkit) update(fn func()) error {
	return tk.exec.Run(func() error {
		tk.mu.Lock()
		defer tk.mu.Unlock()
		fn()
		return nil
	})
}

// mustUpdate is update for constructors and chained setters.
func (tk *Toolkit) mustUpdate(fn func()) {
	if err := tk.update(fn); err != nil {
		panic(fmt.Errorf("simtk: %w", err))
	}
}

func (tk *Toolkit) widget(c component.Component) (Widget, bool) {
	w, ok := c.(Widget)
	if !ok || w.base().tk != tk {
		return nil, false
	}
	return w, true
}

// Parent returns the container holding c.
func (tk *Toolkit) Parent(c component.Component) component.Component {
	w, ok := tk.widget(c)
	if !ok {
		return nil
	}
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	if p := w.base().parent; p != nil {
		return p
	}
	return nil
}

// Children returns the children of c in insertion order.
func (tk *Toolkit) Children(c component.Component) []component.Component {
	w, ok := tk.widget(c)
	if !ok {
		return nil
	}
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	kids := w.base().children
	out := make([]component.Component, len(kids))
	for i, k := range kids {
		out[i] = k
	}
	return out
}

// Name returns the widget name.
func (tk *Toolkit) Name(c component.Component) string {
	w, ok := tk.widget(c)
	if !ok {
		return ""
	}
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return w.base().name
}

// IsShowing reports whether c and all its ancestors are visible and its root
// window is open.
func (tk *Toolkit) IsShowing(c component.Component) bool {
	w, ok := tk.widget(c)
	if !ok {
		return false
	}
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return showingLocked(w)
}

func showingLocked(w Widget) bool {
	for cur := w; cur != nil; cur = cur.base().parent {
		n := cur.base()
		if !n.visible || n.disposed {
			return false
		}
		if n.parent == nil {
			return n.topLevel && n.opened
		}
	}
	return false
}

// IsEnabled returns the enabled flag of c.
func (tk *Toolkit) IsEnabled(c component.Component) bool {
	w, ok := tk.widget(c)
	if !ok {
		return false
	}
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return w.base().enabled
}

// IsWindow is true for frames, dialogs and applets.
func (tk *Toolkit) IsWindow(c component.Component) bool {
	switch c.(type) {
	case Window, *Applet:
		_, ok := tk.widget(c)
		return ok
	}
	return false
}

// ReadyOnOpen is true for file dialogs, which never send a readiness event.
func (tk *Toolkit) ReadyOnOpen(w component.Component) bool {
	_, ok := w.(*FileDialog)
	return ok
}

// Windows returns the top-level windows that have been created and not
// disposed.
func (tk *Toolkit) Windows() []component.Component {
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	out := make([]component.Component, 0, len(tk.windows))
	for _, w := range tk.windows {
		out = append(out, w)
	}
	return out
}
