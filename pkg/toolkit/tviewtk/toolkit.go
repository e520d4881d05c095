package tviewtk

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/uithread"
)

// SystemQueue is the queue of every page event.
const SystemQueue component.Queue = "tview"

// ContainerFunc returns the children of p when p is a container it knows.
type ContainerFunc func(p tview.Primitive) ([]tview.Primitive, bool)

// Toolkit drives one tview application on a simulation screen.
type Toolkit struct {
	app    *tview.Application
	pages  *Pages
	screen tcell.SimulationScreen
	exec   *uithread.Executor

	width, height int
	containers    []ContainerFunc

	namesMu sync.RWMutex
	names   map[tview.Primitive]string

	subMu   sync.Mutex
	subs    map[int]func(component.WindowEvent)
	nextSub int

	// UI goroutine only.
	known   []page
	front   string
	windows map[tview.Primitive]bool

	running atomic.Bool
	stopped atomic.Bool
	done    chan error

	postMu  sync.Mutex // guards queue, pumping and the stopped transition
	queue   []func()
	pumping bool
}

type page struct {
	name    string
	item    tview.Primitive
	visible bool
	opened  bool
}

var _ component.Toolkit = (*Toolkit)(nil)

// Option configures a Toolkit.
type Option func(*Toolkit)

// WithScreenSize sets the simulation screen size. The default is 120x40.
func WithScreenSize(width, height int) Option {
	return func(tk *Toolkit) {
		if width > 0 && height > 0 {
			tk.width, tk.height = width, height
		}
	}
}

// WithContainer teaches the toolkit the children of a custom container.
func WithContainer(fn ContainerFunc) Option {
	return func(tk *Toolkit) { tk.containers = append(tk.containers, fn) }
}

// New creates an application whose root is an empty Pages. Add pages before
// or after Start; the application runs once Start is called.
func New(opts ...Option) *Toolkit {
	tk := &Toolkit{
		app:     tview.NewApplication(),
		pages:   NewPages(),
		screen:  tcell.NewSimulationScreen("UTF-8"),
		width:   120,
		height:  40,
		names:   make(map[tview.Primitive]string),
		subs:    make(map[int]func(component.WindowEvent)),
		windows: make(map[tview.Primitive]bool),
		done:    make(chan error, 1),
	}
	for _, o := range opts {
		o(tk)
	}
	tk.exec = uithread.NewExecutor(uithread.DispatcherFunc(tk.post))
	tk.pages.SetChangedFunc(tk.pagesChanged)
	tk.app.SetScreen(tk.screen).SetRoot(tk.pages, true).EnableMouse(true)
	return tk
}

// App returns the application.
func (tk *Toolkit) App() *tview.Application { return tk.app }

// Pages returns the root pages. Mutate them through Update once started, or
// use AddPage, ShowPage, HidePage and RemovePage.
func (tk *Toolkit) Pages() *Pages { return tk.pages }

// AddPage adds item as a root page called name.
func (tk *Toolkit) AddPage(name string, item tview.Primitive, visible bool) error {
	return tk.Update(func() { tk.pages.AddPage(name, item, true, visible) })
}

// ShowPage makes the root page called name visible.
func (tk *Toolkit) ShowPage(name string) error {
	return tk.Update(func() { tk.pages.ShowPage(name) })
}

// HidePage hides the root page called name.
func (tk *Toolkit) HidePage(name string) error {
	return tk.Update(func() { tk.pages.HidePage(name) })
}

// RemovePage closes the root page called name.
func (tk *Toolkit) RemovePage(name string) error {
	return tk.Update(func() { tk.pages.RemovePage(name) })
}

// Screen returns the simulation screen the application draws to.
func (tk *Toolkit) Screen() tcell.SimulationScreen { return tk.screen }

// Executor returns the executor bound to the application goroutine.
func (tk *Toolkit) Executor() *uithread.Executor { return tk.exec }

// SystemQueue returns the only queue tview has.
func (tk *Toolkit) SystemQueue() component.Queue { return SystemQueue }

// Start runs the application in the background and waits until its event
// loop processes work.
func (tk *Toolkit) Start() error {
	if tk.stopped.Load() {
		return uithread.ErrStopped
	}
	if !tk.running.CompareAndSwap(false, true) {
		return errors.New("tviewtk: already started")
	}
	tk.screen.SetSize(tk.width, tk.height)
	go func() {
		tk.done <- tk.app.Run()
	}()
	if err := tk.exec.Prime(); err != nil {
		return fmt.Errorf("tviewtk: start: %w", err)
	}
	return tk.exec.Run(func() error {
		tk.sync()
		return nil
	})
}

// Stop ends the application and waits for its goroutine to return. Work
// posted before Stop that the application did not reach runs after the
// event loop has exited, so no Update caller is left waiting.
func (tk *Toolkit) Stop() error {
	if !tk.running.Load() {
		return nil
	}
	tk.postMu.Lock()
	first := tk.stopped.CompareAndSwap(false, true)
	tk.postMu.Unlock()
	if !first {
		return nil
	}
	tk.app.Stop()
	var err error
	select {
	case err = <-tk.done:
	case <-time.After(5 * time.Second):
		return errors.New("tviewtk: application did not stop")
	}
	tk.drain()
	return err
}

// post queues fn for the application goroutine. At most one pump is pending
// in the application's update channel, so posting never blocks on it.
func (tk *Toolkit) post(fn func()) error {
	tk.postMu.Lock()
	if tk.stopped.Load() {
		tk.postMu.Unlock()
		return uithread.ErrStopped
	}
	tk.queue = append(tk.queue, fn)
	schedule := !tk.pumping
	tk.pumping = true
	tk.postMu.Unlock()
	if schedule {
		tk.app.QueueUpdateDraw(tk.pump)
	}
	return nil
}

// pump runs the work posted so far. It runs on the application goroutine.
func (tk *Toolkit) pump() {
	tk.postMu.Lock()
	work := tk.queue
	tk.queue = nil
	tk.pumping = false
	tk.postMu.Unlock()
	for _, fn := range work {
		fn()
	}
}

// drain runs leftover work on a goroutine of its own once the application
// goroutine is gone.
func (tk *Toolkit) drain() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		tk.pump()
	}()
	<-done
}

// Update runs fn on the application goroutine and redraws.
func (tk *Toolkit) Update(fn func()) error {
	return tk.exec.Run(func() error {
		fn()
		return nil
	})
}

// SetName names p for lookups by name.
func (tk *Toolkit) SetName(p tview.Primitive, name string) {
	tk.namesMu.Lock()
	defer tk.namesMu.Unlock()
	tk.names[p] = name
}

// Named names p and returns it, for inline use while building layouts.
func Named[P tview.Primitive](tk *Toolkit, name string, p P) P {
	tk.SetName(p, name)
	return p
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

func (tk *Toolkit) emit(kind component.EventKind, item tview.Primitive) {
	ev := component.WindowEvent{Kind: kind, Window: item, Queue: SystemQueue, When: time.Now()}
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

// ScreenText returns the simulation screen content, one line per row.
func (tk *Toolkit) ScreenText() string {
	cells, width, height := tk.screen.GetContents()
	buf := make([]rune, 0, (width+1)*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := cells[y*width+x]
			if len(cell.Runes) == 0 {
				buf = append(buf, ' ')
				continue
			}
			buf = append(buf, cell.Runes[0])
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
