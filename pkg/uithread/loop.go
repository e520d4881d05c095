package uithread

import (
	"sync"

	"github.com/ajramos/tuirobot/internal/goid"
)

// Dispatcher schedules work on a UI goroutine. Post must not wait for fn to
// run; it returns an error only if the work can never run.
type Dispatcher interface {
	Post(fn func()) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func()) error

// Post calls f(fn).
func (f DispatcherFunc) Post(fn func()) error { return f(fn) }

// Loop is a Dispatcher that owns a dedicated goroutine and runs posted work
// in FIFO order. It stands in for a toolkit event loop.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	done    chan struct{}
	gid     int64
	started chan struct{}
}

// NewLoop starts a loop goroutine.
func NewLoop() *Loop {
	l := &Loop{
		done:    make(chan struct{}),
		started: make(chan struct{}),
	}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	<-l.started
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	l.gid = goid.Current()
	close(l.started)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.stopped {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
	}
}

// Post appends fn to the queue.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return ErrStopped
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
	return nil
}

// Goroutine returns the identifier of the loop goroutine.
func (l *Loop) Goroutine() int64 { return l.gid }

// Close stops accepting work, runs what is already queued and waits for the
// loop goroutine to exit. Calling Close from the loop goroutine does not wait.
func (l *Loop) Close() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
	if goid.Current() == l.gid {
		return
	}
	<-l.done
}
