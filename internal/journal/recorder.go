package journal

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ajramos/tuirobot/pkg/component"
	"github.com/ajramos/tuirobot/pkg/monitor"
	"github.com/ajramos/tuirobot/pkg/wait"
)

// Recorder writes the events and searches of one session to a Store.
type Recorder struct {
	store     *Store
	sessionID string
	in        component.Inspector
	logger    *log.Logger
	timeout   time.Duration

	mu      sync.Mutex
	lastErr error
}

// NewRecorder returns a recorder for sessionID. in describes windows; it is
// only called from the UI goroutine. logger may be nil.
func NewRecorder(store *Store, sessionID string, in component.Inspector, logger *log.Logger) *Recorder {
	return &Recorder{
		store:     store,
		sessionID: sessionID,
		in:        in,
		logger:    logger,
		timeout:   2 * time.Second,
	}
}

// SessionID returns the session the recorder writes to.
func (r *Recorder) SessionID() string { return r.sessionID }

// ObserveEvent records a processed window event. It matches monitor.Observer.
func (r *Recorder) ObserveEvent(e component.WindowEvent, from, to monitor.State) {
	at := e.When
	if at.IsZero() {
		at = time.Now()
	}
	r.write(func(ctx context.Context) error {
		return r.store.RecordEvent(ctx, Event{
			SessionID: r.sessionID,
			Kind:      e.Kind.String(),
			Window:    component.Describe(r.in, e.Window),
			Queue:     string(e.Queue),
			From:      from.String(),
			To:        to.String(),
			At:        at,
		})
	})
}

// ObserveSearch records a finished wait. It matches the wait observer.
func (r *Recorder) ObserveSearch(s wait.Search) {
	rec := Search{
		SessionID: r.sessionID,
		Matcher:   s.Description,
		Found:     s.Found,
		Timeout:   s.Timeout,
		Elapsed:   s.Elapsed,
		At:        time.Now(),
	}
	if s.Err != nil {
		rec.Error = s.Err.Error()
	}
	r.write(func(ctx context.Context) error { return r.store.RecordSearch(ctx, rec) })
}

// Err returns the last write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Recorder) write(fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		if r.logger != nil {
			r.logger.Printf("journal: write failed for session %s: %v", r.sessionID, err)
		}
	}
}
