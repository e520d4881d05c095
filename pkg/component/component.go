// Package component defines the contract between the lookup core and a
// widget toolkit: opaque component handles, live tree queries, window
// lifecycle events and action failures.
package component

import (
	"fmt"
	"strings"
	"time"

	"github.com/ajramos/tuirobot/pkg/uithread"
)

// Component is an opaque widget handle. Handles are compared by identity and
// must therefore be comparable values; toolkits use pointers.
type Component any

// Tree answers containment queries against the live widget tree. Children
// returns a fresh slice in the toolkit's own order.
type Tree interface {
	Parent(c Component) Component
	Children(c Component) []Component
}

// Inspector reads component state. Implementations may assume they run on
// the UI goroutine.
type Inspector interface {
	Name(c Component) string
	IsShowing(c Component) bool
	IsEnabled(c Component) bool
}

// Queue identifies the event queue that delivered a window event.
type Queue string

// Toolkit is everything the core needs from a widget toolkit.
type Toolkit interface {
	Tree
	Inspector

	// IsWindow reports whether c is a window or a window-like embedded
	// component (an applet) that receives window events.
	IsWindow(c Component) bool

	// ReadyOnOpen reports whether w can be interacted with as soon as it
	// opens, without a separate readiness signal.
	ReadyOnOpen(w Component) bool

	// Windows returns every top-level window that currently exists.
	Windows() []Component

	// SystemQueue is the toolkit's main event queue.
	SystemQueue() Queue

	// Executor marshals work onto the toolkit's UI goroutine.
	Executor() *uithread.Executor

	// Subscribe registers fn for window events, delivered on the UI
	// goroutine. The returned func removes the subscription.
	Subscribe(fn func(WindowEvent)) (cancel func())
}

// EventKind enumerates window lifecycle events.
type EventKind int

const (
	EventOpened EventKind = iota
	EventActivated
	EventReady
	EventDeactivated
	EventIconified
	EventDeiconified
	EventShown
	EventHidden
	EventClosing
	EventClosed
)

var eventKindNames = [...]string{
	EventOpened:      "opened",
	EventActivated:   "activated",
	EventReady:       "ready",
	EventDeactivated: "deactivated",
	EventIconified:   "iconified",
	EventDeiconified: "deiconified",
	EventShown:       "shown",
	EventHidden:      "hidden",
	EventClosing:     "closing",
	EventClosed:      "closed",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, bool) {
	for i, name := range eventKindNames {
		if name == s {
			return EventKind(i), true
		}
	}
	return 0, false
}

// WindowEvent is a toolkit-level window lifecycle notification.
type WindowEvent struct {
	Kind   EventKind
	Window Component
	Queue  Queue
	When   time.Time
}

// Describe renders c for diagnostics as Type[name='x', showing=true].
// It reads component state and belongs on the UI goroutine.
func Describe(in Inspector, c Component) string {
	if c == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(TypeName(c))
	b.WriteString("[")
	if name := in.Name(c); name != "" {
		fmt.Fprintf(&b, "name='%s', ", name)
	}
	fmt.Fprintf(&b, "showing=%t", in.IsShowing(c))
	if !in.IsEnabled(c) {
		b.WriteString(", enabled=false")
	}
	b.WriteString("]")
	return b.String()
}

// TypeName returns the unqualified dynamic type of c, without pointer marks.
func TypeName(c Component) string {
	name := strings.TrimLeft(fmt.Sprintf("%T", c), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
