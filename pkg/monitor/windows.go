package monitor

import (
	"fmt"

	"github.com/ajramos/tuirobot/internal/cow"
	"github.com/ajramos/tuirobot/pkg/component"
)

// State is the lifecycle state of a window.
type State int

const (
	Unseen State = iota
	Showing
	Ready
	Hidden
	Closed
)

func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Showing:
		return "showing"
	case Ready:
		return "ready"
	case Hidden:
		return "hidden"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var transitions = map[State][]State{
	Unseen:  {Showing, Closed},
	Showing: {Ready, Hidden, Closed},
	Ready:   {Hidden, Closed},
	Hidden:  {Showing, Closed},
}

// CanTransition reports whether a window may move from one state to another.
func CanTransition(from, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionError reports a rejected state change.
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid window transition from %s to %s", e.From, e.To)
}

// Windows holds per-window lifecycle state.
type Windows struct {
	states cow.Map[component.Component, State]
}

// NewWindows returns an empty registry.
func NewWindows() *Windows { return &Windows{} }

// State returns the state of w, Unseen if it was never observed.
func (ws *Windows) State(w component.Component) State {
	s, _ := ws.states.Load(w)
	return s
}

func (ws *Windows) move(w component.Component, to State) (State, error) {
	var from State
	var err error
	ws.states.Update(w, func(old State, _ bool) State {
		from = old
		if old == to {
			return old
		}
		if !CanTransition(old, to) {
			err = &TransitionError{From: old, To: to}
			return old
		}
		return to
	})
	return from, err
}

// MarkAsShowing records that w is visible.
func (ws *Windows) MarkAsShowing(w component.Component) error {
	_, err := ws.move(w, Showing)
	return err
}

// MarkAsReady records that w can receive input. A window that is already
// ready stays ready.
func (ws *Windows) MarkAsReady(w component.Component) error {
	_, err := ws.move(w, Ready)
	return err
}

// MarkAsHidden records that w was hidden without being closed.
func (ws *Windows) MarkAsHidden(w component.Component) error {
	_, err := ws.move(w, Hidden)
	return err
}

// MarkAsClosed records that w was disposed. Closed is terminal.
func (ws *Windows) MarkAsClosed(w component.Component) error {
	_, err := ws.move(w, Closed)
	return err
}

// IsShowing reports whether w is showing or ready.
func (ws *Windows) IsShowing(w component.Component) bool {
	s := ws.State(w)
	return s == Showing || s == Ready
}

// IsReady reports whether w reached the ready state.
func (ws *Windows) IsReady(w component.Component) bool { return ws.State(w) == Ready }

// IsHidden reports whether w is hidden.
func (ws *Windows) IsHidden(w component.Component) bool { return ws.State(w) == Hidden }

// IsClosed reports whether w was closed.
func (ws *Windows) IsClosed(w component.Component) bool { return ws.State(w) == Closed }

// Known returns every observed window in first-seen order.
func (ws *Windows) Known() []component.Component { return ws.states.Keys() }

// Reset forgets every window.
func (ws *Windows) Reset() { ws.states.Clear() }
