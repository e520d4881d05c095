// Package monitor tracks window lifecycle from toolkit events.
//
// A [Monitor] ingests component.WindowEvent values and keeps two pieces of
// state consistent with what the toolkit reports: the [Context], which knows
// the root windows and the event queue each window was seen on, and
// [Windows], which holds the per-window state machine
//
//	Unseen -> Showing -> Ready
//	Showing|Ready <-> Hidden
//	Showing|Ready|Hidden -> Closed (terminal)
//
// Closing events are ignored: a window that is closing is not closed yet.
// A Closed event for a root window removes it from the context; for an
// embedded window (an applet) it only updates the bookkeeping and the window
// stays reachable from its container.
//
// State is written on the UI goroutine and may be read from any goroutine.
package monitor
