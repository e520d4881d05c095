// Package simtk is an in-memory widget toolkit with its own UI goroutine.
//
// It models just enough of a desktop toolkit to exercise component lookup:
// top-level windows (Frame, Dialog, FileDialog), an embedded window-like
// Applet, containers (Panel) and leaf widgets (Button, TextField). Widget
// state is owned by the UI goroutine; mutations made through the package API
// are marshalled onto it, and window lifecycle changes are delivered to
// subscribers as component.WindowEvent values on that goroutine.
package simtk
