// Package tviewtk adapts a rivo/tview application to the component contract.
//
// The pages of the application's root [Pages] are its windows: adding
// a visible page opens a window, hiding and showing it fires Hidden and
// Shown, bringing it to the front activates it and removing it closes it.
// Containers are walked through [tview.Flex], [tview.Form] and nested
// [Pages]; other containers can be registered with [WithContainer]. A plain
// [tview.Pages] does not expose its items, so use [NewPages] wherever pages
// must be searchable.
//
// The application draws to a [tcell.SimulationScreen] and every read of
// widget state runs on the application's event goroutine through
// Application.QueueUpdateDraw. A [Robot] feeds keys and mouse clicks into the
// screen so they travel the same path as real terminal input.
package tviewtk
