package tviewtk

import (
	"github.com/rivo/tview"

	"github.com/ajramos/tuirobot/pkg/component"
)

// pagesChanged runs whenever the root pages change. Changes made off the
// application goroutine are reconciled there later.
func (tk *Toolkit) pagesChanged() {
	if !tk.running.Load() {
		return
	}
	if tk.exec.IsUIThread() {
		tk.sync()
		return
	}
	_ = tk.exec.Post(tk.sync)
}

// sync diffs the root pages against the last known state and fires the
// window events that explain the difference.
func (tk *Toolkit) sync() {
	visible := make(map[string]bool)
	for _, name := range tk.pages.GetPageNames(true) {
		visible[name] = true
	}

	prev := make(map[string]page, len(tk.known))
	for _, pg := range tk.known {
		prev[pg.name] = pg
	}

	names := tk.pages.GetPageNames(false)
	current := make(map[string]bool, len(names))
	next := make([]page, 0, len(names))
	type change struct {
		kind component.EventKind
		item tview.Primitive
	}
	var changes []change

	for _, pg := range tk.known {
		item := tk.pages.GetPage(pg.name)
		if pg.opened && (item == nil || item != pg.item) {
			changes = append(changes, change{component.EventClosing, pg.item}, change{component.EventClosed, pg.item})
		}
	}

	for _, name := range names {
		current[name] = true
		item := tk.pages.GetPage(name)
		if item == nil {
			continue
		}
		tk.windows[item] = true
		now := page{name: name, item: item, visible: visible[name]}
		old, seen := prev[name]
		if seen && old.item == item {
			now.opened = old.opened
		}
		switch {
		case now.visible && !now.opened:
			now.opened = true
			changes = append(changes, change{component.EventOpened, item})
		case now.visible && !old.visible:
			changes = append(changes, change{component.EventShown, item})
		case !now.visible && seen && old.item == item && old.visible:
			changes = append(changes, change{component.EventHidden, item})
		}
		next = append(next, now)
	}
	tk.known = next

	front, item := tk.pages.GetFrontPage()
	if front != tk.front {
		if old, ok := prev[tk.front]; ok && current[tk.front] && tk.pages.GetPage(tk.front) == old.item {
			changes = append(changes, change{component.EventDeactivated, old.item})
		}
		if item != nil {
			changes = append(changes, change{component.EventActivated, item})
		}
		tk.front = front
	}

	for _, c := range changes {
		tk.emit(c.kind, c.item)
	}
}
