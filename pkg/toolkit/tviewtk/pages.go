package tviewtk

import (
	"github.com/rivo/tview"
)

// Pages is a tview.Pages that remembers the item of every page, which
// tview.Pages does not expose. Pages must be added and removed through the
// methods of Pages, not through the embedded tview.Pages.
type Pages struct {
	*tview.Pages
	items   map[string]tview.Primitive
	changed func()
}

// NewPages returns an empty Pages.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
		items: make(map[string]tview.Primitive),
	}
}

// SetChangedFunc sets the handler called whenever pages are added, removed,
// shown or hidden.
func (p *Pages) SetChangedFunc(handler func()) *Pages {
	p.changed = handler
	p.Pages.SetChangedFunc(handler)
	return p
}

// AddPage adds or replaces the page called name.
func (p *Pages) AddPage(name string, item tview.Primitive, resize, visible bool) *Pages {
	p.items[name] = item
	p.Pages.AddPage(name, item, resize, visible)
	return p
}

// AddAndSwitchToPage adds the page and makes it the only visible one.
func (p *Pages) AddAndSwitchToPage(name string, item tview.Primitive, resize bool) *Pages {
	p.AddPage(name, item, resize, true)
	p.Pages.SwitchToPage(name)
	return p
}

// RemovePage removes the page called name. The changed handler runs even
// when the removed page was hidden.
func (p *Pages) RemovePage(name string) *Pages {
	if _, ok := p.items[name]; !ok {
		return p
	}
	delete(p.items, name)
	p.Pages.RemovePage(name)
	if p.changed != nil {
		p.changed()
	}
	return p
}

// GetPage returns the item of the page called name, or nil.
func (p *Pages) GetPage(name string) tview.Primitive {
	return p.items[name]
}

// Items returns the page items ordered from front to back, optionally only
// the visible ones.
func (p *Pages) Items(visibleOnly bool) []tview.Primitive {
	names := p.GetPageNames(visibleOnly)
	out := make([]tview.Primitive, 0, len(names))
	for _, name := range names {
		if item := p.items[name]; item != nil {
			out = append(out, item)
		}
	}
	return out
}

// Contains reports whether item is one of the pages, optionally only among
// the visible ones.
func (p *Pages) Contains(item tview.Primitive, visibleOnly bool) bool {
	for _, it := range p.Items(visibleOnly) {
		if it == item {
			return true
		}
	}
	return false
}
